// Package logtext holds the low-level text extraction helpers shared by the
// log parsers: ISO-8601 timestamp parsing, ANSI stripping and zip-transparent
// file reads.
package logtext

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ISOPattern matches the engine's local ISO-8601 timestamps, with or without
// fractional seconds.
const ISOPattern = `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?`

var (
	isoRE  = regexp.MustCompile(ISOPattern)
	ansiRE = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)
)

// FormatError reports a timestamp that matched neither supported layout.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized timestamp: %q", e.Value)
}

// ErrAmbiguousArchive is returned when a zip archive holds several candidate
// text members and none can be singled out.
var ErrAmbiguousArchive = errors.New("zip archive has multiple candidate text members")

// ParseTimestamp parses a local ISO-8601 timestamp in either the
// fractional-seconds or whole-seconds layout.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &FormatError{Value: s}
}

// FindTimestamps returns every ISO-8601 timestamp substring in s, in order.
func FindTimestamps(s string) []string {
	return isoRE.FindAllString(s, -1)
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// LastLine returns the last non-empty line of text with trailing whitespace
// and ANSI sequences removed. Empty input yields "".
func LastLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := StripANSI(strings.TrimRight(lines[i], " \t\r"))
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// ReadText reads a log file as UTF-8, replacing invalid bytes. Paths ending
// in .zip are read in place: the archive must contain exactly one
// non-directory member, or exactly one member with a .log or .txt suffix
// when there are several.
func ReadText(path string) (string, error) {
	if strings.HasSuffix(path, ".zip") {
		return readZipText(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return sanitizeUTF8(data), nil
}

func readZipText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	var files []*zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("archive %s contains no files", path)
	}

	member := files[0]
	if len(files) > 1 {
		member = nil
		for _, f := range files {
			if strings.HasSuffix(f.Name, ".log") || strings.HasSuffix(f.Name, ".txt") {
				if member != nil {
					return "", fmt.Errorf("%w: %s", ErrAmbiguousArchive, path)
				}
				member = f
			}
		}
		if member == nil {
			return "", fmt.Errorf("%w: %s", ErrAmbiguousArchive, path)
		}
	}

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open member %s of %s: %w", member.Name, path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read member %s of %s: %w", member.Name, path, err)
	}
	return sanitizeUTF8(data), nil
}

// sanitizeUTF8 decodes data as UTF-8, replacing invalid sequences with the
// replacement rune.
func sanitizeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}
