package logtext

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-05-21T14:03:07.123456")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 5, 21, 14, 3, 7, 123456000, time.Local), ts)

	ts, err = ParseTimestamp("2025-05-21T14:03:07")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 5, 21, 14, 3, 7, 0, time.Local), ts)

	_, err = ParseTimestamp("21/05/2025 14:03")
	require.Error(t, err)
	var fErr *FormatError
	require.ErrorAs(t, err, &fErr)
	require.Equal(t, "21/05/2025 14:03", fErr.Value)
}

func TestFindTimestamps(t *testing.T) {
	text := "began at 2025-05-21T14:03:07.123456\nnoise\nended at 2025-05-21T15:00:00"
	require.Equal(t,
		[]string{"2025-05-21T14:03:07.123456", "2025-05-21T15:00:00"},
		FindTimestamps(text))
	require.Empty(t, FindTimestamps("no timestamps here"))
}

func TestStripANSI(t *testing.T) {
	require.Equal(t, "fetch failed", StripANSI("\x1b[31mfetch failed\x1b[0m"))
	require.Equal(t, "plain", StripANSI("plain"))
}

func TestLastLine(t *testing.T) {
	require.Equal(t, "last meaningful", LastLine("first\nlast meaningful\n\n  \n"))
	require.Equal(t, "colored", LastLine("first\n\x1b[31mcolored\x1b[0m  \n"))
	require.Equal(t, "", LastLine(""))
	require.Equal(t, "", LastLine("\n \n\t\n"))
}

func TestReadText_Plain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld"), 0o644))

	text, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, "hello\nworld", text)
}

func TestReadText_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, '!'}, 0o644))

	text, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, "ok�!", text)
}

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestReadText_ZipSingleMember(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.log.zip")
	writeZip(t, path, map[string]string{"query.log": "zipped content"})

	text, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, "zipped content", text)
}

func TestReadText_ZipPicksLogMember(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.log.zip")
	writeZip(t, path, map[string]string{
		"query.log": "the log",
		"README.md": "not the log",
	})

	text, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, "the log", text)
}

func TestReadText_ZipAmbiguous(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.log.zip")
	writeZip(t, path, map[string]string{
		"a.log": "one",
		"b.log": "two",
	})

	_, err := ReadText(path)
	require.ErrorIs(t, err, ErrAmbiguousArchive)
}
