package batchlog

import (
	"regexp"
	"strings"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

// classifyRule maps a set of error substrings onto one category. Rules are
// checked in order and the first match wins, so specific or severe
// categories must come before generic ones: a log that contains both a
// heap-limit trace and the "fetch failed" it caused classifies as the
// engine fatal.
type classifyRule struct {
	substrings []string
	category   model.ErrorCategory
}

var classifyRules = []classifyRule{
	{[]string{"fatal error", "js stacktrace", "heap limit"}, model.ErrorEngineFatal},
	{[]string{"terminated"}, model.ErrorTerminated},
	{[]string{"hangup"}, model.ErrorHangup},
	{[]string{"504 gateway time-out"}, model.ErrorGatewayTimeout},
	{[]string{`<!doctype html system "about:legacy-compat">`}, model.ErrorUpstreamQuirk},
}

var httpStatusRE = regexp.MustCompile(`\(HTTP status (\d+)\)`)

// Classify matches error text against the fixed ordered pattern list. An
// explicit HTTP status code ranks above the generic fetch failure it usually
// causes. The second return value reports whether any recognized pattern
// matched; unmatched text is the caller's problem (last-line fallback).
func Classify(text string) (model.ErrorCategory, bool) {
	lower := strings.ToLower(text)
	for _, rule := range classifyRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.category, true
			}
		}
	}
	if m := httpStatusRE.FindStringSubmatch(text); m != nil {
		return model.HTTPStatusCategory(m[1]), true
	}
	if strings.Contains(lower, "fetch failed") {
		return model.ErrorFetchFailed, true
	}
	return model.ErrorUnknown, false
}
