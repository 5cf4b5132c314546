package normalize

import (
	"regexp"
	"strings"
)

// A repair is one ordered transform of the repair pass. Every transform is
// idempotent: applied to already-conforming text it must not change it.
type repair struct {
	name  string
	apply func(string) string
}

var (
	tagPattern           = regexp.MustCompile(`<[^<>]+>`)
	fencePattern         = regexp.MustCompile("```[a-zA-Z]*")
	unquotedKeyPattern   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	singleKeyPattern     = regexp.MustCompile(`([{,]\s*)'([^']*)'\s*:`)
	singleValuePattern   = regexp.MustCompile(`:\s*'([^']*)'`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	missingCommaPattern  = regexp.MustCompile(`([}\]])\s*([{\[])`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

var repairs = []repair{
	{"strip_tags", func(s string) string {
		return tagPattern.ReplaceAllString(s, "")
	}},
	{"strip_fences", func(s string) string {
		return fencePattern.ReplaceAllString(s, "")
	}},
	{"clamp_braces", clampToBraces},
	{"quote_single_keys", func(s string) string {
		return singleKeyPattern.ReplaceAllString(s, `${1}"${2}":`)
	}},
	{"quote_bare_keys", func(s string) string {
		return unquotedKeyPattern.ReplaceAllString(s, `${1}"${2}":`)
	}},
	{"quote_single_values", func(s string) string {
		return singleValuePattern.ReplaceAllString(s, `: "${1}"`)
	}},
	{"drop_trailing_commas", func(s string) string {
		return trailingCommaPattern.ReplaceAllString(s, `${1}`)
	}},
	{"insert_missing_commas", func(s string) string {
		return missingCommaPattern.ReplaceAllString(s, `${1},${2}`)
	}},
	{"collapse_whitespace", func(s string) string {
		return whitespacePattern.ReplaceAllString(s, " ")
	}},
}

// Repair applies the full repair pass in order and returns the result.
// The heuristics can corrupt string values that themselves contain literal
// braces or quotes; callers only see repaired text when the original
// failed to parse, so nothing valid is ever lost.
func Repair(s string) string {
	for _, r := range repairs {
		s = r.apply(s)
	}
	return strings.TrimSpace(s)
}

// clampToBraces truncates to the substring between the first '{' and the
// last '}' when both exist, discarding surrounding prose.
func clampToBraces(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
