package normalize

import "regexp"

// objectPattern matches JSON-object-shaped substrings, supporting one
// level of nested braces. Deeper nesting is left to the repair stage;
// extraction is the last resort for completions that bury a small object
// in otherwise unrecoverable text.
var objectPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// extractCandidates enumerates candidate JSON-object substrings in order
// of appearance. The caller attempts to parse each and keeps the first
// that succeeds.
func extractCandidates(s string) []string {
	return objectPattern.FindAllString(s, -1)
}
