package uml

import "strings"

// Classify guesses the diagram category from keywords in the source text.
// Class is the default when nothing matches.
func Classify(content string) Kind {
	text := strings.ToLower(content)
	switch {
	case strings.Contains(text, "actor") || strings.Contains(text, "usecase"):
		return KindUseCase
	case strings.Contains(text, "participant") || strings.Contains(text, "->"):
		return KindSequence
	case strings.Contains(text, "start") && strings.Contains(text, "stop"):
		return KindActivity
	case strings.Contains(text, "component"):
		return KindComponent
	default:
		return KindClass
	}
}
