package uml

import "strings"

// Kind is a diagram category. The set is closed; ParseKind and Classify
// always land on one of these values.
type Kind string

const (
	KindUseCase   Kind = "usecase"
	KindSequence  Kind = "sequence"
	KindActivity  Kind = "activity"
	KindComponent Kind = "component"
	KindClass     Kind = "class"
)

// ParseKind maps a declared diagram type to a Kind. Unknown or empty
// declarations return false; callers then fall back to Classify.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindUseCase:
		return KindUseCase, true
	case KindSequence:
		return KindSequence, true
	case KindActivity:
		return KindActivity, true
	case KindComponent:
		return KindComponent, true
	case KindClass:
		return KindClass, true
	default:
		return "", false
	}
}

// Request describes one diagram to resolve. Title and DeclaredType are
// optional.
type Request struct {
	Content      string
	Title        string
	DeclaredType string
}

// Reference is a renderable diagram location. URL is always a well-formed
// absolute URL; IsFallback marks a synthetic substitute diagram.
type Reference struct {
	URL        string `json:"url"`
	IsFallback bool   `json:"isFallback"`
}
