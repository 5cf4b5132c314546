package uml

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackTemplates maps each diagram category to a minimal, always-valid
// body used when the requested content cannot be rendered. One entry per
// Kind; Classify guarantees lookups never miss.
var fallbackTemplates = map[Kind]func(title string) string{
	KindUseCase: func(title string) string {
		return fmt.Sprintf("actor User\nusecase \"%s\" as UC1\nUser --> UC1", title)
	},
	KindSequence: func(title string) string {
		return fmt.Sprintf("participant Client\nparticipant System\nClient -> System : %s\nSystem --> Client : response", title)
	},
	KindActivity: func(title string) string {
		return fmt.Sprintf("start\n:%s;\nstop", title)
	},
	KindComponent: func(title string) string {
		return fmt.Sprintf("[Client] --> [%s]", title)
	},
	KindClass: func(title string) string {
		return fmt.Sprintf("class \"%s\" {\n}", title)
	},
}

var titleSanitizer = regexp.MustCompile(`["\[\]\r\n]+`)

// fallbackBody builds the minimal diagram for a category, embedding the
// request title when one is present.
func fallbackBody(kind Kind, title string) string {
	title = titleSanitizer.ReplaceAllString(strings.TrimSpace(title), " ")
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Diagram"
	}
	return fallbackTemplates[kind](title)
}
