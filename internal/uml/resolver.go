// Package uml turns diagram source text into renderable PlantUML server
// URLs. Resolution never fails outward: any validation or encoding problem
// is absorbed by substituting a minimal template for the detected diagram
// category, so the caller always receives something renderable.
package uml

import (
	"fmt"
	"strings"
)

const (
	startMarker = "@startuml"
	endMarker   = "@enduml"
)

// Resolver builds rendering URLs against a primary server, falling back to
// a secondary server with synthetic content when the primary path fails.
type Resolver struct {
	primary  string
	fallback string
	format   string

	// encode is swappable so failure paths stay testable.
	encode func(string) (string, error)
}

func NewResolver(primary, fallback, format string) *Resolver {
	if format == "" {
		format = "png"
	}
	return &Resolver{
		primary:  strings.TrimRight(primary, "/"),
		fallback: strings.TrimRight(fallback, "/"),
		format:   format,
		encode:   Encode,
	}
}

// Resolve produces a Reference for the request. It never returns an error:
// empty content, invalid encodings, and anything else that goes wrong on
// the primary path all route to the fallback branch.
func (r *Resolver) Resolve(req Request) Reference {
	content := strings.TrimSpace(req.Content)
	if content != "" {
		payload, err := r.encode(Delimit(content))
		if err == nil {
			return Reference{URL: r.renderURL(r.primary, payload)}
		}
	}

	kind, ok := ParseKind(req.DeclaredType)
	if !ok {
		kind = Classify(content)
	}

	body := fallbackBody(kind, req.Title)
	payload, err := Encode(Delimit(body))
	if err != nil {
		// Templates are tiny static strings; DEFLATE over them cannot
		// fail, but the contract forbids erroring out regardless.
		payload = ""
	}
	return Reference{URL: r.renderURL(r.fallback, payload), IsFallback: true}
}

// Delimit wraps content in @startuml/@enduml markers, at most once.
func Delimit(content string) string {
	content = strings.TrimSpace(content)
	if !strings.Contains(content, startMarker) {
		content = startMarker + "\n" + content
	}
	if !strings.Contains(content, endMarker) {
		content = content + "\n" + endMarker
	}
	return content
}

func (r *Resolver) renderURL(server, payload string) string {
	return fmt.Sprintf("%s/%s/%s", server, r.format, payload)
}
