// Package document holds the structured outputs of the pipeline: the
// requirements document set, its diagrams, and the task breakdown, plus
// the schema validation and degrade-to-default substitutes applied at the
// call sites that consume normalized model output.
package document

import "time"

// Document is the generated requirements document set.
type Document struct {
	ID           string    `json:"id,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	SRS          string    `json:"srs"`
	FRD          string    `json:"frd"`
	BRD          string    `json:"brd"`
	UMLDiagrams  []Diagram `json:"umlDiagrams"`
	Fallback     bool      `json:"fallback,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Diagram is one requested UML diagram. URL and IsFallback are filled in
// by diagram resolution; the other fields come from the model.
type Diagram struct {
	Title      string `json:"title,omitempty"`
	Type       string `json:"type,omitempty"`
	Content    string `json:"content"`
	URL        string `json:"url,omitempty"`
	IsFallback bool   `json:"isFallback,omitempty"`
}

// Task is one implementation task from the breakdown.
type Task struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	EstimateHours float64 `json:"estimateHours,omitempty"`
	AssignedTo    string  `json:"assignedTo,omitempty"`
}

// Assignment pairs a task ID with a team member.
type Assignment struct {
	ID         string `json:"id"`
	AssignedTo string `json:"assignedTo"`
}
