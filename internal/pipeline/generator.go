// Package pipeline orchestrates the requirements-to-documentation flow:
// prompt the completion service, recover structured JSON from its output,
// validate it, and resolve diagram references. Degrade-to-default is the
// dominant policy: wherever a fixed substitute exists, it is preferred
// over surfacing an error.
package pipeline

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"reqdoc/internal/document"
	"reqdoc/internal/llm"
	"reqdoc/internal/normalize"
	"reqdoc/internal/uml"
)

type Generator struct {
	completer llm.Completer
	resolver  *uml.Resolver
	prompts   llm.PromptBuilder
}

func NewGenerator(completer llm.Completer, resolver *uml.Resolver) *Generator {
	return &Generator{
		completer: completer,
		resolver:  resolver,
	}
}

// GenerateDocument produces the requirements document set. A completion
// failure or unrecoverable response format propagates as an error; the
// route layer substitutes the default document in that case. A response
// that parses but fails the document schema degrades to the default here,
// so the returned document is always schema-complete.
func (g *Generator) GenerateDocument(ctx context.Context, requirements string) (*document.Document, error) {
	raw, err := g.completer.Complete(ctx, g.prompts.BuildDocumentMessages(requirements))
	if err != nil {
		return nil, err
	}

	res, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}

	doc, err := document.ParseDocument(res.Data)
	if err != nil {
		log.Printf("document payload rejected, substituting default: %v", err)
		doc = document.DefaultDocument(requirements)
	} else {
		doc.Requirements = requirements
	}
	doc.CreatedAt = time.Now().UTC()

	g.resolveDiagrams(doc)
	return doc, nil
}

// FallbackDocument builds the default document with its diagrams already
// resolved. Callers degrading an unrecoverable generation use this instead
// of the bare default so the substituted diagrams stay renderable.
func (g *Generator) FallbackDocument(requirements string) *document.Document {
	doc := document.DefaultDocument(requirements)
	doc.CreatedAt = time.Now().UTC()
	g.resolveDiagrams(doc)
	return doc
}

// BreakdownTasks decomposes a document into implementation tasks. Only a
// completion failure is an error; unrecoverable or invalid task payloads
// degrade to the fixed default task set.
func (g *Generator) BreakdownTasks(ctx context.Context, doc *document.Document) ([]document.Task, error) {
	raw, err := g.completer.Complete(ctx, g.prompts.BuildTaskBreakdownMessages(doc.SRS, doc.FRD))
	if err != nil {
		return nil, err
	}

	res, err := normalize.Normalize(raw)
	if err != nil {
		log.Printf("task payload unrecoverable, substituting defaults: %v", err)
		return document.DefaultTasks(), nil
	}

	tasks, err := document.ParseTasks(res.Data)
	if err != nil {
		log.Printf("task payload rejected, substituting defaults: %v", err)
		return document.DefaultTasks(), nil
	}
	return tasks, nil
}

// AssignTasks distributes tasks across team members. The heuristics are
// the model's; any failure falls back to deterministic round-robin so this
// call never errors.
func (g *Generator) AssignTasks(ctx context.Context, tasks []document.Task, members []string) []document.Task {
	if len(members) == 0 || len(tasks) == 0 {
		return tasks
	}

	assignments, err := g.modelAssignments(ctx, tasks, members)
	if err != nil {
		log.Printf("model assignment failed, using round-robin: %v", err)
		return roundRobin(tasks, members)
	}

	byID := make(map[string]string, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a.AssignedTo
	}
	out := make([]document.Task, len(tasks))
	copy(out, tasks)
	assigned := 0
	for i := range out {
		if who, ok := byID[out[i].ID]; ok && who != "" {
			out[i].AssignedTo = who
			assigned++
		}
	}
	if assigned == 0 {
		return roundRobin(tasks, members)
	}
	return out
}

func (g *Generator) modelAssignments(ctx context.Context, tasks []document.Task, members []string) ([]document.Assignment, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}
	raw, err := g.completer.Complete(ctx, g.prompts.BuildTaskAssignmentMessages(string(tasksJSON), members))
	if err != nil {
		return nil, err
	}
	res, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return document.ParseAssignments(res.Data)
}

func roundRobin(tasks []document.Task, members []string) []document.Task {
	out := make([]document.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].AssignedTo = members[i%len(members)]
	}
	return out
}

// resolveDiagrams fills in a rendering URL for every diagram. Each diagram
// resolves independently; one falling back never affects its siblings.
func (g *Generator) resolveDiagrams(doc *document.Document) {
	for i := range doc.UMLDiagrams {
		d := &doc.UMLDiagrams[i]
		ref := g.resolver.Resolve(uml.Request{
			Content:      d.Content,
			Title:        d.Title,
			DeclaredType: d.Type,
		})
		d.URL = ref.URL
		d.IsFallback = ref.IsFallback
	}
}
