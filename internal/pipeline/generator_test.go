package pipeline

import (
	"context"
	"fmt"
	"testing"

	"reqdoc/internal/document"
	"reqdoc/internal/llm"
	"reqdoc/internal/normalize"
	"reqdoc/internal/uml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(c llm.Completer) *Generator {
	return NewGenerator(c, uml.NewResolver("https://render.example.com/plantuml", "https://backup.example.com/plantuml", "png"))
}

const validDocResponse = "```json\n" + `{
	"srs": "# SRS\ncontent",
	"frd": "# FRD\ncontent",
	"brd": "# BRD\ncontent",
	"umlDiagrams": [
		{"title": "Main Flow", "type": "sequence", "content": "participant A\nA -> B : go"},
		{"title": "Empty One", "type": "class", "content": ""}
	]
}` + "\n```"

func TestGenerateDocument_ResolvesAllDiagrams(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{response: validDocResponse})

	doc, err := gen.GenerateDocument(context.Background(), "build an ordering system")
	require.NoError(t, err)
	assert.Equal(t, "build an ordering system", doc.Requirements)
	assert.False(t, doc.Fallback)
	require.Len(t, doc.UMLDiagrams, 2)

	// First diagram has content and resolves against the primary server.
	assert.False(t, doc.UMLDiagrams[0].IsFallback)
	assert.Contains(t, doc.UMLDiagrams[0].URL, "render.example.com")

	// Empty sibling falls back independently.
	assert.True(t, doc.UMLDiagrams[1].IsFallback)
	assert.Contains(t, doc.UMLDiagrams[1].URL, "backup.example.com")
}

func TestGenerateDocument_InvalidPayloadDegradesToDefault(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{response: `{"srs": "only srs"}`})

	doc, err := gen.GenerateDocument(context.Background(), "reqs")
	require.NoError(t, err)
	assert.True(t, doc.Fallback)
	require.NotEmpty(t, doc.UMLDiagrams)
	assert.NotEmpty(t, doc.UMLDiagrams[0].URL)
}

func TestFallbackDocument_ResolvesDiagrams(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{})

	doc := gen.FallbackDocument("reqs")
	assert.True(t, doc.Fallback)
	assert.Equal(t, "reqs", doc.Requirements)
	assert.False(t, doc.CreatedAt.IsZero())
	require.NotEmpty(t, doc.UMLDiagrams)
	for _, d := range doc.UMLDiagrams {
		assert.NotEmpty(t, d.URL, "diagram %q must carry a rendering URL", d.Title)
	}
}

func TestGenerateDocument_UnrecoverableFormatPropagates(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{response: "sorry, I cannot help with that"})

	_, err := gen.GenerateDocument(context.Background(), "reqs")
	require.Error(t, err)
	var fe *normalize.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestGenerateDocument_CompletionErrorPropagates(t *testing.T) {
	wantErr := &llm.CompletionError{Provider: "test", Err: fmt.Errorf("boom")}
	gen := newTestGenerator(&fakeCompleter{err: wantErr})

	_, err := gen.GenerateDocument(context.Background(), "reqs")
	var ce *llm.CompletionError
	require.ErrorAs(t, err, &ce)
}

func TestBreakdownTasks_ParsesWrappedTasks(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{response: `{"tasks": [{"id": "T1", "title": "Build API", "priority": "high", "estimateHours": 6}]}`})

	tasks, err := gen.BreakdownTasks(context.Background(), &document.Document{SRS: "srs", FRD: "frd"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Build API", tasks[0].Title)
}

func TestBreakdownTasks_DegradesToDefaults(t *testing.T) {
	for _, response := range []string{
		"not json at all",
		`{"tasks": []}`,
		`{"unexpected": true}`,
	} {
		gen := newTestGenerator(&fakeCompleter{response: response})
		tasks, err := gen.BreakdownTasks(context.Background(), &document.Document{SRS: "srs", FRD: "frd"})
		require.NoError(t, err, "response: %s", response)
		assert.Equal(t, document.DefaultTasks(), tasks, "response: %s", response)
	}
}

func TestAssignTasks_MergesModelAssignments(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{response: `{"assignments": [{"id": "T1", "assignedTo": "ada"}, {"id": "T2", "assignedTo": "grace"}]}`})

	tasks := []document.Task{{ID: "T1", Title: "a"}, {ID: "T2", Title: "b"}}
	got := gen.AssignTasks(context.Background(), tasks, []string{"ada", "grace"})
	require.Len(t, got, 2)
	assert.Equal(t, "ada", got[0].AssignedTo)
	assert.Equal(t, "grace", got[1].AssignedTo)
}

func TestAssignTasks_RoundRobinOnFailure(t *testing.T) {
	gen := newTestGenerator(&fakeCompleter{err: fmt.Errorf("service down")})

	tasks := []document.Task{{ID: "T1", Title: "a"}, {ID: "T2", Title: "b"}, {ID: "T3", Title: "c"}}
	got := gen.AssignTasks(context.Background(), tasks, []string{"ada", "grace"})
	require.Len(t, got, 3)
	assert.Equal(t, "ada", got[0].AssignedTo)
	assert.Equal(t, "grace", got[1].AssignedTo)
	assert.Equal(t, "ada", got[2].AssignedTo)
}

func TestAssignTasks_NoMembersIsNoop(t *testing.T) {
	fake := &fakeCompleter{}
	gen := newTestGenerator(fake)

	tasks := []document.Task{{ID: "T1", Title: "a"}}
	got := gen.AssignTasks(context.Background(), tasks, nil)
	assert.Equal(t, tasks, got)
	assert.Zero(t, fake.calls)
}
