package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"reqdoc/internal/document"
	"reqdoc/internal/llm"
	"reqdoc/internal/pipeline"
	"reqdoc/internal/storage"
	"reqdoc/internal/uml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	responses []string
	err       error
}

func (f *scriptedCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	next := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return next, nil
}

func newTestServer(t *testing.T, completer llm.Completer) (*httptest.Server, storage.Store) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	resolver := uml.NewResolver("https://render.example.com/plantuml", "https://backup.example.com/plantuml", "png")
	srv := httptest.NewServer(NewServer(pipeline.NewGenerator(completer, resolver), store).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const docResponse = `{
	"srs": "# SRS",
	"frd": "# FRD",
	"brd": "# BRD",
	"umlDiagrams": [{"title": "Flow", "type": "sequence", "content": "A -> B"}]
}`

func TestHandleGenerate_PersistsDocument(t *testing.T) {
	srv, store := newTestServer(t, &scriptedCompleter{responses: []string{docResponse}})

	resp := postJSON(t, srv.URL+"/api/documents", map[string]string{"requirements": "an ordering system"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decodeBody[document.Document](t, resp)
	assert.Equal(t, "# SRS", doc.SRS)
	require.NotEmpty(t, doc.ID)
	require.Len(t, doc.UMLDiagrams, 1)
	assert.NotEmpty(t, doc.UMLDiagrams[0].URL)

	stored, err := store.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.SRS, stored.SRS)
}

func TestHandleGenerate_UnrecoverableOutputServesDefault(t *testing.T) {
	srv, store := newTestServer(t, &scriptedCompleter{responses: []string{"I'm sorry, I can't produce that"}})

	resp := postJSON(t, srv.URL+"/api/documents", map[string]string{"requirements": "reqs"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decodeBody[document.Document](t, resp)
	assert.True(t, doc.Fallback)
	assert.NotEmpty(t, doc.SRS)

	// The substituted document's diagrams are resolved like any other,
	// both in the response and in the persisted copy.
	require.NotEmpty(t, doc.UMLDiagrams)
	for _, d := range doc.UMLDiagrams {
		assert.NotEmpty(t, d.URL, "diagram %q must carry a rendering URL", d.Title)
	}

	stored, err := store.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.UMLDiagrams)
	assert.NotEmpty(t, stored.UMLDiagrams[0].URL)
}

func TestHandleGenerate_EmptyRequirementsRejected(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})

	resp := postJSON(t, srv.URL+"/api/documents", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHandleBreakdown_AssignsWhenMembersGiven(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		docResponse,
		`{"tasks": [{"id": "T1", "title": "Build API"}, {"id": "T2", "title": "Write tests"}]}`,
		`{"assignments": [{"id": "T1", "assignedTo": "ada"}, {"id": "T2", "assignedTo": "grace"}]}`,
	}}
	srv, store := newTestServer(t, completer)

	resp := postJSON(t, srv.URL+"/api/documents", map[string]string{"requirements": "reqs"})
	doc := decodeBody[document.Document](t, resp)

	resp = postJSON(t, srv.URL+"/api/documents/"+doc.ID+"/tasks", map[string]any{"members": []string{"ada", "grace"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := decodeBody[[]document.Task](t, resp)
	require.Len(t, tasks, 2)
	assert.Equal(t, "ada", tasks[0].AssignedTo)

	stored, err := store.TasksForDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks, stored)
}

func TestHandleBreakdown_UnknownDocument(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})

	resp := postJSON(t, srv.URL+"/api/documents/nope/tasks", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHandleAssign_Stateless(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{responses: []string{
		`{"assignments": [{"id": "T1", "assignedTo": "ada"}]}`,
	}})

	resp := postJSON(t, srv.URL+"/api/tasks/assign", map[string]any{
		"tasks":   []document.Task{{ID: "T1", Title: "Build API"}},
		"members": []string{"ada"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := decodeBody[[]document.Task](t, resp)
	require.Len(t, tasks, 1)
	assert.Equal(t, "ada", tasks[0].AssignedTo)
}

func TestHandleAssign_EmptyInputsRejected(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})

	resp := postJSON(t, srv.URL+"/api/tasks/assign", map[string]any{
		"tasks":   []document.Task{},
		"members": []string{"ada"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/tasks/assign", map[string]any{
		"tasks":   []document.Task{{ID: "T1", Title: "Build API"}},
		"members": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHandleGetAndList(t *testing.T) {
	srv, store := newTestServer(t, &scriptedCompleter{})

	doc := &document.Document{SRS: "s", FRD: "f", BRD: "b", Requirements: "r"}
	id, err := store.SaveDocument(context.Background(), doc)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/documents/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[document.Document](t, resp)
	assert.Equal(t, "s", got.SRS)

	resp, err = http.Get(srv.URL + "/api/documents")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]document.Document](t, resp)
	assert.Len(t, list, 1)

	resp, err = http.Get(srv.URL + "/api/documents/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
