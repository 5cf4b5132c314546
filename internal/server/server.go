// Package server exposes the pipeline over a small JSON HTTP API. Route
// handlers are thin: they decode a request, call the pipeline, persist the
// result, and apply the degrade-to-default policy where the pipeline
// surfaces a recoverable failure.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"reqdoc/internal/document"
	"reqdoc/internal/llm"
	"reqdoc/internal/normalize"
	"reqdoc/internal/pipeline"
	"reqdoc/internal/storage"
)

type Server struct {
	gen   *pipeline.Generator
	store storage.Store
	mux   *http.ServeMux
}

func NewServer(gen *pipeline.Generator, store storage.Store) *Server {
	s := &Server{
		gen:   gen,
		store: store,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/documents", s.handleGenerate)
	s.mux.HandleFunc("GET /api/documents", s.handleList)
	s.mux.HandleFunc("GET /api/documents/{id}", s.handleGet)
	s.mux.HandleFunc("POST /api/documents/{id}/tasks", s.handleBreakdown)
	s.mux.HandleFunc("GET /api/documents/{id}/tasks", s.handleTasks)
	s.mux.HandleFunc("POST /api/tasks/assign", s.handleAssign)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	Requirements string `json:"requirements"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Requirements == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("requirements must not be empty"))
		return
	}

	doc, err := s.gen.GenerateDocument(r.Context(), req.Requirements)
	if err != nil {
		var fe *normalize.FormatError
		if errors.As(err, &fe) {
			// Unrecoverable model output degrades to the default document
			// rather than failing the request.
			log.Printf("normalization failed, serving default document: %v", err)
			doc = s.gen.FallbackDocument(req.Requirements)
		} else {
			var ce *llm.CompletionError
			if errors.As(err, &ce) {
				writeError(w, http.StatusBadGateway, err)
			} else {
				writeError(w, http.StatusInternalServerError, err)
			}
			return
		}
	}

	if _, err := s.store.SaveDocument(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if docs == nil {
		docs = []*document.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("document not found"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type breakdownRequest struct {
	Members []string `json:"members"`
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("document not found"))
		return
	}

	var req breakdownRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	tasks, err := s.gen.BreakdownTasks(r.Context(), doc)
	if err != nil {
		// Completion service failure: tasks still degrade to defaults so
		// the user always gets a breakdown.
		log.Printf("task breakdown failed, serving defaults: %v", err)
		tasks = document.DefaultTasks()
	}
	if len(req.Members) > 0 {
		tasks = s.gen.AssignTasks(r.Context(), tasks, req.Members)
	}

	if err := s.store.SaveTasks(r.Context(), id, tasks); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.TasksForDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tasks == nil {
		tasks = []document.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type assignRequest struct {
	Tasks   []document.Task `json:"tasks"`
	Members []string        `json:"members"`
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Tasks) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("tasks must not be empty"))
		return
	}
	if len(req.Members) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("members must not be empty"))
		return
	}

	writeJSON(w, http.StatusOK, s.gen.AssignTasks(r.Context(), req.Tasks, req.Members))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
