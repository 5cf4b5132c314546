package storage

import (
	"context"

	"reqdoc/internal/document"
)

// Store persists generated documents and their task breakdowns.
type Store interface {
	// SaveDocument persists a document and returns its assigned ID.
	SaveDocument(ctx context.Context, doc *document.Document) (string, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*document.Document, error)

	// ListDocuments returns stored documents, newest first.
	ListDocuments(ctx context.Context) ([]*document.Document, error)

	// SaveTasks replaces the task set for a document.
	SaveTasks(ctx context.Context, documentID string, tasks []document.Task) error

	// TasksForDocument retrieves the task set for a document.
	TasksForDocument(ctx context.Context, documentID string) ([]document.Task, error)

	Close() error
}
