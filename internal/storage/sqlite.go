package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"reqdoc/internal/document"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			requirements TEXT,
			srs TEXT,
			frd TEXT,
			brd TEXT,
			diagrams JSON,
			fallback INTEGER,
			created_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			document_id TEXT,
			payload JSON,
			PRIMARY KEY (document_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *document.Document) (string, error) {
	id := doc.ID
	if id == "" {
		id = newID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	diagrams, err := json.Marshal(doc.UMLDiagrams)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, requirements, srs, frd, brd, diagrams, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			requirements=excluded.requirements,
			srs=excluded.srs,
			frd=excluded.frd,
			brd=excluded.brd,
			diagrams=excluded.diagrams,
			fallback=excluded.fallback,
			created_at=excluded.created_at
	`, id, doc.Requirements, doc.SRS, doc.FRD, doc.BRD, string(diagrams), boolToInt(doc.Fallback), doc.CreatedAt.UnixNano())
	if err != nil {
		return "", err
	}

	doc.ID = id
	return id, nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, requirements, srs, frd, brd, diagrams, fallback, created_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, requirements, srs, frd, brd, diagrams, fallback, created_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) SaveTasks(ctx context.Context, documentID string, tasks []document.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (document_id, payload)
		VALUES (?, ?)
		ON CONFLICT(document_id) DO UPDATE SET payload=excluded.payload
	`, documentID, string(payload))
	return err
}

func (s *SQLiteStore) TasksForDocument(ctx context.Context, documentID string) ([]document.Task, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM tasks WHERE document_id = ?
	`, documentID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tasks []document.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var doc document.Document
	var diagrams string
	var fallback int
	var createdAt int64
	if err := row.Scan(&doc.ID, &doc.Requirements, &doc.SRS, &doc.FRD, &doc.BRD, &diagrams, &fallback, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(diagrams), &doc.UMLDiagrams); err != nil {
		return nil, err
	}
	doc.Fallback = fallback != 0
	doc.CreatedAt = time.Unix(0, createdAt).UTC()
	return &doc, nil
}

func newID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
