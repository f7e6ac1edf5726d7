package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Config selects the SQL backend. A LibSQL URL takes precedence; otherwise a
// local SQLite file is used (":memory:" in tests).
type Config struct {
	SQLitePath  string
	LibSQLURL   string
	LibSQLToken string
}

// SQLStore persists documents in a single schemaless table and fans writes out
// to snapshot subscribers.
type SQLStore struct {
	conn   *sql.DB
	subs   *subscriberHub
	logger *logging.ChanneledLogger
}

// NewSQLStore opens the backing database and prepares the document schema.
func NewSQLStore(cfg Config, logger *logging.ChanneledLogger) (*SQLStore, error) {
	var conn *sql.DB
	var err error

	if cfg.LibSQLURL != "" {
		connStr := cfg.LibSQLURL
		if cfg.LibSQLToken != "" {
			connStr += "?authToken=" + cfg.LibSQLToken
		}
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("libsql connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("libsql ping failed: %w", err)
		}
	} else {
		if cfg.SQLitePath != ":memory:" {
			dbDir := filepath.Dir(cfg.SQLitePath)
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	store := &SQLStore{
		conn:   conn,
		subs:   newSubscriberHub(),
		logger: logger,
	}
	if err := store.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) ensureSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_documents_collection_created
			ON documents (collection, created_at);`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create documents schema: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

// Create inserts a new document with a store-assigned ulid and creation time.
func (s *SQLStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := ulid.Make().String()
	createdAt := time.Now().UTC()

	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: encoding body: %v", ErrWriteFailed, err)
	}

	const query = `INSERT INTO documents (collection, id, body, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.conn.ExecContext(ctx, query, collection, id, string(body), createdAt.Format(time.RFC3339Nano)); err != nil {
		s.logger.Store().Error("Document insert failed", "collection", collection, "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.logger.Store().Debug("Document created", "collection", collection, "id", id)
	s.subs.notify(s, collection)
	return id, nil
}

// Get fetches one document by id.
func (s *SQLStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `SELECT body, created_at FROM documents WHERE collection = ? AND id = ?`

	var body, createdAt string
	err := s.conn.QueryRowContext(ctx, query, collection, id).Scan(&body, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return decodeDocument(collection, id, body, createdAt)
}

// Update merges fields into an existing document body.
func (s *SQLStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, err := s.Get(ctx, collection, id)
	if err == ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: reading current body: %v", ErrWriteFailed, err)
	}

	for k, v := range fields {
		doc.Fields[k] = v
	}
	body, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("%w: encoding body: %v", ErrWriteFailed, err)
	}

	const query = `UPDATE documents SET body = ? WHERE collection = ? AND id = ?`
	if _, err := s.conn.ExecContext(ctx, query, string(body), collection, id); err != nil {
		s.logger.Store().Error("Document update failed", "collection", collection, "id", id, "error", err.Error())
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.subs.notify(s, collection)
	return nil
}

// Delete removes a document if present.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = ? AND id = ?`
	if _, err := s.conn.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	s.subs.notify(s, collection)
	return nil
}

// Query runs a one-shot read. Equality and range predicates are evaluated on
// the decoded bodies; the collection scan itself is indexed.
func (s *SQLStore) Query(ctx context.Context, q Query) ([]Document, error) {
	const query = `SELECT id, body, created_at FROM documents WHERE collection = ? ORDER BY created_at ASC`

	rows, err := s.conn.QueryContext(ctx, query, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, body, createdAt string
		if err := rows.Scan(&id, &body, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		doc, err := decodeDocument(q.Collection, id, body, createdAt)
		if err != nil {
			// A corrupt body is skipped, not fatal to the snapshot.
			s.logger.Store().Warn("Skipping undecodable document", "collection", q.Collection, "id", id)
			continue
		}
		if matches(*doc, q) {
			docs = append(docs, *doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	sortDocuments(docs, q)
	return docs, nil
}

// Subscribe registers a snapshot listener and delivers the current result set
// before returning.
func (s *SQLStore) Subscribe(q Query, fn SnapshotFunc) (Disposer, error) {
	return s.subs.subscribe(s, q, fn)
}

func decodeDocument(collection, id, body, createdAt string) (*Document, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrFetchFailed, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding created_at: %v", ErrFetchFailed, err)
	}
	return &Document{
		Collection: collection,
		ID:         id,
		Fields:     fields,
		CreatedAt:  ts,
	}, nil
}
