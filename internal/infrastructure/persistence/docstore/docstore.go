// Package docstore provides the schemaless document store the Camali client
// used to get from its cloud backend: collections of JSON documents with
// equality/range queries and push-based snapshot subscriptions.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a missing document.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrFetchFailed reports a failed query or snapshot requery. Consumers keep
	// their last-known-good derived views when they see it.
	ErrFetchFailed = errors.New("docstore: fetch failed")

	// ErrWriteFailed reports a failed create, update or delete. Nothing is
	// committed locally when it is returned.
	ErrWriteFailed = errors.New("docstore: write failed")
)

// Document is one stored record. Fields is the schemaless body; readers are
// responsible for defensive extraction.
type Document struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Filter is an equality predicate on one field.
type Filter struct {
	Field string
	Value any
}

// Order controls snapshot ordering on the query's time field.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

// Query scopes a read or subscription. The predicate surface matches what the
// client needed: equality filters plus one inclusive time range.
type Query struct {
	Collection string
	Equals     []Filter
	TimeField  string     // field holding the instant used for range and order
	After      *time.Time // inclusive lower bound on TimeField
	Before     *time.Time // inclusive upper bound on TimeField
	Order      Order
}

// SnapshotFunc receives the complete current result set of a subscribed query
// every time the underlying collection changes. A non-nil err means the
// requery failed; docs is nil in that case and previously delivered data
// remains valid.
type SnapshotFunc func(docs []Document, err error)

// Disposer tears down one subscription. Dispose is idempotent and no delivery
// happens after it returns.
type Disposer interface {
	Dispose()
}

// Store is the document store contract.
type Store interface {
	// Create inserts a new document and returns its store-assigned id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Get fetches one document, ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Update merges the given fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Query runs a one-shot read.
	Query(ctx context.Context, q Query) ([]Document, error)

	// Subscribe registers a snapshot listener. The current result set is
	// delivered once before Subscribe returns, then again after every write
	// touching the collection.
	Subscribe(q Query, fn SnapshotFunc) (Disposer, error)
}
