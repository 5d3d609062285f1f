package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrTxUnsupported = errors.New("transactions not supported by store")
)

// Filter is an equality condition on a single field.
type Filter struct {
	Field string
	Value any
}

// Query describes a collection read. The zero value reads every document
// in insertion order.
type Query struct {
	OrderBy string
	Desc    bool
	Where   []Filter
	Limit   int
}

// Fields is a partial update payload keyed by stored field name.
// A nil value writes null.
type Fields map[string]any

// DocumentStore is the collection-based document store behind every entity.
// Documents are encoded with their bson struct tags and keyed by a string _id.
type DocumentStore interface {
	// Find decodes matching documents into out, a pointer to a slice.
	Find(ctx context.Context, collection string, q Query, out any) error
	Get(ctx context.Context, collection, id string, out any) error
	// Insert stores doc under a freshly generated id and returns it.
	Insert(ctx context.Context, collection string, doc any) (string, error)
	// Set replaces (or creates) the document stored at id.
	Set(ctx context.Context, collection, id string, doc any) error
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int64, error)
	// SetExclusive sets field=true on id and field=false on every other
	// document where it is true, in one atomic step.
	SetExclusive(ctx context.Context, collection, field, id string) error
	Close(ctx context.Context) error
}
