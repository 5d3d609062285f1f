package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// WriteOp describes a write about to be applied by a LocalStore.
type WriteOp struct {
	Kind       string // insert, set, update, delete
	Collection string
	ID         string
	Fields     Fields
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithSnapshot persists every write to the given JSON snapshot.
func WithSnapshot(file *JSONStore) LocalOption {
	return func(s *LocalStore) { s.file = file }
}

// WithoutTransactions makes SetExclusive report ErrTxUnsupported, the way a
// standalone Mongo server does.
func WithoutTransactions() LocalOption {
	return func(s *LocalStore) { s.noTx = true }
}

// WithWriteHook runs hook before each write. A non-nil error aborts that write.
func WithWriteHook(hook func(WriteOp) error) LocalOption {
	return func(s *LocalStore) { s.hook = hook }
}

type localCollection struct {
	order []string
	docs  map[string]map[string]any
}

// LocalStore is an in-process DocumentStore, optionally backed by a snapshot
// file. It is used for development and tests.
type LocalStore struct {
	mu          sync.RWMutex
	collections map[string]*localCollection
	file        *JSONStore
	noTx        bool
	hook        func(WriteOp) error
}

type collectionSnapshot struct {
	Order []string                   `json:"order"`
	Docs  map[string]json.RawMessage `json:"docs"`
}

// NewLocalStore builds a local store and loads its snapshot if one exists.
func NewLocalStore(opts ...LocalOption) (*LocalStore, error) {
	s := &LocalStore{collections: make(map[string]*localCollection)}
	for _, opt := range opts {
		opt(s)
	}
	if s.file == nil {
		return s, nil
	}

	var snap map[string]collectionSnapshot
	found, err := s.file.Load(&snap)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Printf("[LocalStore] no snapshot at %s, starting empty", s.file.Path())
		return s, nil
	}
	for name, cs := range snap {
		c := &localCollection{docs: make(map[string]map[string]any, len(cs.Docs))}
		for _, id := range cs.Order {
			raw, ok := cs.Docs[id]
			if !ok {
				continue
			}
			var m bson.M
			if err := bson.UnmarshalExtJSON(raw, true, &m); err != nil {
				return nil, fmt.Errorf("snapshot %s/%s: %w", name, id, err)
			}
			c.order = append(c.order, id)
			c.docs[id] = normalize(m).(map[string]any)
		}
		s.collections[name] = c
	}
	return s, nil
}

func (s *LocalStore) check(op WriteOp) error {
	if s.hook == nil {
		return nil
	}
	return s.hook(op)
}

// commit applies change to the named collection and persists the result.
// When the snapshot cannot be saved the collection is restored, so a failed
// write never stays visible. Must be called with the write lock held.
func (s *LocalStore) commit(name string, change func(c *localCollection)) error {
	prev, existed := s.collections[name]
	next := &localCollection{docs: make(map[string]map[string]any)}
	if existed {
		next.order = append([]string(nil), prev.order...)
		for id, doc := range prev.docs {
			next.docs[id] = doc
		}
	}
	change(next)
	s.collections[name] = next

	if err := s.persist(); err != nil {
		if existed {
			s.collections[name] = prev
		} else {
			delete(s.collections, name)
		}
		return err
	}
	return nil
}

// persist must be called with the write lock held.
func (s *LocalStore) persist() error {
	if s.file == nil {
		return nil
	}
	snap := make(map[string]collectionSnapshot, len(s.collections))
	for name, c := range s.collections {
		cs := collectionSnapshot{Order: c.order, Docs: make(map[string]json.RawMessage, len(c.docs))}
		for id, doc := range c.docs {
			raw, err := bson.MarshalExtJSON(doc, true, false)
			if err != nil {
				return fmt.Errorf("snapshot %s/%s: %w", name, id, err)
			}
			cs.Docs[id] = raw
		}
		snap[name] = cs
	}
	return s.file.Save(snap)
}

func (s *LocalStore) Find(ctx context.Context, collection string, q Query, out any) error {
	s.mu.RLock()
	c := s.collections[collection]
	var docs []map[string]any
	if c != nil {
		for _, id := range c.order {
			doc := c.docs[id]
			if matches(doc, q.Where) {
				docs = append(docs, doc)
			}
		}
	}
	s.mu.RUnlock()

	sortDocuments(docs, q.OrderBy, q.Desc)
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return decodeAll(docs, out)
}

func (s *LocalStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.collections[collection]
	if c == nil {
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	return decodeOne(doc, out)
}

func (s *LocalStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	m["_id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(WriteOp{Kind: "insert", Collection: collection, ID: id}); err != nil {
		return "", err
	}
	err = s.commit(collection, func(c *localCollection) {
		c.order = append(c.order, id)
		c.docs[id] = m
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *LocalStore) Set(ctx context.Context, collection, id string, doc any) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(WriteOp{Kind: "set", Collection: collection, ID: id}); err != nil {
		return err
	}
	return s.commit(collection, func(c *localCollection) {
		if _, exists := c.docs[id]; !exists {
			c.order = append(c.order, id)
		}
		c.docs[id] = m
	})
}

func (s *LocalStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	values, err := normalizeFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if c == nil {
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	if err := s.check(WriteOp{Kind: "update", Collection: collection, ID: id, Fields: fields}); err != nil {
		return err
	}
	updated := make(map[string]any, len(doc)+len(values))
	for k, v := range doc {
		updated[k] = v
	}
	for k, v := range values {
		updated[k] = v
	}
	updated["_id"] = id
	return s.commit(collection, func(c *localCollection) {
		c.docs[id] = updated
	})
}

func (s *LocalStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if c == nil {
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	if err := s.check(WriteOp{Kind: "delete", Collection: collection, ID: id}); err != nil {
		return err
	}
	return s.commit(collection, func(c *localCollection) {
		delete(c.docs, id)
		for i, existing := range c.order {
			if existing == id {
				c.order = append(c.order[:i:i], c.order[i+1:]...)
				break
			}
		}
	})
}

func (s *LocalStore) Count(ctx context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.collections[collection]
	if c == nil {
		return 0, nil
	}
	return int64(len(c.docs)), nil
}

// SetExclusive stages every flag change and applies them together only when
// the write hook accepts all of them and the snapshot is saved.
func (s *LocalStore) SetExclusive(ctx context.Context, collection, field, id string) error {
	if s.noTx {
		return ErrTxUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if c == nil {
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}

	staged := make(map[string]map[string]any)
	for _, other := range c.order {
		if other == id || !valuesEqual(c.docs[other][field], true) {
			continue
		}
		if err := s.check(WriteOp{Kind: "update", Collection: collection, ID: other, Fields: Fields{field: false}}); err != nil {
			return err
		}
		staged[other] = withField(c.docs[other], field, false)
	}
	if err := s.check(WriteOp{Kind: "update", Collection: collection, ID: id, Fields: Fields{field: true}}); err != nil {
		return err
	}
	staged[id] = withField(c.docs[id], field, true)

	return s.commit(collection, func(c *localCollection) {
		for docID, doc := range staged {
			c.docs[docID] = doc
		}
	})
}

func (s *LocalStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

func withField(doc map[string]any, field string, value any) map[string]any {
	out := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out[field] = value
	return out
}
