// Package memory provides an in-process document store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"user-registration/pkg/store"
)

// Store keeps encoded documents in a map guarded by a mutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	now         func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string][]byte),
		now:         time.Now,
	}
}

// CreateDocument stores doc under a new uuid.
func (s *Store) CreateDocument(ctx context.Context, collection string, doc store.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}
	body, err := store.Encode(doc, s.now())
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	docs[id] = body
	return id, nil
}

// GetDocument returns a copy of the stored document.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	body, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	return store.Decode(body)
}

// UpdateDocument merges fields into the stored document.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	doc, err := store.Decode(body)
	if err != nil {
		return err
	}
	for k, v := range store.Resolve(fields, s.now()) {
		doc[k] = v
	}
	merged, err := store.Encode(doc, s.now())
	if err != nil {
		return err
	}
	s.collections[collection][id] = merged
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
