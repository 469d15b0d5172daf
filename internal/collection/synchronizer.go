// Package collection mirrors the remote book catalog into a state.Store.
package collection

import (
	"context"
	"log"
	"sync"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// Synchronizer keeps a state.Store consistent with the remote catalog. Every
// successful write is followed by a full reload before the call returns.
type Synchronizer struct {
	api   catalog.Catalog
	store *state.Store

	// mu serializes operations so a background refresh cannot interleave with a
	// write and its follow-up reload.
	mu sync.Mutex
}

// New returns a Synchronizer writing into store.
func New(api catalog.Catalog, store *state.Store) *Synchronizer {
	if store == nil {
		store = &state.Store{}
	}
	return &Synchronizer{api: api, store: store}
}

// Snapshot returns the current collection view.
func (s *Synchronizer) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

// Reload fetches the full collection and replaces the local copy. On failure
// the previous collection is kept and the error is recorded in the store.
func (s *Synchronizer) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.BeginLoad()
	defer s.store.EndLoad()
	return s.reload(ctx)
}

// Create submits a new book, then reloads.
func (s *Synchronizer) Create(ctx context.Context, book catalog.Book) error {
	return s.mutate(ctx, "create", func() error {
		return s.api.CreateBook(ctx, book)
	})
}

// Update replaces the book with the given id, then reloads.
func (s *Synchronizer) Update(ctx context.Context, id int64, book catalog.Book) error {
	return s.mutate(ctx, "update", func() error {
		return s.api.UpdateBook(ctx, id, book)
	})
}

// Delete removes the book with the given id, then reloads.
func (s *Synchronizer) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", func() error {
		return s.api.DeleteBook(ctx, id)
	})
}

// mutate runs call and, only if it succeeded, one reload. A failed follow-up
// reload is recorded in the store but does not fail the mutation.
func (s *Synchronizer) mutate(ctx context.Context, op string, call func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.BeginLoad()
	defer s.store.EndLoad()

	if err := call(); err != nil {
		log.Printf("%s book failed: %v", op, err)
		return err
	}
	_ = s.reload(ctx)
	return nil
}

func (s *Synchronizer) reload(ctx context.Context) error {
	books, err := s.api.ListBooks(ctx)
	if err != nil {
		s.store.Update(nil, err)
		log.Printf("reload failed: %v", err)
		return err
	}
	s.store.Update(books, nil)
	return nil
}
