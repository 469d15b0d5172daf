package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Snapshot represents the latest collection available to the UI.
type Snapshot struct {
	Books               []catalog.Book
	Loaded              bool // at least one reload succeeded
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive reload failures
}

// IsOffline returns true when the API has been unreachable for multiple reloads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the book with the given id.
func (s Snapshot) Find(id int64) (catalog.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return catalog.Book{}, false
}

// Store coordinates concurrent access to the collection snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	inflight int
}

// Update replaces the stored collection. When err is non-nil the previous
// collection is kept but the error is recorded for visibility.
func (s *Store) Update(books []catalog.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Books = cloneBooks(books)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// BeginLoad marks one more operation in flight.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
}

// EndLoad marks one operation finished. Unbalanced calls are ignored.
func (s *Store) EndLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	snap.Loading = s.inflight > 0
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBooks(books []catalog.Book) []catalog.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]catalog.Book, len(books))
	copy(dup, books)
	return dup
}
