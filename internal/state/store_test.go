package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	books := []catalog.Book{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}

	before := time.Now()
	s.Update(books, nil)

	snap := s.Snapshot()
	if !snap.Loaded {
		t.Fatalf("Loaded = false, want true after successful update")
	}
	if len(snap.Books) != 2 || snap.Books[0].ID != 1 || snap.Books[1].ID != 2 {
		t.Fatalf("snapshot books = %#v, want ids [1 2]", snap.Books)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Neither the caller's slice nor a returned snapshot aliases the store.
	books[0].Title = "mutated"
	snap.Books[1].Title = "mutated"
	snap2 := s.Snapshot()
	if snap2.Books[0].Title != "A" || snap2.Books[1].Title != "B" {
		t.Fatalf("Snapshot should clone books; got %#v", snap2.Books)
	}
}

func TestStore_UpdateReplacesWholesale(t *testing.T) {
	var s Store
	s.Update([]catalog.Book{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	s.Update([]catalog.Book{{ID: 3}}, nil)

	snap := s.Snapshot()
	if len(snap.Books) != 1 || snap.Books[0].ID != 3 {
		t.Fatalf("books = %#v, want only id 3", snap.Books)
	}

	s.Update(nil, nil)
	if snap := s.Snapshot(); len(snap.Books) != 0 || !snap.Loaded {
		t.Fatalf("books = %#v loaded=%v, want empty and loaded", snap.Books, snap.Loaded)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]catalog.Book{{ID: 1}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Books) != 1 || snap.Books[0].ID != 1 {
		t.Fatalf("books changed on error: got %#v", snap.Books)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial snapshot = %#v, want online with 0 failures", snap)
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v, want 1 false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v, want 2 true", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update([]catalog.Book{{ID: 1}}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v, want 0 false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_LoadingCounter(t *testing.T) {
	var s Store

	s.BeginLoad()
	s.BeginLoad()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false, want true with 2 in flight")
	}
	s.EndLoad()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false, want true with 1 in flight")
	}
	s.EndLoad()
	if s.Snapshot().Loading {
		t.Fatal("Loading = true, want false with none in flight")
	}
	s.EndLoad()
	s.BeginLoad()
	if !s.Snapshot().Loading {
		t.Fatal("unbalanced EndLoad should not drive the counter negative")
	}
}

func TestSnapshot_Find(t *testing.T) {
	snap := Snapshot{Books: []catalog.Book{{ID: 4, Title: "Four"}, {ID: 7, Title: "Seven"}}}
	if b, ok := snap.Find(7); !ok || b.Title != "Seven" {
		t.Fatalf("Find(7) = %#v, %v, want Seven", b, ok)
	}
	if _, ok := snap.Find(8); ok {
		t.Fatalf("Find(8) ok = true, want false")
	}
}
