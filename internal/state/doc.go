// Package state holds the local copy of the book collection.
//
// # Overview
//
// Store is the coordination point between the collection synchronizer (the
// only writer) and the UI (a reader that takes snapshots on its own
// schedule). It mirrors the server's list and is rebuilt wholesale on every
// successful reload; there is no incremental patching.
//
// # Update Semantics
//
//	// Success: replace the collection
//	store.Update(books, nil)
//	→ snapshot.Books = copy(books)
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the last-known-good collection, record the error
//	store.Update(nil, err)
//	→ snapshot.Books = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// The error stays visible until the next successful reload.
//
// # Loading Flag
//
// BeginLoad and EndLoad maintain an in-flight counter and Snapshot.Loading
// reports whether it is non-zero. The flag is advisory, for presentation
// only; it does not lock the collection.
//
// # Concurrency Model
//
// A sync.RWMutex guards the snapshot. Update and Snapshot both copy the book
// slice, so readers never observe a partially replaced collection and never
// share memory with the writer.
//
// The zero Store is ready to use.
package state
