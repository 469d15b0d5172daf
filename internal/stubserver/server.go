// Package stubserver serves an in-memory book catalog that speaks the same
// REST contract as the real backend. It backs local development and tests.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/five82/shelf/internal/catalog"
)

// DefaultPrefix is the collection path the real backend uses.
const DefaultPrefix = "/api/livros"

// Server is an in-memory catalog. It is safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	books  []catalog.Book
	nextID int64
	calls  map[string]int

	router *mux.Router
}

// New returns a Server mounted at prefix and seeded with books. Books keep
// their ids; new ids continue after the highest seeded one.
func New(prefix string, seed []catalog.Book) *Server {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		prefix = DefaultPrefix
	}

	s := &Server{
		books:  make([]catalog.Book, 0, len(seed)),
		nextID: 1,
		calls:  make(map[string]int),
	}
	for _, book := range seed {
		s.books = append(s.books, book)
		if book.ID >= s.nextID {
			s.nextID = book.ID + 1
		}
	}

	r := mux.NewRouter()
	r.HandleFunc(prefix, s.handleList).Methods(http.MethodGet)
	r.HandleFunc(prefix, s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/{id:[0-9]+}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id:[0-9]+}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc(prefix+"/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls[r.Method]++
	s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

// Books returns a copy of the current catalog.
func (s *Server) Books() []catalog.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Calls returns how many requests with the given method reached the server.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Books())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	idx := s.indexOf(id)
	var book catalog.Book
	if idx >= 0 {
		book = s.books[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	book, ok := decodeBook(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.books {
		if existing.ISBN == book.ISBN {
			writeMessage(w, http.StatusConflict, "a book with this ISBN already exists")
			return
		}
	}
	book.ID = s.nextID
	s.nextID++
	s.books = append(s.books, book)
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	book, ok := decodeBook(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "book not found")
		return
	}
	if book.ISBN != s.books[idx].ISBN {
		writeMessage(w, http.StatusBadRequest, "isbn cannot be changed")
		return
	}
	book.ID = id
	s.books[idx] = book
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "book not found")
		return
	}
	s.books = append(s.books[:idx], s.books[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// indexOf must be called with mu held.
func (s *Server) indexOf(id int64) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func decodeBook(w http.ResponseWriter, r *http.Request) (catalog.Book, bool) {
	var book catalog.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return catalog.Book{}, false
	}
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.ISBN = strings.TrimSpace(book.ISBN)
	if book.Title == "" || book.Author == "" || book.ISBN == "" {
		writeMessage(w, http.StatusBadRequest, "titulo, autor and isbn are required")
		return catalog.Book{}, false
	}
	return book, true
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
