// Package catalog provides an HTTP client for the book catalog REST API.
//
// # Overview
//
// The catalog service exposes a single collection endpoint. The client is
// configured with that endpoint's full URL (for example
// http://127.0.0.1:3000/api/livros) and derives per-book URLs by appending the
// numeric id:
//
//   - GET    <base>       list every book, JSON array in server order
//   - POST   <base>       create a book (body without id)
//   - PUT    <base>/{id}  replace a book (body includes id)
//   - DELETE <base>/{id}  remove a book, success is exactly 204 No Content
//
// # Wire Format
//
// Book field names follow the existing backend and are kept verbatim:
//
//	{"id": 1, "titulo": "...", "autor": "...", "isbn": "...",
//	 "anoPublicacao": 2020, "disponivel": true}
//
// # Error Handling
//
// List failures are returned as *NetworkError. Status carries the HTTP status
// when the server answered with a non-2xx code and is zero for transport or
// decode failures, which are wrapped and reachable through errors.Unwrap.
//
// Create, update and delete failures are returned as *OperationError. For
// create and update the message is the "message" field of a JSON error body
// when present, "operation failed" for a JSON body without one, and
// "unknown error" when the body is not JSON. Delete treats every status other
// than 204 as a failure, including 200 with a body.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: shelf/0.1
//   - Carry a random X-Request-ID so backend logs can be matched to ours
//   - Have a 10-second timeout unless configured otherwise
//
// # Design Rationale
//
// The client does no caching and no retries. Reconciliation (refetch after
// every write) is the collection package's job.
package catalog
