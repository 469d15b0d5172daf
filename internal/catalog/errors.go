package catalog

import (
	"fmt"
	"net/http"
)

// Fallback messages used when the backend gives no usable explanation.
const (
	msgUnknown      = "unknown error"
	msgOpFailed     = "operation failed"
	msgDeleteFailed = "failed to delete book"
)

// NetworkError reports a failed list request. Status is zero when the request
// never produced an HTTP response or the body could not be decoded.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("network error: %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return "network error"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// OperationError reports a create, update or delete the backend did not accept.
type OperationError struct {
	Op      string // "create", "update" or "delete"
	Status  int
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = msgOpFailed
	}
	return msg
}

func (e *OperationError) Unwrap() error { return e.Err }
