package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Catalog defines the REST operations the synchronizer depends on.
// This interface is implemented by *Client and can be faked in tests.
type Catalog interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, book Book) error
	UpdateBook(ctx context.Context, id int64, book Book) error
	DeleteBook(ctx context.Context, id int64) error
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// Client talks to the book catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL        = "http://127.0.0.1:3000/api/livros"
	DefaultRequestTimeout = 10 * time.Second

	defaultUserAgent = "shelf/0.1"
	requestIDHeader  = "X-Request-ID"
	maxErrorBody     = 64 * 1024
)

// NewClient builds a Client for the collection endpoint at baseURL. A zero
// timeout selects DefaultRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized collection endpoint.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListBooks fetches the full collection in server order.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	resp, err := c.send(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &NetworkError{Status: resp.StatusCode}
	}

	var books []Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return books, nil
}

// CreateBook posts a new book. Any id on book is dropped; the server assigns one.
func (c *Client) CreateBook(ctx context.Context, book Book) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	book.ID = 0
	return c.mutate(ctx, "create", http.MethodPost, c.baseURL, book)
}

// UpdateBook replaces the book with the given id. The body carries the id too.
func (c *Client) UpdateBook(ctx context.Context, id int64, book Book) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return &OperationError{Op: "update", Message: "book id required"}
	}
	book.ID = id
	return c.mutate(ctx, "update", http.MethodPut, c.itemURL(id), book)
}

// DeleteBook removes the book with the given id. Only 204 No Content counts as
// success.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return &OperationError{Op: "delete", Message: "book id required"}
	}
	resp, err := c.send(ctx, http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return &OperationError{Op: "delete", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode != http.StatusNoContent {
		return &OperationError{Op: "delete", Status: resp.StatusCode, Message: msgDeleteFailed}
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, op, method string, target *url.URL, book Book) error {
	resp, err := c.send(ctx, method, target, book)
	if err != nil {
		return &OperationError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return &OperationError{Op: op, Status: resp.StatusCode, Message: operationMessage(resp.Body)}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

func (c *Client) send(ctx context.Context, method string, target *url.URL, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request %s: %w", req.Header.Get(requestIDHeader), err)
	}
	return resp, nil
}

func (c *Client) itemURL(id int64) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strconv.FormatInt(id, 10)
	u.RawPath = ""
	return &u
}

// operationMessage extracts the backend's message field, falling back to
// generic text when the body is not JSON or carries no message.
func operationMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return msgUnknown
	}
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return msgUnknown
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return msgOpFailed
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
