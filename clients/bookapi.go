// Package clients contains the HTTP binding for the remote books resource.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"booktracker/data"
	"booktracker/internal/jsonlog"
)

// ErrNotFound is returned when the server reports that no book exists with
// the requested id.
var ErrNotFound = errors.New("book not found")

// APIError is a non-2xx response from the server. It is distinct from a
// transport failure, where no response arrived at all.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded with status %d", e.StatusCode)
}

// IsServerError reports whether err is a server status error and, if so,
// which status code the server sent. Any other error is a transport
// failure or a client-side failure.
func IsServerError(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// Client binds the five book operations to a base URL. All methods are
// synchronous; callers that must not block run them through screen.Dispatch.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *jsonlog.Logger
}

// New creates a books API client for the given base URL.
func New(baseURL string, httpClient *http.Client, logger *jsonlog.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(30 * time.Second)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// List fetches every book. The order is server-defined; display ordering is
// the caller's concern.
func (c *Client) List(ctx context.Context) ([]data.Book, error) {
	var books []data.Book
	err := c.do(ctx, http.MethodGet, "/books", nil, &books)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Get fetches a single book by id.
func (c *Client) Get(ctx context.Context, id int64) (*data.Book, error) {
	var book data.Book
	err := c.do(ctx, http.MethodGet, "/books/"+strconv.FormatInt(id, 10), nil, &book)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create submits a new book and returns the server-assigned record,
// including its generated id. The id on the input book is ignored.
func (c *Client) Create(ctx context.Context, book data.Book) (*data.Book, error) {
	book.ID = 0
	var created data.Book
	err := c.do(ctx, http.MethodPost, "/books", &book, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the book with the given id and returns the record as
// persisted by the server.
func (c *Client) Update(ctx context.Context, id int64, book data.Book) (*data.Book, error) {
	var updated data.Book
	err := c.do(ctx, http.MethodPut, "/books/"+strconv.FormatInt(id, 10), &book, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the book with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/books/"+strconv.FormatInt(id, 10), nil, nil)
}

// do performs one request against the books resource. A transport failure
// comes back wrapped with the underlying message; a non-2xx status comes
// back as *APIError, with 404 additionally mapped to ErrNotFound. No
// automatic retries.
func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reqBody io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(js)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()
	c.logger.PrintDebug("books api call", map[string]string{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(resp.StatusCode),
	})
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, &APIError{StatusCode: resp.StatusCode})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
