package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"booktracker/data"
	"booktracker/internal/jsonlog"
)

func testLogger() *jsonlog.Logger {
	return jsonlog.New(io.Discard, jsonlog.LevelOff)
}

// fakeBooksServer is an in-memory stand-in for the books API, speaking the
// same wire format.
type fakeBooksServer struct {
	mu     sync.Mutex
	nextID int64
	books  []data.Book
}

func (s *fakeBooksServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(s.books)
		case http.MethodPost:
			var book data.Book
			if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.nextID++
			book.ID = s.nextID
			s.books = append(s.books, book)
			w.Header().Set("Location", fmt.Sprintf("/books/%d", book.ID))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(book)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/books/"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		idx := -1
		for i := range s.books {
			if s.books[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(s.books[idx])
		case http.MethodPut:
			var book data.Book
			if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			book.ID = id
			s.books[idx] = book
			json.NewEncoder(w).Encode(book)
		case http.MethodDelete:
			s.books = append(s.books[:idx], s.books[idx+1:]...)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestClientCRUD(t *testing.T) {
	srv := httptest.NewServer((&fakeBooksServer{}).handler())
	defer srv.Close()
	c := New(srv.URL, nil, testLogger())
	ctx := context.Background()

	created, err := c.Create(ctx, data.Book{
		ID:        42, // must be ignored
		Title:     "Solaris",
		Author:    "Stanisław Lem",
		Year:      1961,
		Status:    data.StatusWant,
		DateAdded: "2024-01-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected the server-assigned id 1; got %d", created.ID)
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Solaris" || got.DateAdded != "2024-01-15" {
		t.Errorf("round trip lost fields: %+v", got)
	}

	got.Status = data.StatusRead
	updated, err := c.Update(ctx, got.ID, *got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != data.StatusRead {
		t.Errorf("expected the updated status; got %q", updated.Status)
	}

	books, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book; got %d", len(books))
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	books, err = c.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected an empty list after delete; got %d books", len(books))
	}
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer((&fakeBooksServer{}).handler())
	defer srv.Close()
	c := New(srv.URL, nil, testLogger())

	_, err := c.Get(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}
	code, ok := IsServerError(err)
	if !ok || code != http.StatusNotFound {
		t.Errorf("expected a 404 server error; got code=%d ok=%t", code, ok)
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := New(srv.URL, nil, testLogger())

	_, err := c.List(context.Background())
	code, ok := IsServerError(err)
	if !ok || code != http.StatusInternalServerError {
		t.Fatalf("expected a 500 server error; got code=%d ok=%t err=%v", code, ok, err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a 500 must not map to ErrNotFound")
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing is listening anymore
	c := New(srv.URL, nil, testLogger())

	_, err := c.List(context.Background())
	if err == nil {
		t.Fatal("expected an error talking to a closed server")
	}
	if _, ok := IsServerError(err); ok {
		t.Error("a transport failure must not look like a server status error")
	}
	if !strings.Contains(err.Error(), "connection failed") {
		t.Errorf("expected the connection failure to be labelled; got %q", err)
	}
}
