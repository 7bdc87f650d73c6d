package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booktracker/config"
	"booktracker/data"
	"booktracker/internal/jsonlog"
	"booktracker/service"
)

// stubService is an in-memory service.Service with the real error contract.
type stubService struct {
	books  map[int64]*data.Book
	nextID int64
}

func newStubService() *stubService {
	return &stubService{books: make(map[int64]*data.Book)}
}

func (s *stubService) CreateBook(book *data.Book) (*data.Book, error) {
	if book.Title == "" || book.Author == "" || book.DateAdded == "" {
		return nil, service.ErrFailedValidation
	}
	s.nextID++
	book.ID = s.nextID
	cp := *book
	s.books[cp.ID] = &cp
	return &cp, nil
}

func (s *stubService) GetBook(id int64) (*data.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, service.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubService) ListBooks() ([]*data.Book, error) {
	books := make([]*data.Book, 0, len(s.books))
	for _, b := range s.books {
		cp := *b
		books = append(books, &cp)
	}
	return books, nil
}

func (s *stubService) UpdateBook(id int64, book data.Book) (*data.Book, error) {
	existing, ok := s.books[id]
	if !ok {
		return nil, service.ErrRecordNotFound
	}
	if book.Title == "" || book.Author == "" {
		return nil, service.ErrFailedValidation
	}
	book.ID = id
	book.DateAdded = existing.DateAdded
	cp := book
	s.books[id] = &cp
	return &cp, nil
}

func (s *stubService) DeleteBook(id int64) error {
	if _, ok := s.books[id]; !ok {
		return service.ErrRecordNotFound
	}
	delete(s.books, id)
	return nil
}

func newTestHandler(svc service.Service) *Handler {
	var cfg config.Config
	cfg.Server.Env = "test"
	cfg.BasicAuth.Username = "admin"
	cfg.BasicAuth.Password = "secret"
	return New(cfg, jsonlog.New(io.Discard, jsonlog.LevelOff), svc)
}

func do(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreateBookHandler(t *testing.T) {
	h := newTestHandler(newStubService())
	rec := do(t, h, http.MethodPost, "/books",
		`{"title":"Dune","year":1965,"author":"Herbert","status":"reading","dateAdded":"2024-01-15","note":""}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201; got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/books/1" {
		t.Errorf("expected Location /books/1; got %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected an X-Request-ID header")
	}
	var book data.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatalf("the body must be a flat book object: %v", err)
	}
	if book.ID != 1 || book.Title != "Dune" {
		t.Errorf("unexpected created record: %+v", book)
	}
}

func TestCreateBookHandlerBadBody(t *testing.T) {
	h := newTestHandler(newStubService())
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"title":`},
		{"empty", ""},
		{"unknown field", `{"title":"Dune","publisher":"Ace"}`},
		{"trailing value", `{"title":"Dune"}{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/books", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400; got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateBookHandlerValidation(t *testing.T) {
	h := newTestHandler(newStubService())
	rec := do(t, h, http.MethodPost, "/books", `{"title":"","author":"Herbert"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422; got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected an error envelope; got %s", rec.Body.String())
	}
}

func TestShowBookHandler(t *testing.T) {
	svc := newStubService()
	svc.CreateBook(&data.Book{Title: "Dune", Author: "Herbert", DateAdded: "2024-01-15"})
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodGet, "/books/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	var book data.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatalf("the body must be a flat book object: %v", err)
	}
	if book.Title != "Dune" || book.DateAdded != "2024-01-15" {
		t.Errorf("unexpected record: %+v", book)
	}

	for _, path := range []string{"/books/99", "/books/0", "/books/abc"} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404; got %d", path, rec.Code)
		}
	}
}

func TestListBooksHandler(t *testing.T) {
	svc := newStubService()
	svc.CreateBook(&data.Book{Title: "Dune", Author: "Herbert", DateAdded: "2024-01-15"})
	svc.CreateBook(&data.Book{Title: "Solaris", Author: "Lem", DateAdded: "2024-02-01"})
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodGet, "/books", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	var books []data.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("the body must be a flat array: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 books; got %d", len(books))
	}
}

func TestUpdateBookHandler(t *testing.T) {
	svc := newStubService()
	svc.CreateBook(&data.Book{Title: "Dune", Author: "Herbert", DateAdded: "2024-01-15"})
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodPut, "/books/1",
		`{"title":"Dune Messiah","year":1969,"author":"Herbert","status":"read","dateAdded":"1999-12-31","note":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rec.Code, rec.Body.String())
	}
	var book data.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if book.Title != "Dune Messiah" {
		t.Errorf("expected the updated title; got %q", book.Title)
	}
	if book.DateAdded != "2024-01-15" {
		t.Errorf("dateAdded must be preserved; got %q", book.DateAdded)
	}

	rec = do(t, h, http.MethodPut, "/books/99", `{"title":"x","author":"y"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing record; got %d", rec.Code)
	}
}

func TestDeleteBookHandler(t *testing.T) {
	svc := newStubService()
	svc.CreateBook(&data.Book{Title: "Dune", Author: "Herbert", DateAdded: "2024-01-15"})
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodDelete, "/books/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204; got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("a delete response must have no body; got %q", rec.Body.String())
	}

	rec = do(t, h, http.MethodDelete, "/books/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice; got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(newStubService())
	rec := do(t, h, http.MethodPatch, "/books", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405; got %d", rec.Code)
	}
}

func TestHealthcheckHandler(t *testing.T) {
	h := newTestHandler(newStubService())
	rec := do(t, h, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "available") {
		t.Errorf("unexpected healthcheck body: %s", rec.Body.String())
	}
}

func TestDebugVarsBasicAuth(t *testing.T) {
	h := newTestHandler(newStubService())

	rec := do(t, h, http.MethodGet, "/debug/vars", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials; got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected a WWW-Authenticate challenge")
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("admin", "secret")
	okRec := httptest.NewRecorder()
	h.Routes().ServeHTTP(okRec, req)
	if okRec.Code != http.StatusOK {
		t.Errorf("expected 200 with credentials; got %d", okRec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("admin", "wrong")
	badRec := httptest.NewRecorder()
	h.Routes().ServeHTTP(badRec, req)
	if badRec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad credentials; got %d", badRec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	var cfg config.Config
	cfg.Limiter.Enabled = true
	cfg.Limiter.RPS = 1
	cfg.Limiter.Burst = 1
	h := New(cfg, jsonlog.New(io.Discard, jsonlog.LevelOff), newStubService())
	routes := h.Routes()

	limited := false
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("expected a burst of requests to hit the rate limit")
	}
}
