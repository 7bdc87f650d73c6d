package screen

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/message"

	"booktracker/clients"
	"booktracker/data"
	"booktracker/internal/jsonlog"
)

// List is the main screen: it owns the authoritative in-memory collection
// of books and replaces it wholesale on every successful fetch.
type List struct {
	api     *clients.Client
	loop    *Loop
	logger  *jsonlog.Logger
	printer *message.Printer
	out     io.Writer

	active  bool
	loading bool
	books   []data.Book
	lastErr error
}

// NewList creates the list screen.
func NewList(api *clients.Client, loop *Loop, logger *jsonlog.Logger, printer *message.Printer, out io.Writer) *List {
	return &List{
		api:     api,
		loop:    loop,
		logger:  logger,
		printer: printer,
		out:     out,
	}
}

// Activate marks the screen visible and triggers a full re-fetch. It runs
// on first show and on every return from navigation, so edits made on other
// screens always show up.
func (s *List) Activate() {
	s.active = true
	s.Refresh()
}

// Deactivate marks the screen gone. In-flight fetches are not cancelled;
// their late completions are dropped instead.
func (s *List) Deactivate() {
	s.active = false
}

// Refresh fetches the whole collection, sorts it, and replaces the
// displayed list. On failure the previously displayed list stays untouched
// and the error is surfaced. Rapid repeated triggers may overlap; the last
// completion to arrive wins.
func (s *List) Refresh() {
	s.loading = true
	Dispatch(s.loop, func() ([]data.Book, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.api.List(ctx)
	}, func(books []data.Book, err error) {
		if !s.active {
			s.logger.PrintDebug("list fetch completed after teardown, dropping", nil)
			return
		}
		s.loading = false
		if err != nil {
			s.lastErr = err
			fmt.Fprintf(s.out, "Failed to load books: %s\n", describeError(err))
			return
		}
		s.lastErr = nil
		s.books = data.SortBooks(books)
		s.Render()
	})
}

// Loading reports whether a fetch is in flight.
func (s *List) Loading() bool { return s.loading }

// Err returns the error from the most recent fetch, if it failed.
func (s *List) Err() error { return s.lastErr }

// Books returns the currently displayed, sorted collection.
func (s *List) Books() []data.Book { return s.books }

// Book returns the book at the given display position.
func (s *List) Book(i int) (data.Book, bool) {
	if i < 0 || i >= len(s.books) {
		return data.Book{}, false
	}
	return s.books[i], true
}

// Render writes the list as an aligned table, one row per book.
func (s *List) Render() {
	if len(s.books) == 0 {
		fmt.Fprintln(s.out, "No books yet.")
		return
	}
	fmt.Fprintf(s.out, "%-3s  %-30s  %-6s  %-20s  %-16s  %s\n", "#", "Title", "Year", "Author", "Status", "Note")
	for i, b := range s.books {
		item := data.NewItemView(s.printer, b)
		fmt.Fprintf(s.out, "%-3d  %-30s  %-6s  %-20s  %-16s  %s\n",
			i+1, item.Title, item.Year, item.Author, item.Status, item.Note)
	}
}
