package data

import (
	"sort"
	"time"

	"booktracker/internal/validator"
)

// DateLayout is the calendar-day format used for the dateAdded field.
const DateLayout = "2006-01-02"

// Reading-progress status codes. These are the only values the client ever
// submits; records coming back from the server may carry anything.
const (
	StatusWant    = "want"
	StatusReading = "reading"
	StatusDropped = "dropped"
	StatusRead    = "read"
)

// Statuses lists the status codes in the order they appear in the
// create/edit form selector.
var Statuses = []string{StatusWant, StatusReading, StatusDropped, StatusRead}

// Book defines a book record. ID is zero for a book that has not been
// created yet; the server assigns it on creation. Year zero means the
// publication year is unspecified. DateAdded is set once, client-side, when
// the record is created and is never altered afterwards.
type Book struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Status    string `json:"status"`
	DateAdded string `json:"dateAdded"`
	Note      string `json:"note"`
}

// AddedTime parses the book's dateAdded as a calendar date. An unparseable
// or missing value maps to the zero time rather than an error, so such
// records sort to the bottom of the list.
func (b Book) AddedTime() time.Time {
	t, err := time.Parse(DateLayout, b.DateAdded)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ValidateBook checks the invariants every persisted record must hold.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(book.Year >= 0, "year", "must not be negative")
	v.Check(book.Year <= time.Now().Year()+1, "year", "must not be in the future")
}

// SortBooks returns a new slice ordered for display: most recently added
// first, and among books added the same day, highest id first. The sort is
// stable, so books with an identical date and id keep their input order.
// DateAdded has day granularity only, which is why same-day entries rely
// entirely on the id tie-break.
func SortBooks(books []Book) []Book {
	sorted := make([]Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].AddedTime(), sorted[j].AddedTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}
