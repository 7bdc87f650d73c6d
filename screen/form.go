package screen

import (
	"strconv"
	"strings"

	"booktracker/data"
	"booktracker/internal/validator"
)

// Form holds the raw field inputs of the create and edit screens. Year is
// kept as entered so an invalid value survives a failed submission intact.
type Form struct {
	Title  string
	Year   string
	Author string
	Status string
	Note   string
}

// FormFromBook populates a form from an existing record. An unrecognized
// status code selects the first option rather than failing.
func FormFromBook(b data.Book) Form {
	year := ""
	if b.Year > 0 {
		year = strconv.Itoa(b.Year)
	}
	status := b.Status
	if !validator.In(status, data.Statuses...) {
		status = data.StatusWant
	}
	return Form{
		Title:  b.Title,
		Year:   year,
		Author: b.Author,
		Status: status,
		Note:   strings.TrimSpace(b.Note),
	}
}

// Parse validates the form and assembles a Book from it. Title and author
// must be non-empty after trimming; an empty year maps to the zero sentinel
// and a non-numeric one is a field error. Violations accumulate in v and
// block submission, leaving the form populated for correction. The returned
// book carries no id and no dateAdded; those are the caller's concern.
func (f Form) Parse(v *validator.Validator) data.Book {
	book := data.Book{
		Title:  strings.TrimSpace(f.Title),
		Author: strings.TrimSpace(f.Author),
		Status: f.Status,
		Note:   strings.TrimSpace(f.Note),
	}
	if !validator.In(book.Status, data.Statuses...) {
		book.Status = data.StatusWant
	}
	if year := strings.TrimSpace(f.Year); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			v.AddError("year", "must be a whole number")
		} else {
			book.Year = n
		}
	}
	data.ValidateBook(v, &book)
	return book
}
