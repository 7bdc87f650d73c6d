package service

import (
	"errors"

	"booktracker/data"
	"booktracker/internal/validator"
	"booktracker/repository"
)

type books interface {
	CreateBook(book *data.Book) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks() ([]*data.Book, error)
	UpdateBook(bookID int64, book data.Book) (*data.Book, error)
	DeleteBook(bookID int64) error
}

// CreateBook validates and persists a new book. The id on the input is
// ignored; the server assigns one. Status is stored as submitted: the
// client's selector is the gate for the four codes, and unknown codes in
// old records must round-trip untouched.
func (s *service) CreateBook(book *data.Book) (*data.Book, error) {
	book.ID = 0
	v := validator.New()
	v.Check(book.DateAdded != "", "dateAdded", "must be provided")
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook retrieves the details of a book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks retrieves all book records.
func (s *service) ListBooks() ([]*data.Book, error) {
	return s.repo.GetAllBooks()
}

// UpdateBook replaces the stored fields of a book with the submitted ones,
// except dateAdded, which is never altered after creation.
func (s *service) UpdateBook(bookID int64, book data.Book) (*data.Book, error) {
	existing, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	existing.Title = book.Title
	existing.Year = book.Year
	existing.Author = book.Author
	existing.Status = book.Status
	existing.Note = book.Note
	v := validator.New()
	if data.ValidateBook(v, existing); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(existing)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return existing, nil
}

// DeleteBook deletes a book.
func (s *service) DeleteBook(bookID int64) error {
	err := s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
