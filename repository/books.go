package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"booktracker/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(ID int64) (*data.Book, error)
	GetAllBooks() ([]*data.Book, error)
	UpdateBook(book *data.Book) error
	DeleteBook(bookID int64) error
}

// CreateBook creates a new book record and writes the generated id back
// into book.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, year, author, status, date_added, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	args := []interface{}{book.Title, book.Year, book.Author, book.Status, book.DateAdded, book.Note}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID)
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(ID int64) (*data.Book, error) {
	if ID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, title, year, author, status, date_added, note
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&book.ID,
		&book.Title,
		&book.Year,
		&book.Author,
		&book.Status,
		&book.DateAdded,
		&book.Note,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves every book record. The order is whatever the
// database returns; clients impose their own display order.
func (r *repository) GetAllBooks() ([]*data.Book, error) {
	query := `
		SELECT id, title, year, author, status, date_added, note
		FROM books`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Year,
			&book.Author,
			&book.Status,
			&book.DateAdded,
			&book.Note,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook updates a book record. date_added is deliberately left alone:
// it is set once at creation and never altered afterwards.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, year = $2, author = $3, status = $4, note = $5
		WHERE id = $6
		RETURNING date_added`
	args := []interface{}{
		book.Title,
		book.Year,
		book.Author,
		book.Status,
		book.Note,
		book.ID,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.DateAdded)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
