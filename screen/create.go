package screen

import (
	"context"
	"fmt"
	"io"
	"time"

	"booktracker/clients"
	"booktracker/data"
	"booktracker/internal/jsonlog"
	"booktracker/internal/validator"
	"booktracker/notify"
)

// Create is the add-book screen: a single form state and a submit action.
type Create struct {
	api      *clients.Client
	loop     *Loop
	logger   *jsonlog.Logger
	notifier *notify.Notifier
	out      io.Writer

	// Form keeps the entered values so a rejected submission leaves
	// everything in place for correction.
	Form        Form
	FieldErrors map[string]string

	active     bool
	submitting bool
	onDone     func()
}

// NewCreate creates the add-book screen. onDone runs after a successful
// creation, returning control to the list screen.
func NewCreate(api *clients.Client, loop *Loop, logger *jsonlog.Logger, notifier *notify.Notifier, out io.Writer, onDone func()) *Create {
	return &Create{
		api:      api,
		loop:     loop,
		logger:   logger,
		notifier: notifier,
		out:      out,
		Form:     Form{Status: data.StatusWant},
		onDone:   onDone,
	}
}

// Activate marks the screen visible.
func (s *Create) Activate() { s.active = true }

// Deactivate marks the screen gone; a late create completion is dropped.
func (s *Create) Deactivate() { s.active = false }

// Submitting reports whether a create request is in flight.
func (s *Create) Submitting() bool { return s.submitting }

// Submit validates the form and, when valid, creates the book with
// dateAdded set to today's local calendar date. Validation failures are
// reported per field and never reach the network. A server or transport
// failure is displayed and the form stays populated.
func (s *Create) Submit() {
	v := validator.New()
	book := s.Form.Parse(v)
	if !v.Valid() {
		s.FieldErrors = v.Errors
		for field, msg := range v.Errors {
			fmt.Fprintf(s.out, "%s: %s\n", field, msg)
		}
		return
	}
	s.FieldErrors = nil
	book.DateAdded = time.Now().Format(data.DateLayout)
	s.submitting = true
	Dispatch(s.loop, func() (*data.Book, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.api.Create(ctx, book)
	}, func(created *data.Book, err error) {
		if !s.active {
			s.logger.PrintDebug("create completed after teardown, dropping", nil)
			return
		}
		s.submitting = false
		if err != nil {
			fmt.Fprintf(s.out, "Failed to add book: %s\n", describeError(err))
			return
		}
		s.notifier.NotifyImportance("Book added",
			fmt.Sprintf("%q has been added to your list", created.Title),
			notify.ImportanceHigh)
		fmt.Fprintf(s.out, "Added %q (id %d)\n", created.Title, created.ID)
		if s.onDone != nil {
			s.onDone()
		}
	})
}
