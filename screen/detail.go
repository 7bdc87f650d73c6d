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
	"booktracker/internal/validator"
	"booktracker/notify"
)

// Mode is the detail screen's state: fields read-only with an "Edit" action,
// or writable with a "Save" action.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

// Detail shows one book and toggles between viewing and editing it.
// Delete is available in either mode.
type Detail struct {
	api      *clients.Client
	loop     *Loop
	logger   *jsonlog.Logger
	notifier *notify.Notifier
	printer  *message.Printer
	out      io.Writer

	book data.Book
	Form Form
	mode Mode

	active  bool
	busy    bool
	confirm func(prompt string) bool
	onClose func()
}

// NewDetail creates the detail screen for one book, starting in viewing
// mode with the form populated from the record. confirm gates deletion;
// onClose runs after a successful delete.
func NewDetail(book data.Book, api *clients.Client, loop *Loop, logger *jsonlog.Logger, notifier *notify.Notifier, printer *message.Printer, out io.Writer, confirm func(string) bool, onClose func()) *Detail {
	return &Detail{
		api:      api,
		loop:     loop,
		logger:   logger,
		notifier: notifier,
		printer:  printer,
		out:      out,
		book:     book,
		Form:     FormFromBook(book),
		mode:     ModeViewing,
		confirm:  confirm,
		onClose:  onClose,
	}
}

// Activate marks the screen visible.
func (s *Detail) Activate() { s.active = true }

// Deactivate marks the screen gone; late completions are dropped.
func (s *Detail) Deactivate() { s.active = false }

// Mode returns the current state.
func (s *Detail) Mode() Mode { return s.mode }

// Busy reports whether an update or delete is in flight.
func (s *Detail) Busy() bool { return s.busy }

// Book returns the screen's working copy of the record.
func (s *Detail) Book() data.Book { return s.book }

// ActionLabel is the label of the single action button: "Edit" while
// viewing, "Save" while editing.
func (s *Detail) ActionLabel() string {
	if s.mode == ModeEditing {
		return "Save"
	}
	return "Edit"
}

// Action toggles viewing into editing, or submits the edit when already
// editing. The toggle itself makes no network call.
func (s *Detail) Action() {
	if s.mode == ModeViewing {
		s.mode = ModeEditing
		return
	}
	s.save()
}

// save validates the form with the same rules as the create screen and
// submits the update. dateAdded is carried over from the original record,
// never from the form. On success the working copy is replaced with the
// server's record and the screen returns to viewing; on failure it stays in
// editing with the current input retained.
func (s *Detail) save() {
	v := validator.New()
	book := s.Form.Parse(v)
	if !v.Valid() {
		for field, msg := range v.Errors {
			fmt.Fprintf(s.out, "%s: %s\n", field, msg)
		}
		return
	}
	book.ID = s.book.ID
	book.DateAdded = s.book.DateAdded
	s.busy = true
	Dispatch(s.loop, func() (*data.Book, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.api.Update(ctx, book.ID, book)
	}, func(updated *data.Book, err error) {
		if !s.active {
			s.logger.PrintDebug("update completed after teardown, dropping", nil)
			return
		}
		s.busy = false
		if err != nil {
			fmt.Fprintf(s.out, "Failed to update book: %s\n", describeError(err))
			return
		}
		s.book = *updated
		s.Form = FormFromBook(*updated)
		s.mode = ModeViewing
		s.notifier.Notify("Book updated", fmt.Sprintf("%q has been updated", s.book.Title))
		s.Render()
	})
}

// Delete asks for confirmation and, when accepted, deletes the record. On
// success it notifies and closes the screen; on failure the record stays
// intact and the error is displayed.
func (s *Detail) Delete() {
	if s.confirm != nil && !s.confirm("Delete this book?") {
		return
	}
	id := s.book.ID
	if id == 0 {
		return
	}
	s.busy = true
	Dispatch(s.loop, func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return struct{}{}, s.api.Delete(ctx, id)
	}, func(_ struct{}, err error) {
		if !s.active {
			s.logger.PrintDebug("delete completed after teardown, dropping", nil)
			return
		}
		s.busy = false
		if err != nil {
			fmt.Fprintf(s.out, "Failed to delete book: %s\n", describeError(err))
			return
		}
		s.notifier.Notify("Book deleted", fmt.Sprintf("%q has been removed from your list", s.book.Title))
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Render writes the record's display fields, plus the current mode's action
// label.
func (s *Detail) Render() {
	item := data.NewItemView(s.printer, s.book)
	fmt.Fprintf(s.out, "Title:  %s\n", item.Title)
	fmt.Fprintf(s.out, "Year:   %s\n", item.Year)
	fmt.Fprintf(s.out, "Author: %s\n", item.Author)
	fmt.Fprintf(s.out, "Status: %s\n", item.Status)
	fmt.Fprintf(s.out, "Added:  %s\n", s.book.DateAdded)
	if item.Note != "" {
		fmt.Fprintf(s.out, "Note:   %s\n", item.Note)
	}
	fmt.Fprintf(s.out, "[%s] [Delete]\n", s.ActionLabel())
}
