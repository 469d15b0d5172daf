package modal

import (
	"context"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Mode is the interaction mode of the shared modal.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
	ModeCreate
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeCreate:
		return "create"
	default:
		return "view"
	}
}

// Title returns the heading shown on the modal.
func (m Mode) Title() string {
	switch m {
	case ModeEdit:
		return "Edit Book"
	case ModeCreate:
		return "New Book"
	default:
		return "Book Details"
	}
}

// Persister is the write side of the collection synchronizer.
type Persister interface {
	Create(ctx context.Context, book catalog.Book) error
	Update(ctx context.Context, id int64, book catalog.Book) error
	Delete(ctx context.Context, id int64) error
}

// State is a read-only view of the modal. Book is nil only in create mode or
// when the modal is closed.
type State struct {
	Visible bool
	Mode    Mode
	Book    *catalog.Book
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for the current-year default.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller drives the single shared modal through view, edit and create.
// It owns the modal state and the draft and never touches the collection
// directly; every write goes through the Persister.
//
// Controller is not safe for concurrent use. Front-ends that run network work
// off their main goroutine use PrepareSave/PrepareDelete, run the returned
// Submission elsewhere, and call Finish back on the main goroutine.
type Controller struct {
	persister Persister
	now       func() time.Time

	visible    bool
	mode       Mode
	bound      *catalog.Book
	draft      Draft
	confirming bool
	pending    bool
}

// New returns a closed Controller writing through p.
func New(p Persister, opts ...Option) *Controller {
	c := &Controller{persister: p, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current modal state.
func (c *Controller) State() State {
	st := State{Visible: c.visible, Mode: c.mode}
	if c.bound != nil {
		book := *c.bound
		st.Book = &book
	}
	return st
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	d := c.draft
	if d.Available != nil {
		v := *d.Available
		d.Available = &v
	}
	return d
}

// Visible reports whether the modal is open.
func (c *Controller) Visible() bool { return c.visible }

// Mode returns the current mode. It is meaningless while closed.
func (c *Controller) Mode() Mode { return c.mode }

// ConfirmingDelete reports whether a delete is waiting for a yes/no answer.
func (c *Controller) ConfirmingDelete() bool { return c.confirming }

// Busy reports whether a prepared save or delete has not finished yet.
func (c *Controller) Busy() bool { return c.pending }

// Editable reports whether f may be changed right now.
func (c *Controller) Editable(f Field) bool {
	if !c.visible || c.pending {
		return false
	}
	switch c.mode {
	case ModeCreate:
		return true
	case ModeEdit:
		return f != FieldISBN
	default:
		return false
	}
}

// OpenCreate opens the modal for a new book with a blank draft.
func (c *Controller) OpenCreate() error {
	if c.pending {
		return ErrBusy
	}
	c.reset()
	c.visible = true
	c.mode = ModeCreate
	c.draft = blankDraft(c.now())
	return nil
}

// OpenView opens the modal read-only on book.
func (c *Controller) OpenView(book catalog.Book) error {
	return c.openBound(ModeView, book)
}

// OpenEdit opens the modal for editing book.
func (c *Controller) OpenEdit(book catalog.Book) error {
	return c.openBound(ModeEdit, book)
}

func (c *Controller) openBound(mode Mode, book catalog.Book) error {
	if c.pending {
		return ErrBusy
	}
	c.reset()
	c.visible = true
	c.mode = mode
	c.bound = &book
	c.draft = draftFrom(book)
	return nil
}

// SwitchToEdit escalates view to edit on the same book without closing the
// modal. The draft is re-derived from the bound book.
func (c *Controller) SwitchToEdit() error {
	if !c.visible || c.mode != ModeView || c.bound == nil {
		return ErrInvalidTransition
	}
	if c.pending {
		return ErrBusy
	}
	c.mode = ModeEdit
	c.draft = draftFrom(*c.bound)
	c.confirming = false
	return nil
}

// Close hides the modal and discards the draft without persisting anything.
func (c *Controller) Close() {
	c.reset()
}

func (c *Controller) reset() {
	c.visible = false
	c.mode = ModeView
	c.bound = nil
	c.draft = Draft{}
	c.confirming = false
	c.pending = false
}

// SetField changes one text field of the draft. FieldAvailable accepts
// "true"/"false" style values; prefer SetAvailable for it.
func (c *Controller) SetField(f Field, value string) error {
	if !c.visible {
		return ErrInvalidTransition
	}
	if !c.Editable(f) {
		return ErrReadOnly
	}
	switch f {
	case FieldTitle:
		c.draft.Title = value
	case FieldAuthor:
		c.draft.Author = value
	case FieldISBN:
		c.draft.ISBN = value
	case FieldYear:
		c.draft.Year = value
	case FieldAvailable:
		switch value {
		case "true", "yes", "1", "on":
			return c.SetAvailable(true)
		case "false", "no", "0", "off":
			return c.SetAvailable(false)
		default:
			return &ValidationError{Field: FieldAvailable, Message: "Available must be yes or no."}
		}
	default:
		return ErrReadOnly
	}
	return nil
}

// SetAvailable sets the draft's availability.
func (c *Controller) SetAvailable(v bool) error {
	if !c.visible {
		return ErrInvalidTransition
	}
	if !c.Editable(FieldAvailable) {
		return ErrReadOnly
	}
	c.draft.Available = &v
	return nil
}

// ToggleAvailable flips the draft's availability.
func (c *Controller) ToggleAvailable() error {
	return c.SetAvailable(!c.draft.AvailableValue())
}
