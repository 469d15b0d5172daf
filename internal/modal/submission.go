package modal

import (
	"context"
	"fmt"

	"github.com/five82/shelf/internal/catalog"
)

// Op identifies the write a Submission performs.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "create"
	}
}

// Submission is a validated, immutable write produced by the controller.
type Submission struct {
	Op   Op
	ID   int64
	Book catalog.Book
}

// Apply performs the write through p.
func (s Submission) Apply(ctx context.Context, p Persister) error {
	if p == nil {
		return fmt.Errorf("no persister configured")
	}
	switch s.Op {
	case OpCreate:
		return p.Create(ctx, s.Book)
	case OpUpdate:
		return p.Update(ctx, s.ID, s.Book)
	case OpDelete:
		return p.Delete(ctx, s.ID)
	default:
		return fmt.Errorf("unknown op %d", s.Op)
	}
}

// PrepareSave validates the draft and returns the write to perform. On a
// ValidationError nothing changes and the modal stays open. On success the
// controller is busy until Finish is called.
func (c *Controller) PrepareSave() (Submission, error) {
	if !c.visible || (c.mode != ModeCreate && c.mode != ModeEdit) {
		return Submission{}, ErrInvalidTransition
	}
	if c.pending {
		return Submission{}, ErrBusy
	}
	if c.mode == ModeEdit && c.bound == nil {
		return Submission{}, ErrInvalidTransition
	}

	book, err := c.draft.build(c.now())
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{Op: OpCreate, Book: book}
	if c.mode == ModeEdit {
		// The ISBN identifies the book; edits always carry the original.
		book.ID = c.bound.ID
		book.ISBN = c.bound.ISBN
		sub = Submission{Op: OpUpdate, ID: c.bound.ID, Book: book}
	}
	c.pending = true
	c.confirming = false
	return sub, nil
}

// Save validates the draft, hands it to the persister and closes the modal.
// The modal closes whatever the persister reports; its error is returned so
// the caller can notify the user.
func (c *Controller) Save(ctx context.Context) error {
	sub, err := c.PrepareSave()
	if err != nil {
		return err
	}
	err = sub.Apply(ctx, c.persister)
	c.Finish()
	return err
}

// RequestDelete asks for confirmation before deleting the bound book. Only
// edit mode offers delete.
func (c *Controller) RequestDelete() error {
	if !c.visible || c.mode != ModeEdit || c.bound == nil {
		return ErrInvalidTransition
	}
	if c.pending {
		return ErrBusy
	}
	c.confirming = true
	return nil
}

// CancelDelete answers "no": the modal stays in edit mode untouched.
func (c *Controller) CancelDelete() {
	c.confirming = false
}

// PrepareDelete answers "yes" and returns the delete to perform.
func (c *Controller) PrepareDelete() (Submission, error) {
	if !c.confirming || !c.visible || c.mode != ModeEdit || c.bound == nil {
		return Submission{}, ErrInvalidTransition
	}
	if c.pending {
		return Submission{}, ErrBusy
	}
	c.confirming = false
	c.pending = true
	return Submission{Op: OpDelete, ID: c.bound.ID}, nil
}

// ConfirmDelete deletes the bound book and closes the modal.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	sub, err := c.PrepareDelete()
	if err != nil {
		return err
	}
	err = sub.Apply(ctx, c.persister)
	c.Finish()
	return err
}

// Finish closes the modal after a prepared submission completed, whether it
// succeeded or not.
func (c *Controller) Finish() {
	c.reset()
}

// Remove deletes a book straight from the list. Modal state is not touched.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	return Submission{Op: OpDelete, ID: id}.Apply(ctx, c.persister)
}
