// Package modal implements the single shared book modal as a state machine.
//
// States: closed (initial), create, view and edit. OpenCreate, OpenView and
// OpenEdit open the modal and derive a fresh Draft; SwitchToEdit escalates
// view to edit on the same book without closing. Close discards the draft.
//
// The draft is a builder over catalog.Book. Only Save (or the
// PrepareSave/Finish pair) turns it into a book and hands it to the
// Persister. Validation happens first and never reaches the network. After
// the persister returns the modal closes regardless of the outcome and the
// error is handed back for a one-time notification.
//
// The ISBN is editable only while creating. In edit mode SetField rejects it
// and updates always carry the bound book's original ISBN.
package modal
