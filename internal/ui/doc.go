// Package ui implements shelf's terminal interface with Bubble Tea.
//
// The screen is a single list of books with a header (title, count and a
// spinner while anything is loading), a persistent error banner while the
// last reload failed, and a footer that shows either key hints or a
// one-time notice. A rounded modal drawn with lipgloss.Place covers the
// list while a book is being viewed, created or edited.
//
// Model holds no book data of its own. Every tick it re-reads the
// collection snapshot from the Backend, and every write goes through a
// modal.Submission executed inside a tea.Cmd so the UI goroutine never
// blocks on the network. The modal.Controller is only touched from Update.
//
// Key bindings live in keys.go; the help overlay (h or ?) lists them.
package ui
