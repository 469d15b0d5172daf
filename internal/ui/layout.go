package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the author column is hidden.
	LayoutCompactWidth = 70

	// ModalWidth is the width of the book modal and the help overlay.
	ModalWidth = 56
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the collection snapshot.
	DefaultUIInterval = 500 * time.Millisecond

	// NoticeTTL is how long a one-time notice stays in the footer.
	NoticeTTL = 4 * time.Second
)
