package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/shelf/internal/state"
)

const maxBackoff = 30 * time.Second

// reloader is the part of the collection synchronizer the poller drives.
type reloader interface {
	Reload(ctx context.Context) error
	Snapshot() state.Snapshot
}

// StartPoller launches a background goroutine that reloads the collection
// every interval, backing off while the catalog keeps failing. A zero or
// negative interval disables background refresh. It returns immediately.
func StartPoller(ctx context.Context, books reloader, interval time.Duration) {
	if interval <= 0 || books == nil {
		return
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := books.Reload(ctx); err != nil && ctx.Err() != nil {
				return
			}
			next := calculateBackoff(books.Snapshot().ConsecutiveFailures, interval)
			if next != interval {
				log.Printf("catalog unreachable, next refresh in %s", next)
			}
			timer.Reset(next)
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
