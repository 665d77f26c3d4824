package internal

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the browsing context is re-checked
const DefaultPollInterval = 2 * time.Second

// VideoObserver consumes video id changes
type VideoObserver interface {
	ObserveVideoID(ctx context.Context, id string)
}

// Watcher polls a BrowsingContext and reports the current video id to its
// observers. Each observer diffs the id itself, so repeated reports are cheap.
type Watcher struct {
	source    BrowsingContext
	interval  time.Duration
	observers []VideoObserver
}

// NewWatcher creates a watcher polling source every interval
func NewWatcher(source BrowsingContext, interval time.Duration, observers ...VideoObserver) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		source:    source,
		interval:  interval,
		observers: observers,
	}
}

// Poll checks the browsing context once
func (w *Watcher) Poll(ctx context.Context) {
	rawURL, err := w.source.CurrentURL(ctx)
	if err != nil {
		// Keep the current session rather than flapping to Disconnected
		LogWarn("Failed to read browsing context: %v", err)
		return
	}

	id := VideoIDFromURL(rawURL)
	for _, obs := range w.observers {
		obs.ObserveVideoID(ctx, id)
	}
}

// Run polls immediately and then on every tick until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	w.Poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}
