package internal

import (
	"context"
	"errors"
)

// AutoAnalyzer forwards video ids to a Controller and, when the autoConnect
// preference is on, starts analysis as soon as a new video is connected.
type AutoAnalyzer struct {
	controller *Controller
}

// NewAutoAnalyzer wraps c so a Watcher can drive it
func NewAutoAnalyzer(c *Controller) *AutoAnalyzer {
	return &AutoAnalyzer{controller: c}
}

func (a *AutoAnalyzer) ObserveVideoID(ctx context.Context, id string) {
	a.controller.ObserveVideoID(ctx, id)

	if id == "" || !a.controller.AutoConnect() {
		return
	}
	if a.controller.State().Status != StatusConnected {
		return
	}
	// Another observer may have started analysis between the two calls
	if err := a.controller.RequestAnalysis(ctx); err != nil && !errors.Is(err, ErrInvalidState) {
		LogWarn("Automatic analysis of %s failed to start: %v", id, err)
	}
}
