package pairing

import (
	"context"
	"sync"
	"time"
)

// pollInterval is how often a paused engine re-checks for resume.
const pollInterval = 100 * time.Millisecond

// Control carries the cooperative pause state for one pairing run. The engine
// polls it at a checkpoint after each outer-loop index; callers flip it from
// any goroutine. Time spent paused is accumulated so elapsed-time reporting
// can exclude it.
type Control struct {
	mu          sync.Mutex
	paused      bool
	pausedSince time.Time
	pausedTotal time.Duration
}

// NewControl returns an unpaused Control.
func NewControl() *Control {
	return &Control{}
}

// Pause requests suspension at the engine's next checkpoint.
func (c *Control) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.paused = true
		c.pausedSince = time.Now()
	}
}

// Resume lets a paused engine continue.
func (c *Control) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.paused = false
		c.pausedTotal += time.Since(c.pausedSince)
	}
}

// Toggle flips between paused and running and reports the new paused state.
func (c *Control) Toggle() bool {
	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()

	if paused {
		c.Resume()
	} else {
		c.Pause()
	}
	return !paused
}

// Paused reports whether a pause is currently requested.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// PausedDuration returns the total time spent paused so far, including the
// current pause if one is in progress.
func (c *Control) PausedDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.pausedTotal
	if c.paused {
		total += time.Since(c.pausedSince)
	}
	return total
}

// wait blocks while paused, waking periodically to re-check, and returns
// early with the context error when the run is cancelled mid-pause.
func (c *Control) wait(ctx context.Context) error {
	for c.Paused() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil
}
