// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package render decides when deferred render callbacks run.
package render

import "sync"

// Scheduler defers a callback to the next frame.
type Scheduler interface {
	// Schedule arranges for f to run once, on the next frame. It never
	// runs f before returning.
	Schedule(f func())
}

// Queue is a Scheduler whose frames are triggered by hand, by calling
// Flush.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// Schedule is part of the Scheduler interface.
func (q *Queue) Schedule(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, f)
}

// Len returns the number of callbacks waiting for the next frame.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs a frame: every callback scheduled before the call, in
// order. Callbacks scheduled while flushing wait for the next frame.
// It returns the number of callbacks run.
func (q *Queue) Flush() int {
	q.mu.Lock()
	frame := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, f := range frame {
		f()
	}
	return len(frame)
}
