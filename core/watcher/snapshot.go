// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package watcher

import (
	"sync"

	"github.com/juju/pubsub/v2"
	"gopkg.in/tomb.v2"
)

// SnapshotWatcher passes on the values published on one hub topic.
// Values arriving while a previous one has not been read yet replace it.
type SnapshotWatcher[T any] struct {
	tomb    tomb.Tomb
	changes chan T
	// We can't send down a closed channel, so protect the sending
	// with a mutex and bool.
	closed bool
	mu     sync.Mutex
}

var _ Watcher[int] = (*SnapshotWatcher[int])(nil)

// NewSnapshotWatcher subscribes to topic on hub. Values of any type other
// than T are logged and dropped.
func NewSnapshotWatcher[T any](hub *pubsub.SimpleHub, topic string) *SnapshotWatcher[T] {
	w := &SnapshotWatcher[T]{
		changes: make(chan T, 1),
	}
	unsub := hub.Subscribe(topic, w.onUpdate)
	w.tomb.Go(func() error {
		<-w.tomb.Dying()
		unsub()
		return nil
	})
	return w
}

// Changes is part of the Watcher interface.
func (w *SnapshotWatcher[T]) Changes() <-chan T {
	return w.changes
}

// Kill is part of the worker.Worker interface.
func (w *SnapshotWatcher[T]) Kill() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	// The watcher must be dying before the channel is closed, so readers
	// never see a closed channel from a live watcher.
	w.tomb.Kill(nil)
	w.closed = true
	close(w.changes)
}

// Wait is part of the worker.Worker interface.
func (w *SnapshotWatcher[T]) Wait() error {
	return w.tomb.Wait()
}

func (w *SnapshotWatcher[T]) onUpdate(topic string, data interface{}) {
	value, ok := data.(T)
	if !ok {
		logger.Criticalf("programming error: %q data expected %T, got %T", topic, value, data)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// Drop any unread value; only the latest matters.
	select {
	case <-w.changes:
	default:
	}
	// Holding the mutex, nothing else sends, so this never blocks.
	w.changes <- value
}
