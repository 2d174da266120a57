// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package watcher carries the state of models and collections off the
// goroutine that owns them.
//
// Forward publishes a deep copy of some state on a pubsub hub every time
// its owner dispatches a revision. A SnapshotWatcher subscribes to such a
// topic from any goroutine and only ever holds on to the latest
// snapshot.
package watcher

import (
	"github.com/juju/loggo"
	"github.com/juju/worker/v4"
)

var logger = loggo.GetLogger("skelethon.core.watcher")

// Watcher sends values of type T whenever the thing it watches changes.
type Watcher[T any] interface {
	worker.Worker

	// Changes returns the channel the values are sent on. The channel is
	// closed when the watcher is killed.
	Changes() <-chan T
}
