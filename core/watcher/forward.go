// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package watcher

import (
	"github.com/juju/pubsub/v2"
	"github.com/mohae/deepcopy"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/revision"
)

// Forward publishes a deep copy of snapshot() on topic each time target
// dispatches a revision, and once straight away. It returns a function
// that stops forwarding.
//
// Forward is called on the goroutine owning target; subscribers to topic
// receive values they can use from any goroutine.
func Forward(target event.Target, hub *pubsub.SimpleHub, topic string, snapshot func() any) func() {
	publish := func() {
		_ = hub.Publish(topic, deepcopy.Copy(snapshot()))
	}
	publish()
	return target.AddEventListener(revision.Type, func(event.Event) {
		publish()
	})
}
