// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package revision defines the event that batches everything one mutating
// operation did to a model or collection.
package revision

import (
	"fmt"
	"strings"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/observe"
)

// Type is the event type of every revision.
const Type = "revised"

// Entry records an item that entered or left a collection.
type Entry struct {
	Item       any
	Collection any
}

// Event describes one logical mutation. Any subset of its fields may be
// populated; an Event is built fresh for each operation and not retained.
type Event struct {
	event.Base

	Added     []Entry
	Removed   []Entry
	Altered   []observe.Change
	Reordered bool
}

// New returns an empty revision.
func New() *Event {
	return &Event{Base: event.NewBase(Type)}
}

// MarkItemAdded records item as added to coll.
func (e *Event) MarkItemAdded(item, coll any) *Event {
	e.Added = append(e.Added, Entry{Item: item, Collection: coll})
	return e
}

// MarkAdded records every one of items as added to coll.
func (e *Event) MarkAdded(items []any, coll any) *Event {
	for _, item := range items {
		e.MarkItemAdded(item, coll)
	}
	return e
}

// MarkItemRemoved records item as removed from coll.
func (e *Event) MarkItemRemoved(item, coll any) *Event {
	e.Removed = append(e.Removed, Entry{Item: item, Collection: coll})
	return e
}

// MarkRemoved records every one of items as removed from coll.
func (e *Event) MarkRemoved(items []any, coll any) *Event {
	for _, item := range items {
		e.MarkItemRemoved(item, coll)
	}
	return e
}

// MarkAltered records a single field change.
func (e *Event) MarkAltered(change observe.Change) *Event {
	e.Altered = append(e.Altered, change)
	return e
}

// MarkReordered sets the reorder flag.
func (e *Event) MarkReordered(reordered bool) *Event {
	e.Reordered = reordered
	return e
}

// AddedItems returns the added items, without their collections.
func (e *Event) AddedItems() []any {
	return items(e.Added)
}

// RemovedItems returns the removed items, without their collections.
func (e *Event) RemovedItems() []any {
	return items(e.Removed)
}

// Empty reports whether the revision records nothing at all.
func (e *Event) Empty() bool {
	return len(e.Added) == 0 && len(e.Removed) == 0 && len(e.Altered) == 0 && !e.Reordered
}

func (e *Event) String() string {
	var parts []string
	if n := len(e.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("added %d", n))
	}
	if n := len(e.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("removed %d", n))
	}
	for _, change := range e.Altered {
		parts = append(parts, change.String())
	}
	if e.Reordered {
		parts = append(parts, "reordered")
	}
	if len(parts) == 0 {
		return "revision (empty)"
	}
	return "revision (" + strings.Join(parts, "; ") + ")"
}

func items(entries []Entry) []any {
	if len(entries) == 0 {
		return nil
	}
	result := make([]any, len(entries))
	for i, entry := range entries {
		result[i] = entry.Item
	}
	return result
}
