// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package event provides the listener registry shared by models and
// collections, and the Event values dispatched through it.
package event

// Event is a notification dispatched to the listeners of a target.
// Implementations embed Base, which is the only way to satisfy the
// unexported part of the interface.
type Event interface {
	// Type returns the name listeners subscribe to.
	Type() string

	// Target returns the object the event was last dispatched on,
	// or nil if it has not been dispatched yet.
	Target() any

	bind(target any)
}

// Handler is called with each event dispatched to a listener.
type Handler func(Event)

// Target is implemented by anything that dispatches events to listeners.
// Collections use it to detect members they can subscribe to.
type Target interface {
	// AddEventListener registers handler for events of the given type,
	// returning a function that removes the registration again.
	AddEventListener(name string, handler Handler, opts ...ListenerOption) func()
}

// Base carries the type and target of an event.
type Base struct {
	name   string
	target any
}

// NewBase returns a Base for events of the given type.
func NewBase(name string) Base {
	return Base{name: name}
}

// Type is part of the Event interface.
func (b *Base) Type() string {
	return b.name
}

// Target is part of the Event interface.
func (b *Base) Target() any {
	return b.target
}

func (b *Base) bind(target any) {
	b.target = target
}

// Basic is an event carrying nothing but its type, such as a lifecycle
// notification.
type Basic struct {
	Base
}

// New returns a Basic event of the given type.
func New(name string) *Basic {
	return &Basic{Base: NewBase(name)}
}
