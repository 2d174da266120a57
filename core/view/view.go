// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package view defines how models reach the layer that displays them.
package view

import (
	"sync"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/observe"
)

// View displays the serialized data of one model.
type View interface {
	// Render is called with the raw record of the model, at most once
	// per coalesced update. It must not modify the record.
	Render(record map[string]any)
}

// Model is the part of a model visible to the view created for it.
type Model interface {
	event.Target

	// Data returns the observed record of the model.
	Data() *observe.Proxy

	// Serialize returns the raw record of the model.
	Serialize() map[string]any
}

// Factory creates the view linked to a model.
type Factory func(Model) (View, error)

// Registry maps view tags to the factories that build them.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register makes factory available under tag.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return errors.NotValidf("empty view tag")
	}
	if factory == nil {
		return errors.NotValidf("nil factory for view %q", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[tag]; ok {
		return errors.AlreadyExistsf("view %q", tag)
	}
	r.factories[tag] = factory
	return nil
}

// Create builds the view registered under tag for model.
func (r *Registry) Create(tag string, model Model) (View, error) {
	r.mu.Lock()
	factory, ok := r.factories[tag]
	r.mu.Unlock()
	if !ok {
		return nil, errors.NotFoundf("view %q", tag)
	}
	v, err := factory(model)
	if err != nil {
		return nil, errors.Annotatef(err, "creating view %q", tag)
	}
	return v, nil
}

// Tags returns the registered tags in order.
func (r *Registry) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := set.NewStrings()
	for tag := range r.factories {
		tags.Add(tag)
	}
	return tags.SortedValues()
}

// RenderFunc adapts a function to the View interface.
type RenderFunc func(map[string]any)

// Render is part of the View interface.
func (f RenderFunc) Render(record map[string]any) {
	f(record)
}
