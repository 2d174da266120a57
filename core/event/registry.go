// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("skelethon.core.event")

// Logger is the logging interface used to report listener failures.
type Logger interface {
	Errorf(string, ...interface{})
	Tracef(string, ...interface{})
}

// ListenerOption customises a single registration.
type ListenerOption func(*registration)

// Once removes the registration after its first invocation.
func Once() ListenerOption {
	return func(r *registration) {
		r.once = true
	}
}

// WithContext ties the registration to ctx: once ctx is done the handler
// is never called again and the registration is dropped.
func WithContext(ctx context.Context) ListenerOption {
	return func(r *registration) {
		r.ctx = ctx
	}
}

type registration struct {
	handler Handler
	once    bool
	ctx     context.Context

	// removed is set when the registration leaves the registry, so that
	// snapshots taken before that skip once-only handlers.
	removed bool
}

func (r *registration) cancelled() bool {
	return r.ctx != nil && r.ctx.Err() != nil
}

// Registry keeps the ordered listeners of one object, keyed by event type.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu        sync.Mutex
	logger    Logger
	listeners map[string][]*registration
}

// NewRegistry returns an empty registry reporting listener failures to
// logger. A nil logger selects the package logger.
func NewRegistry(log Logger) *Registry {
	if log == nil {
		log = logger
	}
	return &Registry{
		logger:    log,
		listeners: make(map[string][]*registration),
	}
}

// AddEventListener is part of the Target interface.
func (r *Registry) AddEventListener(name string, handler Handler, opts ...ListenerOption) func() {
	reg := &registration{handler: handler}
	for _, opt := range opts {
		opt(reg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.cancelled() {
		return func() {}
	}
	r.store(name, append(r.prune(name), reg))
	return func() {
		r.remove(name, reg)
	}
}

// Len returns the number of live registrations for the event type.
func (r *Registry) Len(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	live := r.prune(name)
	r.store(name, live)
	return len(live)
}

// Dispatch sets the target of e and calls every listener registered for
// its type, in registration order, before returning. The set of listeners
// is fixed when dispatch starts. A listener that panics is reported and
// does not stop the others.
func (r *Registry) Dispatch(target any, e Event) {
	e.bind(target)
	name := e.Type()

	r.mu.Lock()
	snapshot := r.prune(name)
	r.store(name, snapshot)
	r.mu.Unlock()

	for _, reg := range snapshot {
		if !r.claim(name, reg) {
			continue
		}
		r.invoke(name, reg, e)
	}
}

// claim reports whether reg should still be invoked, removing once-only
// registrations before they run so that re-entrant dispatches skip them.
func (r *Registry) claim(name string, reg *registration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.cancelled() {
		r.removeLocked(name, reg)
		return false
	}
	if reg.once {
		if reg.removed {
			return false
		}
		r.removeLocked(name, reg)
	}
	return true
}

func (r *Registry) invoke(name string, reg *registration, e Event) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("%q listener failed: %v", name, p)
			r.logger.Tracef("%s", debug.Stack())
		}
	}()
	reg.handler(e)
}

func (r *Registry) remove(name string, reg *registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(name, reg)
}

// removeLocked replaces the listener slice rather than editing it in
// place, so snapshots held by running dispatches stay intact.
func (r *Registry) removeLocked(name string, reg *registration) {
	reg.removed = true
	current := r.listeners[name]
	next := make([]*registration, 0, len(current))
	for _, other := range current {
		if other != reg {
			next = append(next, other)
		}
	}
	r.store(name, next)
}

func (r *Registry) store(name string, regs []*registration) {
	if len(regs) == 0 {
		delete(r.listeners, name)
		return
	}
	r.listeners[name] = regs
}

// prune returns the live registrations for name, dropping those whose
// context is done. The returned slice is never modified in place.
func (r *Registry) prune(name string) []*registration {
	current := r.listeners[name]
	live := current[:0:0]
	for _, reg := range current {
		if reg.cancelled() {
			reg.removed = true
			continue
		}
		live = append(live, reg)
	}
	return live
}

// String is used in log and test output.
func (r *Registry) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int, len(r.listeners))
	for name, regs := range r.listeners {
		counts[name] = len(regs)
	}
	return fmt.Sprintf("registry %v", counts)
}
