// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package collection provides an ordered container that reports every
// mutating operation as a single revision, and that listens to the events
// of the members it holds.
package collection

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/revision"
)

var logger = loggo.GetLogger("skelethon.core.collection")

// Logger represents the logging methods called.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Tracef(string, ...interface{})
}

// Config holds the declarative setup of a collection.
type Config[T any] struct {
	// Events maps the event types of members to the handler the
	// collection attaches for them. Only members implementing
	// event.Target are subscribed.
	Events map[string]event.Handler

	// Coerce converts raw values passed to Add, Reset and From into
	// members. Values that already are a T are used as they are.
	Coerce func(any) (T, error)

	// Bubble re-dispatches the revisions of members on the collection
	// itself, carrying the same additions, removals and alterations.
	Bubble bool

	Logger Logger
}

// Validate checks the configuration.
func (config Config[T]) Validate() error {
	for name, handler := range config.Events {
		if name == "" {
			return errors.NotValidf("empty event type")
		}
		if handler == nil {
			return errors.NotValidf("nil handler for %q", name)
		}
	}
	return nil
}

// subscription is the set of handlers attached to one member, shared by
// every position the member occupies.
type subscription struct {
	count  int
	remove []func()
}

// Collection is an ordered sequence of members of type T.
//
// Collections are not safe for concurrent use; all access is expected to
// happen on a single goroutine.
type Collection[T any] struct {
	items    []T
	registry *event.Registry
	logger   Logger

	events   []string
	handlers map[string]event.Handler
	coerce   func(any) (T, error)
	bubble   bool

	subscriptions map[any]*subscription
}

// New returns an empty collection.
func New[T any](config Config[T]) (*Collection[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	log := config.Logger
	if log == nil {
		log = logger
	}
	c := &Collection[T]{
		registry:      event.NewRegistry(log),
		logger:        log,
		handlers:      make(map[string]event.Handler, len(config.Events)),
		coerce:        config.Coerce,
		bubble:        config.Bubble,
		subscriptions: make(map[any]*subscription),
	}
	names := set.NewStrings()
	for name, handler := range config.Events {
		names.Add(name)
		c.handlers[name] = handler
	}
	c.events = names.SortedValues()

	// This must be the first revision listener, so that members are
	// subscribed before anyone else hears about them.
	c.registry.AddEventListener(revision.Type, c.autoSubscribe)
	return c, nil
}

// From returns a collection holding values, each coerced as by Add.
func From[T any](config Config[T], values ...any) (*Collection[T], error) {
	c, err := New(config)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := c.Reset(values...); err != nil {
		return nil, errors.Trace(err)
	}
	return c, nil
}

// AddEventListener is part of the event.Target interface.
func (c *Collection[T]) AddEventListener(name string, handler event.Handler, opts ...event.ListenerOption) func() {
	return c.registry.AddEventListener(name, handler, opts...)
}

// Dispatch sends e to the listeners of the collection.
func (c *Collection[T]) Dispatch(e event.Event) {
	c.registry.Dispatch(c, e)
}

// Len returns the number of members.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns the member at index i, which must be in range.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Items returns a copy of the members.
func (c *Collection[T]) Items() []T {
	return slices.Clone(c.items)
}

// All iterates over the members with their indexes.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// IndexOf returns the first index of item, or -1. Members are compared by
// identity, so only comparable members can be found.
func (c *Collection[T]) IndexOf(item T) int {
	if !isComparable(item) {
		return -1
	}
	return slices.IndexFunc(c.items, func(other T) bool {
		return isComparable(other) && any(other) == any(item)
	})
}

// IndexFunc returns the first index whose member satisfies f, or -1.
func (c *Collection[T]) IndexFunc(f func(T) bool) int {
	return slices.IndexFunc(c.items, f)
}

// Count returns the number of members satisfying f.
func (c *Collection[T]) Count(f func(T) bool) int {
	n := 0
	for _, item := range c.items {
		if f(item) {
			n++
		}
	}
	return n
}

// Add coerces value to a member and appends it.
func (c *Collection[T]) Add(value any) (T, error) {
	item, err := c.coerceValue(value)
	if err != nil {
		return item, errors.Trace(err)
	}
	c.items = append(c.items, item)
	c.Dispatch(revision.New().MarkItemAdded(item, c))
	return item, nil
}

// Remove removes the first occurrence of item.
func (c *Collection[T]) Remove(item T) error {
	i := c.IndexOf(item)
	if i < 0 {
		return errors.NotFoundf("member %v", item)
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.Dispatch(revision.New().MarkItemRemoved(item, c))
	return nil
}

// Reset replaces all members with values, each coerced as by Add. Nothing
// changes if any value cannot be coerced. A revision is dispatched even
// when the collection was and stays empty.
func (c *Collection[T]) Reset(values ...any) error {
	items := make([]T, 0, len(values))
	for i, value := range values {
		item, err := c.coerceValue(value)
		if err != nil {
			return errors.Annotatef(err, "value %d", i)
		}
		items = append(items, item)
	}
	old := c.items
	c.items = items
	c.Dispatch(revision.New().
		MarkAdded(boxed(items), c).
		MarkRemoved(boxed(old), c))
	return nil
}

// Push appends items.
func (c *Collection[T]) Push(items ...T) int {
	if len(items) > 0 {
		c.items = append(c.items, items...)
		c.Dispatch(revision.New().MarkAdded(boxed(items), c))
	}
	return len(c.items)
}

// Pop removes and returns the last member. It reports false, and
// dispatches nothing, when the collection is empty.
func (c *Collection[T]) Pop() (T, bool) {
	var item T
	n := len(c.items)
	if n == 0 {
		return item, false
	}
	item = c.items[n-1]
	c.items = slices.Delete(c.items, n-1, n)
	c.Dispatch(revision.New().MarkItemRemoved(item, c))
	return item, true
}

// Shift removes and returns the first member. It reports false, and
// dispatches nothing, when the collection is empty.
func (c *Collection[T]) Shift() (T, bool) {
	var item T
	if len(c.items) == 0 {
		return item, false
	}
	item = c.items[0]
	c.items = slices.Delete(c.items, 0, 1)
	c.Dispatch(revision.New().MarkItemRemoved(item, c))
	return item, true
}

// Unshift inserts items at the head.
func (c *Collection[T]) Unshift(items ...T) int {
	if len(items) > 0 {
		c.items = slices.Insert(c.items, 0, items...)
		c.Dispatch(revision.New().MarkAdded(boxed(items), c))
	}
	return len(c.items)
}

// Splice removes up to count members starting at index at, inserts items
// in their place and returns the removed members.
func (c *Collection[T]) Splice(at, count int, items ...T) ([]T, error) {
	if at < 0 || at > len(c.items) {
		return nil, errors.NotValidf("index %d of %d members", at, len(c.items))
	}
	if count < 0 {
		return nil, errors.NotValidf("negative count %d", count)
	}
	end := min(at+count, len(c.items))
	removed := slices.Clone(c.items[at:end])
	if len(removed) == 0 && len(items) == 0 {
		return nil, nil
	}
	c.items = slices.Replace(c.items, at, end, items...)
	c.Dispatch(revision.New().
		MarkRemoved(boxed(removed), c).
		MarkAdded(boxed(items), c))
	return removed, nil
}

// Fill overwrites the members from start up to, but not including, end
// with value.
func (c *Collection[T]) Fill(value T, start, end int) error {
	if start < 0 || end > len(c.items) || start > end {
		return errors.NotValidf("range [%d, %d) of %d members", start, end, len(c.items))
	}
	if start == end {
		return nil
	}
	removed := slices.Clone(c.items[start:end])
	for i := start; i < end; i++ {
		c.items[i] = value
	}
	c.Dispatch(revision.New().
		MarkRemoved(boxed(removed), c).
		MarkAdded(boxed(c.items[start:end]), c))
	return nil
}

// Sort orders the members by cmp, keeping equal members in their current
// order.
func (c *Collection[T]) Sort(cmp func(a, b T) int) {
	slices.SortStableFunc(c.items, cmp)
	c.Dispatch(revision.New().MarkReordered(true))
}

func (c *Collection[T]) String() string {
	return fmt.Sprintf("collection of %d", len(c.items))
}

func (c *Collection[T]) coerceValue(value any) (T, error) {
	if item, ok := value.(T); ok {
		return item, nil
	}
	var zero T
	if c.coerce == nil {
		return zero, errors.NotValidf("member of type %T", value)
	}
	item, err := c.coerce(value)
	if err != nil {
		return zero, errors.NewNotValid(err, fmt.Sprintf("coercing %T", value))
	}
	return item, nil
}

// autoSubscribe keeps the declared handlers attached to the members that
// entered or left through one of the collection's own operations.
// Additions are processed first, so a member that is both removed and
// added by the same operation stays subscribed.
func (c *Collection[T]) autoSubscribe(e event.Event) {
	rev, ok := e.(*revision.Event)
	if !ok {
		return
	}
	for _, entry := range rev.Added {
		if entry.Collection == any(c) {
			c.attach(entry.Item)
		}
	}
	for _, entry := range rev.Removed {
		if entry.Collection == any(c) {
			c.detach(entry.Item)
		}
	}
}

func (c *Collection[T]) attach(item any) {
	target, ok := c.member(item)
	if !ok {
		return
	}
	sub := c.subscriptions[item]
	if sub == nil {
		sub = &subscription{}
		for _, name := range c.events {
			sub.remove = append(sub.remove, target.AddEventListener(name, c.handlers[name]))
		}
		if c.bubble {
			sub.remove = append(sub.remove, target.AddEventListener(revision.Type, c.bubbleRevision))
		}
		c.subscriptions[item] = sub
		c.logger.Tracef("subscribed to %v", item)
	}
	sub.count++
}

func (c *Collection[T]) detach(item any) {
	if _, ok := c.member(item); !ok {
		return
	}
	sub := c.subscriptions[item]
	if sub == nil {
		return
	}
	sub.count--
	if sub.count > 0 {
		return
	}
	for _, remove := range sub.remove {
		remove()
	}
	delete(c.subscriptions, item)
	c.logger.Tracef("unsubscribed from %v", item)
}

// member returns item as an event target when the collection can track
// its subscriptions.
func (c *Collection[T]) member(item any) (event.Target, bool) {
	target, ok := item.(event.Target)
	if !ok || isNil(item) {
		return nil, false
	}
	if !isComparable(item) {
		c.logger.Warningf("not subscribing to member of non comparable type %T", item)
		return nil, false
	}
	return target, true
}

func (c *Collection[T]) bubbleRevision(e event.Event) {
	rev, ok := e.(*revision.Event)
	if !ok {
		return
	}
	derived := revision.New()
	derived.Added = slices.Clone(rev.Added)
	derived.Removed = slices.Clone(rev.Removed)
	derived.Altered = slices.Clone(rev.Altered)
	c.Dispatch(derived)
}

func boxed[T any](items []T) []any {
	result := make([]any, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}

func isComparable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
