// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo

import (
	"cmp"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/skelethon/core/collection"
	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/revision"
)

// List is a collection of tasks that keeps open tasks ahead of completed
// ones, and that drops destroyed tasks.
type List struct {
	*collection.Collection[*Todo]
}

// NewList returns an empty list creating its tasks with factory.
func NewList(factory Factory, log collection.Logger) (*List, error) {
	if err := factory.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	l := &List{}
	coll, err := collection.New(collection.Config[*Todo]{
		Events: map[string]event.Handler{
			revision.Type:  l.sortByCompletion,
			DestroyedEvent: l.destroyItem,
		},
		Coerce: factory.Coerce,
		Logger: log,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	l.Collection = coll
	return l, nil
}

// Remaining returns the number of open tasks.
func (l *List) Remaining() int {
	return l.Count(func(t *Todo) bool {
		return !t.Done()
	})
}

// Find returns the task with the given id.
func (l *List) Find(id string) (*Todo, error) {
	i := l.IndexFunc(func(t *Todo) bool {
		return t.ID() == id
	})
	if i < 0 {
		return nil, errors.NotFoundf("task %q", id)
	}
	return l.At(i), nil
}

// SortByCompletion puts open tasks first, each group ordered by label.
func (l *List) SortByCompletion() {
	l.Sort(compareTodos)
}

func (l *List) sortByCompletion(event.Event) {
	l.SortByCompletion()
}

// destroyItem removes the task whose model dispatched the event.
func (l *List) destroyItem(e event.Event) {
	i := l.IndexFunc(func(t *Todo) bool {
		return t.Model == e.Target()
	})
	if i < 0 {
		return
	}
	if err := l.Remove(l.At(i)); err != nil {
		logger.Errorf("removing destroyed task: %v", err)
	}
}

func compareTodos(a, b *Todo) int {
	return cmp.Or(
		cmp.Compare(rank(a), rank(b)),
		strings.Compare(strings.ToLower(a.Label()), strings.ToLower(b.Label())),
		a.Created().Compare(b.Created()),
	)
}

func rank(t *Todo) int {
	if t.Done() {
		return 1
	}
	return 0
}
