// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package todo is a task list built on models and collections: tasks are
// models, the list keeps itself sorted as tasks change, and destroyed
// tasks leave the list on their own.
package todo

import (
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/model"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/core/view"
)

var logger = loggo.GetLogger("skelethon.internal.todo")

const (
	// DestroyedEvent is dispatched by a task that is to be discarded.
	DestroyedEvent = "destroyed"

	// ViewTag names the view showing a single task.
	ViewTag = "todo-view"
)

// Record fields.
const (
	FieldID      = "id"
	FieldLabel   = "label"
	FieldDone    = "done"
	FieldCreated = "created"
)

// Template returns the default record of a task.
func Template() model.Record {
	return model.Record{
		FieldLabel: "Task name",
		FieldDone:  false,
	}
}

// Todo is a single task.
type Todo struct {
	*model.Model
}

// ID returns the unique id of the task.
func (t *Todo) ID() string {
	return t.Data().String(FieldID)
}

// Label returns the description of the task.
func (t *Todo) Label() string {
	return t.Data().String(FieldLabel)
}

// Done reports whether the task has been completed.
func (t *Todo) Done() bool {
	return t.Data().Bool(FieldDone)
}

// Created returns when the task was created, or the zero time if the
// record holds no valid time.
func (t *Todo) Created() time.Time {
	return parseCreated(t.Serialize())
}

// SetLabel changes the description.
func (t *Todo) SetLabel(label string) error {
	return errors.Trace(t.Data().Set(FieldLabel, label))
}

// SetDone marks the task as completed or not.
func (t *Todo) SetDone(done bool) error {
	return errors.Trace(t.Data().Set(FieldDone, done))
}

// Destroy asks every list holding the task to drop it.
func (t *Todo) Destroy() {
	t.Dispatch(event.New(DestroyedEvent))
}

// Factory creates tasks.
type Factory struct {
	// Views, when set, gives each task a view.
	Views     *view.Registry
	Scheduler render.Scheduler
	Clock     clock.Clock
	Logger    model.Logger
}

// Validate ensures that the factory can create tasks.
func (f Factory) Validate() error {
	if f.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if f.Views != nil && f.Scheduler == nil {
		return errors.NotValidf("Views without Scheduler")
	}
	return nil
}

// New returns a task made of the default record overlaid with fields.
// Missing ids and creation times are filled in.
func (f Factory) New(fields model.Record) (*Todo, error) {
	record := model.Record{}
	for key, value := range fields {
		record[key] = value
	}
	if id, _ := record[FieldID].(string); id == "" {
		record[FieldID] = uuid.NewString()
	}
	if _, ok := record[FieldCreated].(string); !ok {
		record[FieldCreated] = f.Clock.Now().UTC().Format(time.RFC3339)
	}
	if label, ok := record[FieldLabel]; ok {
		if _, ok := label.(string); !ok {
			return nil, errors.NotValidf("label of type %T", label)
		}
	}

	config := model.Config{
		Template: Template(),
		Logger:   f.Logger,
	}
	if f.Views != nil {
		config.ViewTag = ViewTag
		config.Views = f.Views
		config.Scheduler = f.Scheduler
	}
	m, err := model.New(config, record)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Todo{Model: m}, nil
}

// Coerce turns a label or a record into a task.
func (f Factory) Coerce(value any) (*Todo, error) {
	switch v := value.(type) {
	case string:
		return f.New(model.Record{FieldLabel: v})
	case model.Record:
		return f.New(v)
	}
	return nil, errors.NotValidf("task from %T", value)
}

func parseCreated(record model.Record) time.Time {
	s, _ := record[FieldCreated].(string)
	created, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return created
}
