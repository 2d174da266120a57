// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package model provides the observable record that views display and
// collections hold.
//
// A model owns a tree of plain data. Writes made through Data are
// reported to the model's listeners as revisions carrying the altered
// field, and each burst of writes leads to a single render of the linked
// view on the next frame.
package model

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/mohae/deepcopy"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/observe"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/core/revision"
	"github.com/juju/skelethon/core/view"
)

var logger = loggo.GetLogger("skelethon.core.model")

// Record is the data owned by a model.
type Record = map[string]any

// Logger represents the logging methods called.
type Logger interface {
	Errorf(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

// Config describes a kind of model.
type Config struct {
	// Template holds the default record. Each model starts from a deep
	// copy of it, with the fields passed to New laid over the top level.
	Template Record

	// ViewTag names the view created for each model, if any.
	ViewTag string

	// Views holds the view factories ViewTag is looked up in.
	Views *view.Registry

	// Scheduler runs the renders of the linked view.
	Scheduler render.Scheduler

	// OnUpdate replaces the default reaction to writes made through Data,
	// which is Notify.
	OnUpdate func(*Model, observe.Change)

	Logger Logger
}

// Validate ensures that the config values are valid.
func (config Config) Validate() error {
	if config.ViewTag == "" {
		return nil
	}
	if config.Views == nil {
		return errors.NotValidf("view %q without Views", config.ViewTag)
	}
	if config.Scheduler == nil {
		return errors.NotValidf("view %q without Scheduler", config.ViewTag)
	}
	return nil
}

// Model is an observable record.
//
// Models are not safe for concurrent use. Everything, the renders run by
// the scheduler included, is expected to happen on one goroutine.
type Model struct {
	registry *event.Registry
	config   Config
	logger   Logger

	record Record
	proxy  *observe.Proxy

	view      view.View
	rendering bool
}

// New returns a model whose record is the configured template overlaid
// with fields. When the config names a view, the view is created and a
// first render is enqueued.
func New(config Config, fields Record) (*Model, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	log := config.Logger
	if log == nil {
		log = logger
	}

	record := Record{}
	if config.Template != nil {
		record = deepcopy.Copy(config.Template).(Record)
	}
	for key, value := range fields {
		record[key] = value
	}

	m := &Model{
		registry: event.NewRegistry(log),
		config:   config,
		logger:   log,
		record:   record,
	}
	if config.ViewTag != "" {
		v, err := config.Views.Create(config.ViewTag, m)
		if err != nil {
			return nil, errors.Trace(err)
		}
		m.view = v
		m.EnqueueRender()
	}
	return m, nil
}

// AddEventListener is part of the event.Target interface.
func (m *Model) AddEventListener(name string, handler event.Handler, opts ...event.ListenerOption) func() {
	return m.registry.AddEventListener(name, handler, opts...)
}

// Dispatch sends e to the listeners of the model.
func (m *Model) Dispatch(e event.Event) {
	m.registry.Dispatch(m, e)
}

// Data returns the observed record. The same proxy is returned until the
// record is replaced.
func (m *Model) Data() *observe.Proxy {
	if m.proxy == nil {
		m.proxy = observe.Observe(m.record, m.WhenUpdated)
	}
	return m.proxy
}

// SetData replaces the whole record. Nothing is reported.
func (m *Model) SetData(record Record) {
	if record == nil {
		record = Record{}
	}
	m.record = record
	m.proxy = nil
}

// Serialize returns the record itself. Writes made to it are not
// reported.
func (m *Model) Serialize() Record {
	return m.record
}

// View returns the linked view, if any.
func (m *Model) View() view.View {
	return m.view
}

// WhenUpdated is called for every write made through Data.
func (m *Model) WhenUpdated(change observe.Change) {
	if m.config.OnUpdate != nil {
		m.config.OnUpdate(m, change)
		return
	}
	m.Notify(change)
}

// Notify dispatches a revision carrying change and enqueues a render.
func (m *Model) Notify(change observe.Change) {
	m.logger.Tracef("%v", change)
	m.Dispatch(revision.New().MarkAltered(change))
	m.EnqueueRender()
}

// EnqueueRender schedules a render of the linked view, unless one is
// already pending.
func (m *Model) EnqueueRender() {
	if m.rendering || m.view == nil || m.config.Scheduler == nil {
		return
	}
	m.rendering = true
	m.config.Scheduler.Schedule(m.render)
}

// RenderPending reports whether a render is waiting for its frame.
func (m *Model) RenderPending() bool {
	return m.rendering
}

func (m *Model) render() {
	defer func() {
		m.rendering = false
	}()
	m.view.Render(m.record)
}
