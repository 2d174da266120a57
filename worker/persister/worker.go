// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package persister saves the snapshots published on a hub topic to a
// record store, at most once per configured delay.
package persister

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/pubsub/v2"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"

	"github.com/juju/skelethon/core/watcher"
	"github.com/juju/skelethon/internal/store"
)

// Logger represents the logging methods called.
type Logger interface {
	Errorf(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

// Saver is the part of the store used by the worker.
type Saver interface {
	SaveRecords(name string, records []store.Record) error
}

// Config holds the dependencies and settings of the worker.
type Config struct {
	Hub    *pubsub.SimpleHub
	Topic  string
	Saver  Saver
	List   string
	Clock  clock.Clock
	Delay  time.Duration
	Logger Logger
}

// Validate ensures that the config values are valid.
func (config Config) Validate() error {
	if config.Hub == nil {
		return errors.NotValidf("missing Hub")
	}
	if config.Topic == "" {
		return errors.NotValidf("missing Topic")
	}
	if config.Saver == nil {
		return errors.NotValidf("missing Saver")
	}
	if config.List == "" {
		return errors.NotValidf("missing List")
	}
	if config.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if config.Delay < 0 {
		return errors.NotValidf("negative Delay")
	}
	if config.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	return nil
}

type persister struct {
	catacomb catacomb.Catacomb
	config   Config
	watcher  *watcher.SnapshotWatcher[[]store.Record]
}

// NewWorker starts a worker saving the snapshots published on
// config.Topic. A snapshot still waiting for its delay when the worker
// is killed is saved before the worker stops.
func NewWorker(config Config) (worker.Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &persister{
		config:  config,
		watcher: watcher.NewSnapshotWatcher[[]store.Record](config.Hub, config.Topic),
	}
	err := catacomb.Invoke(catacomb.Plan{
		Site: &w.catacomb,
		Work: w.loop,
		Init: []worker.Worker{w.watcher},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *persister) Kill() {
	w.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *persister) Wait() error {
	return w.catacomb.Wait()
}

func (w *persister) loop() error {
	var (
		pending []store.Record
		dirty   bool
		timer   <-chan time.Time
		changes = w.watcher.Changes()
	)
	for {
		select {
		case <-w.catacomb.Dying():
			if dirty {
				if err := w.save(pending); err != nil {
					return errors.Trace(err)
				}
			}
			return w.catacomb.ErrDying()
		case records, ok := <-changes:
			if !ok {
				select {
				case <-w.catacomb.Dying():
					// Killed along with us; save on the way out.
					changes = nil
					continue
				default:
					return errors.New("snapshot watcher closed")
				}
			}
			pending, dirty = records, true
			if timer == nil {
				timer = w.config.Clock.After(w.config.Delay)
			}
		case <-timer:
			timer = nil
			if err := w.save(pending); err != nil {
				return errors.Trace(err)
			}
			pending, dirty = nil, false
		}
	}
}

func (w *persister) save(records []store.Record) error {
	w.config.Logger.Debugf("saving %d records to %q", len(records), w.config.List)
	return errors.Annotate(w.config.Saver.SaveRecords(w.config.List, records), "saving snapshot")
}
