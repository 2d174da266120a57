// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package render

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"gopkg.in/tomb.v2"
)

var logger = loggo.GetLogger("skelethon.core.render")

// ErrStopped is returned when work is handed to a loop that is shutting
// down.
var ErrStopped = errors.New("render loop stopped")

// DefaultFrameInterval is roughly one frame of a 60Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// Logger represents the logging methods called.
type Logger interface {
	Errorf(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

// LoopConfig holds the dependencies of a Loop.
type LoopConfig struct {
	Clock         clock.Clock
	FrameInterval time.Duration
	Logger        Logger
}

// Validate ensures that the config values are valid.
func (config LoopConfig) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if config.FrameInterval <= 0 {
		return errors.NotValidf("frame interval %v", config.FrameInterval)
	}
	if config.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	return nil
}

// Loop owns the goroutine that models, collections and views live on.
// Tasks posted to it run one at a time, and render callbacks scheduled
// on it are batched into frames one FrameInterval after the first
// callback of the frame was scheduled.
type Loop struct {
	tomb   tomb.Tomb
	config LoopConfig

	tasks chan func()
	wake  chan struct{}

	mu    sync.Mutex
	frame []func()
}

// NewLoop starts a loop.
func NewLoop(config LoopConfig) (*Loop, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	l := &Loop{
		config: config,
		tasks:  make(chan func()),
		wake:   make(chan struct{}, 1),
	}
	l.tomb.Go(l.loop)
	return l, nil
}

// Kill is part of the worker.Worker interface.
func (l *Loop) Kill() {
	l.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (l *Loop) Wait() error {
	return l.tomb.Wait()
}

// Post hands task to the loop without waiting for it to run.
func (l *Loop) Post(task func()) error {
	select {
	case l.tasks <- task:
		return nil
	case <-l.tomb.Dying():
		return ErrStopped
	}
}

// Call runs task on the loop and waits for it to finish. It must not be
// called from the loop itself.
func (l *Loop) Call(task func()) error {
	done := make(chan struct{})
	err := l.Post(func() {
		defer close(done)
		task()
	})
	if err != nil {
		return errors.Trace(err)
	}
	select {
	case <-done:
		return nil
	case <-l.tomb.Dying():
		return ErrStopped
	}
}

// Schedule is part of the Scheduler interface. It may be called from any
// goroutine.
func (l *Loop) Schedule(f func()) {
	l.mu.Lock()
	l.frame = append(l.frame, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) loop() error {
	var tick <-chan time.Time
	for {
		select {
		case <-l.tomb.Dying():
			return tomb.ErrDying
		case task := <-l.tasks:
			l.run("task", task)
		case <-l.wake:
			if tick == nil {
				tick = l.config.Clock.After(l.config.FrameInterval)
			}
		case <-tick:
			tick = nil
			l.flush()
		}
	}
}

func (l *Loop) flush() {
	l.mu.Lock()
	frame := l.frame
	l.frame = nil
	l.mu.Unlock()

	l.config.Logger.Tracef("rendering frame of %d", len(frame))
	for _, f := range frame {
		l.run("render", f)
	}
}

func (l *Loop) run(kind string, f func()) {
	defer func() {
		if p := recover(); p != nil {
			l.config.Logger.Errorf("%s panicked: %v", kind, p)
			l.config.Logger.Debugf("%s", debug.Stack())
		}
	}()
	f()
}
