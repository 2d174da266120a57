// Copyright 2020 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"
	"sync"

	"github.com/juju/loggo"
)

// NoopLogger satisfies the Logger interfaces of the core packages
// and discards everything.
type NoopLogger struct{}

func (NoopLogger) Criticalf(string, ...any) {}
func (NoopLogger) Errorf(string, ...any)    {}
func (NoopLogger) Warningf(string, ...any)  {}
func (NoopLogger) Infof(string, ...any)     {}
func (NoopLogger) Debugf(string, ...any)    {}
func (NoopLogger) Tracef(string, ...any)    {}

// CheckLog is an interface that can be used to log messages to a
// *testing.T or *check.C.
type CheckLog interface {
	Logf(string, ...any)
}

// CheckLogger logs to a *testing.T or *check.C.
type CheckLogger struct {
	Log CheckLog
}

// NewCheckLogger returns a CheckLogger that logs to the given CheckLog.
func NewCheckLogger(log CheckLog) CheckLogger {
	return CheckLogger{Log: log}
}

func (c CheckLogger) Criticalf(msg string, args ...any) {
	c.Logf(loggo.CRITICAL, msg, args...)
}
func (c CheckLogger) Errorf(msg string, args ...any) {
	c.Logf(loggo.ERROR, msg, args...)
}
func (c CheckLogger) Warningf(msg string, args ...any) {
	c.Logf(loggo.WARNING, msg, args...)
}
func (c CheckLogger) Infof(msg string, args ...any) {
	c.Logf(loggo.INFO, msg, args...)
}
func (c CheckLogger) Debugf(msg string, args ...any) {
	c.Logf(loggo.DEBUG, msg, args...)
}
func (c CheckLogger) Tracef(msg string, args ...any) {
	c.Logf(loggo.TRACE, msg, args...)
}
func (c CheckLogger) Logf(level loggo.Level, msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("%s: %s", level.String(), msg), args...)
}

// Entry is a single message kept by a RecordingLogger.
type Entry struct {
	Level   loggo.Level
	Message string
}

// RecordingLogger keeps every message it is given, so tests can assert on
// what a component reported.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *RecordingLogger) Criticalf(msg string, args ...any) {
	r.Logf(loggo.CRITICAL, msg, args...)
}
func (r *RecordingLogger) Errorf(msg string, args ...any) {
	r.Logf(loggo.ERROR, msg, args...)
}
func (r *RecordingLogger) Warningf(msg string, args ...any) {
	r.Logf(loggo.WARNING, msg, args...)
}
func (r *RecordingLogger) Infof(msg string, args ...any) {
	r.Logf(loggo.INFO, msg, args...)
}
func (r *RecordingLogger) Debugf(msg string, args ...any) {
	r.Logf(loggo.DEBUG, msg, args...)
}
func (r *RecordingLogger) Tracef(msg string, args ...any) {
	r.Logf(loggo.TRACE, msg, args...)
}
func (r *RecordingLogger) Logf(level loggo.Level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(msg, args...)})
}

// Messages returns the messages logged at the given level or above.
func (r *RecordingLogger) Messages(level loggo.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level >= level {
			out = append(out, e.Message)
		}
	}
	return out
}
