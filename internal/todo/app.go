// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/juju/ansiterm"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/pubsub/v2"

	"github.com/juju/skelethon/core/model"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/core/view"
	"github.com/juju/skelethon/core/watcher"
)

// Logger represents the logging methods called.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

var (
	headerColor = ansiterm.Foreground(ansiterm.Yellow)
	openColor   = ansiterm.Foreground(ansiterm.Default)
	doneColor   = ansiterm.Foreground(ansiterm.Green)
)

// AppConfig holds the dependencies of an App.
type AppConfig struct {
	Scheduler render.Scheduler
	Clock     clock.Clock

	// Hub and Topic, when set, receive a snapshot of the list after
	// every change, starting with the first Load.
	Hub   *pubsub.SimpleHub
	Topic string

	// Color enables coloured output in Render.
	Color bool

	// OnRender is called after each render of a task view.
	OnRender func(Row)

	Logger Logger
}

// Validate ensures that the config values are valid.
func (config AppConfig) Validate() error {
	if config.Scheduler == nil {
		return errors.NotValidf("missing Scheduler")
	}
	if config.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if config.Hub != nil && config.Topic == "" {
		return errors.NotValidf("Hub without Topic")
	}
	return nil
}

// App is a task list with its views. All methods must be called on the
// goroutine running the scheduler's renders.
type App struct {
	config AppConfig
	logger Logger
	views  *view.Registry
	list   *List
	stop   func()
}

// NewApp returns an app with an empty list.
func NewApp(config AppConfig) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	log := config.Logger
	if log == nil {
		log = logger
	}
	views := view.NewRegistry()
	if err := RegisterViews(views, config.OnRender); err != nil {
		return nil, errors.Trace(err)
	}
	list, err := NewList(Factory{
		Views:     views,
		Scheduler: config.Scheduler,
		Clock:     config.Clock,
		Logger:    log,
	}, log)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &App{
		config: config,
		logger: log,
		views:  views,
		list:   list,
	}, nil
}

// List returns the task list.
func (a *App) List() *List {
	return a.list
}

// Load replaces the tasks with records.
func (a *App) Load(records []model.Record) error {
	values := make([]any, len(records))
	for i, record := range records {
		values[i] = record
	}
	if err := a.list.Reset(values...); err != nil {
		return errors.Annotate(err, "loading tasks")
	}
	a.list.SortByCompletion()
	a.logger.Debugf("loaded %d tasks", len(records))

	if a.config.Hub != nil && a.stop == nil {
		a.stop = watcher.Forward(a.list, a.config.Hub, a.config.Topic, func() any {
			return a.Snapshot()
		})
	}
	return nil
}

// Close stops publishing snapshots.
func (a *App) Close() {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

// Add creates a task with the given label.
func (a *App) Add(label string) (*Todo, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, errors.NotValidf("empty label")
	}
	t, err := a.list.Add(label)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a.list.SortByCompletion()
	return t, nil
}

// Task returns the task at the 1-based position n, as listed by Render.
func (a *App) Task(n int) (*Todo, error) {
	if n < 1 || n > a.list.Len() {
		return nil, errors.NotFoundf("task %d", n)
	}
	return a.list.At(n - 1), nil
}

// SetDone marks task n as completed or not.
func (a *App) SetDone(n int, done bool) error {
	t, err := a.Task(n)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(t.SetDone(done))
}

// Rename changes the label of task n.
func (a *App) Rename(n int, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return errors.NotValidf("empty label")
	}
	t, err := a.Task(n)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(t.SetLabel(label))
}

// Remove destroys task n.
func (a *App) Remove(n int) error {
	t, err := a.Task(n)
	if err != nil {
		return errors.Trace(err)
	}
	t.Destroy()
	return nil
}

// Remaining returns the number of open tasks.
func (a *App) Remaining() int {
	return a.list.Remaining()
}

// Snapshot returns the records of all tasks, in list order. The records
// are shared with the tasks.
func (a *App) Snapshot() []model.Record {
	records := make([]model.Record, 0, a.list.Len())
	for _, t := range a.list.All() {
		records = append(records, t.Serialize())
	}
	return records
}

// Render writes the list as shown by the task views.
func (a *App) Render(w io.Writer) error {
	out := ansiterm.NewWriter(w)
	out.SetColorCapable(a.config.Color)
	if a.list.Len() == 0 {
		_, err := fmt.Fprintln(out, "Nothing to do.")
		return errors.Trace(err)
	}

	now := a.config.Clock.Now()
	table := uitable.New()
	table.MaxColWidth = 60
	table.Separator = "  "
	table.AddRow("#", "", "Task", "Created")
	var rows []Row
	for i, t := range a.list.All() {
		row := a.rowOf(t)
		rows = append(rows, row)
		created := "-"
		if !row.Created.IsZero() {
			created = humanize.RelTime(row.Created, now, "ago", "from now")
		}
		table.AddRow(i+1, checkbox(row.Done), row.Label, created)
	}

	lines := strings.Split(table.String(), "\n")
	headerColor.Fprintf(out, "%s\n", strings.TrimRight(lines[0], " "))
	for i, line := range lines[1:] {
		color := openColor
		if rows[i].Done {
			color = doneColor
		}
		color.Fprintf(out, "%s\n", strings.TrimRight(line, " "))
	}
	_, err := fmt.Fprintf(out, "%d of %d remaining\n", a.Remaining(), a.list.Len())
	return errors.Trace(err)
}

// rowOf returns what the view of t last rendered.
func (a *App) rowOf(t *Todo) Row {
	if v, ok := t.View().(*ItemView); ok {
		return v.Row()
	}
	return rowOf(t.Serialize())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
