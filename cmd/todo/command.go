// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"cmp"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"
	"github.com/juju/worker/v4"
	"github.com/mattn/go-isatty"

	"github.com/juju/skelethon/cmd"
	"github.com/juju/skelethon/core/model"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/internal/store"
	"github.com/juju/skelethon/internal/todo"
	"github.com/juju/skelethon/worker/persister"
)

var logger = loggo.GetLogger("skelethon.cmd.todo")

const (
	// LoggingConfigEnvKey holds the logging configuration used when
	// --logging-config is not given.
	LoggingConfigEnvKey = "SKELETHON_LOGGING_CONFIG"

	defaultConfigPath = "todo.yaml"

	// listName is the store list holding the tasks.
	listName = "todos"

	// snapshotTopic carries list snapshots to the persister.
	snapshotTopic = "todo.snapshot"
)

const todoDoc = `
Todo keeps a list of tasks in a local store. Without options it starts an
interactive session; type "help" there for the commands. Open tasks are
listed before completed ones.

The configuration file is YAML:

    db: todo.db
    frame-interval: 16ms
    save-delay: 1s
    color: true
    seed:
      - Try the todo list

Examples:

    todo
    todo --list --format json
    todo --db /tmp/tasks.db --no-color
`

type todoCommand struct {
	config        cmd.FileVar
	db            string
	noColor       bool
	list          bool
	loggingConfig string
	out           cmd.Output

	clock clock.Clock
}

func newTodoCommand() *todoCommand {
	return &todoCommand{clock: clock.WallClock}
}

// Info is part of the cmd.Command interface.
func (c *todoCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "todo",
		Purpose: "Keep a list of tasks.",
		Doc:     todoDoc,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *todoCommand) SetFlags(f *gnuflag.FlagSet) {
	f.Var(&c.config, "config", "Path of the configuration file (default "+defaultConfigPath+")")
	f.StringVar(&c.db, "db", "", "Path of the task store, overriding the configuration")
	f.BoolVar(&c.noColor, "no-color", false, "Disable coloured output")
	f.BoolVar(&c.list, "list", false, "Print the tasks and exit")
	f.StringVar(&c.loggingConfig, "logging-config", "", "Logging configuration, such as <root>=DEBUG")
	c.out.AddFlags(f, "yaml", cmd.DefaultFormatters)
}

// Init is part of the cmd.Command interface.
func (c *todoCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *todoCommand) Run(ctx *cmd.Context) error {
	loggingConfig := cmp.Or(c.loggingConfig, os.Getenv(LoggingConfigEnvKey))
	if err := loggo.ConfigureLoggers(loggingConfig); err != nil {
		return errors.Annotate(err, "configuring logging")
	}

	config, err := todo.ReadConfig(c.config.Resolve(ctx, defaultConfigPath))
	if err != nil {
		return errors.Trace(err)
	}
	if c.db != "" {
		config.DB = c.db
	}

	st, err := store.Open(ctx.AbsPath(config.DB))
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Errorf("closing store: %v", err)
		}
	}()
	records, err := st.LoadRecords(listName)
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("read %d tasks from %q", len(records), config.DB)

	if c.list {
		return errors.Trace(c.printList(ctx, records))
	}
	return errors.Trace(c.interact(ctx, config, st, records))
}

// printList writes the stored tasks, sorted as they are listed.
func (c *todoCommand) printList(ctx *cmd.Context, records []store.Record) error {
	app, err := todo.NewApp(todo.AppConfig{
		Scheduler: &render.Queue{},
		Clock:     c.clock,
		Logger:    logger,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if err := app.Load(records); err != nil {
		return errors.Trace(err)
	}
	return c.out.Write(ctx, app.Snapshot())
}

// interact runs a session until the input ends or the user quits. The
// list lives on a render loop, and its snapshots reach the store through
// a persister.
func (c *todoCommand) interact(ctx *cmd.Context, config todo.Config, st *store.Store, records []store.Record) (err error) {
	loop, err := render.NewLoop(render.LoopConfig{
		Clock:         c.clock,
		FrameInterval: config.FrameInterval,
		Logger:        loggo.GetLogger("skelethon.core.render"),
	})
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if stopErr := worker.Stop(loop); err == nil {
			err = errors.Trace(stopErr)
		}
	}()

	hub := pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
		Logger: loggo.GetLogger("skelethon.cmd.todo.hub"),
	})
	saver, err := persister.NewWorker(persister.Config{
		Hub:    hub,
		Topic:  snapshotTopic,
		Saver:  st,
		List:   listName,
		Clock:  c.clock,
		Delay:  config.SaveDelay,
		Logger: loggo.GetLogger("skelethon.worker.persister"),
	})
	if err != nil {
		return errors.Trace(err)
	}

	var app *todo.App
	callErr := loop.Call(func() {
		app, err = todo.NewApp(todo.AppConfig{
			Scheduler: loop,
			Clock:     c.clock,
			Hub:       hub,
			Topic:     snapshotTopic,
			Color:     c.useColor(ctx, config),
			Logger:    logger,
		})
		if err != nil {
			return
		}
		if err = app.Load(records); err != nil {
			return
		}
		if len(records) == 0 {
			for _, label := range config.Seed {
				if _, err = app.Add(label); err != nil {
					return
				}
			}
		}
	})
	if err = cmp.Or(callErr, err); err != nil {
		_ = worker.Stop(saver)
		return errors.Trace(err)
	}

	s := newSession(app, loop.Call, ctx.Stdout, ctx.Stderr)
	replErr := c.repl(ctx, s)

	var final []model.Record
	_ = loop.Call(func() {
		final = app.Snapshot()
		app.Close()
	})
	if err := worker.Stop(saver); err != nil {
		logger.Errorf("persister: %v", err)
	}
	if err := st.SaveRecords(listName, final); err != nil {
		return errors.Annotate(err, "saving tasks")
	}
	return errors.Trace(replErr)
}

// repl feeds the lines read from the user to s.
func (c *todoCommand) repl(ctx *cmd.Context, s *session) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "todo> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           io.NopCloser(ctx.Stdin),
		Stdout:          ctx.Stdout,
		Stderr:          ctx.Stderr,
	})
	if err != nil {
		return errors.Trace(err)
	}
	defer rl.Close()

	s.help()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Trace(err)
		}
		if !s.execute(line) {
			return nil
		}
	}
}

func (c *todoCommand) useColor(ctx *cmd.Context, config todo.Config) bool {
	if c.noColor {
		return false
	}
	if config.Color != nil {
		return *config.Color
	}
	f, ok := ctx.Stdout.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
