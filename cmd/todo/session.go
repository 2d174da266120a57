// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/juju/errors"
	"github.com/kr/pretty"

	"github.com/juju/skelethon/internal/todo"
)

type action struct {
	name    string
	args    string
	purpose string
	run     func(s *session, args string) error
}

var actions []action

func init() {
	actions = []action{
		{"add", "<task>", "add a task", (*session).add},
		{"done", "<n>", "mark task n as completed", (*session).done},
		{"undo", "<n>", "mark task n as open", (*session).undo},
		{"edit", "<n> <task>", "rename task n", (*session).edit},
		{"rm", "<n>", "remove task n", (*session).remove},
		{"ls", "", "list the tasks", (*session).list},
		{"dump", "", "show the stored records", (*session).dump},
		{"help", "", "show this help", (*session).helpAction},
	}
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(actions)+1)
	for _, a := range actions {
		items = append(items, readline.PcItem(a.name))
	}
	items = append(items, readline.PcItem("quit"))
	return readline.NewPrefixCompleter(items...)
}

// session runs the commands typed by the user against an app. Every
// access to the app goes through call, which runs on the app's goroutine.
type session struct {
	app    *todo.App
	call   func(func()) error
	stdout io.Writer
	stderr io.Writer
}

func newSession(app *todo.App, call func(func()) error, stdout, stderr io.Writer) *session {
	return &session{
		app:    app,
		call:   call,
		stdout: stdout,
		stderr: stderr,
	}
}

// execute runs one line of input, returning false once the user quits.
func (s *session) execute(line string) bool {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)
	switch name {
	case "":
		return true
	case "quit", "exit":
		return false
	}
	for _, a := range actions {
		if a.name != name {
			continue
		}
		if err := a.run(s, args); err != nil {
			fmt.Fprintf(s.stderr, "ERROR %v\n", err)
		}
		return true
	}
	fmt.Fprintf(s.stderr, "ERROR unknown command %q, try \"help\"\n", name)
	return true
}

// do runs f on the app goroutine.
func (s *session) do(f func() error) error {
	var err error
	if callErr := s.call(func() { err = f() }); callErr != nil {
		return errors.Trace(callErr)
	}
	return err
}

func (s *session) add(args string) error {
	return s.do(func() error {
		t, err := s.app.Add(args)
		if err != nil {
			return errors.Trace(err)
		}
		logger.Debugf("added task %s", t.ID())
		return nil
	})
}

func (s *session) done(args string) error {
	return s.setDone(args, true)
}

func (s *session) undo(args string) error {
	return s.setDone(args, false)
}

func (s *session) setDone(args string, done bool) error {
	n, err := taskNumber(args)
	if err != nil {
		return errors.Trace(err)
	}
	return s.do(func() error {
		return s.app.SetDone(n, done)
	})
}

func (s *session) edit(args string) error {
	number, label, _ := strings.Cut(args, " ")
	n, err := taskNumber(number)
	if err != nil {
		return errors.Trace(err)
	}
	return s.do(func() error {
		return s.app.Rename(n, label)
	})
}

func (s *session) remove(args string) error {
	n, err := taskNumber(args)
	if err != nil {
		return errors.Trace(err)
	}
	return s.do(func() error {
		return s.app.Remove(n)
	})
}

func (s *session) list(string) error {
	return s.do(func() error {
		return s.app.Render(s.stdout)
	})
}

func (s *session) dump(string) error {
	return s.do(func() error {
		_, err := pretty.Fprintf(s.stdout, "%# v\n", s.app.Snapshot())
		return errors.Trace(err)
	})
}

func (s *session) helpAction(string) error {
	s.help()
	return nil
}

func (s *session) help() {
	fmt.Fprintln(s.stdout, "Commands:")
	for _, a := range actions {
		fmt.Fprintf(s.stdout, "  %-16s %s\n", strings.TrimSpace(a.name+" "+a.args), a.purpose)
	}
	fmt.Fprintf(s.stdout, "  %-16s %s\n", "quit", "save and leave")
}

// taskNumber parses the 1-based position shown by "ls".
func taskNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.NotValidf("task number %q", arg)
	}
	return n, nil
}
