// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo_test

import (
	"bytes"
	"strings"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4/workertest"
	gc "gopkg.in/check.v1"

	"github.com/juju/skelethon/core/model"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/core/watcher"
	"github.com/juju/skelethon/internal/todo"
	coretesting "github.com/juju/skelethon/testing"
)

type appSuite struct {
	clock   *testclock.Clock
	queue   *render.Queue
	renders []todo.Row
	app     *todo.App
}

var _ = gc.Suite(&appSuite{})

func (s *appSuite) SetUpTest(c *gc.C) {
	s.clock = testclock.NewClock(epoch)
	s.queue = &render.Queue{}
	s.renders = nil
	s.app = s.newApp(c, todo.AppConfig{})
}

func (s *appSuite) newApp(c *gc.C, config todo.AppConfig) *todo.App {
	config.Scheduler = s.queue
	config.Clock = s.clock
	config.OnRender = func(row todo.Row) {
		s.renders = append(s.renders, row)
	}
	config.Logger = coretesting.NoopLogger{}
	app, err := todo.NewApp(config)
	c.Assert(err, jc.ErrorIsNil)
	return app
}

func (s *appSuite) render(c *gc.C) string {
	var buf bytes.Buffer
	c.Assert(s.app.Render(&buf), jc.ErrorIsNil)
	return buf.String()
}

func (s *appSuite) TestValidate(c *gc.C) {
	_, err := todo.NewApp(todo.AppConfig{Clock: s.clock})
	c.Check(err, gc.ErrorMatches, "missing Scheduler not valid")
	_, err = todo.NewApp(todo.AppConfig{Scheduler: s.queue})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	_, err = todo.NewApp(todo.AppConfig{
		Scheduler: s.queue,
		Clock:     s.clock,
		Hub:       pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{}),
	})
	c.Check(err, gc.ErrorMatches, "Hub without Topic not valid")
}

func (s *appSuite) TestAddAndRender(c *gc.C) {
	_, err := s.app.Add("  Walk dog ")
	c.Assert(err, jc.ErrorIsNil)
	_, err = s.app.Add("Buy milk")
	c.Assert(err, jc.ErrorIsNil)

	s.clock.Advance(3 * time.Minute)
	out := s.render(c)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	c.Assert(lines, gc.HasLen, 4)
	c.Check(lines[0], gc.Matches, `#\s+Task\s+Created`)
	c.Check(lines[1], gc.Matches, `1\s+\[ \]\s+Buy milk\s+3 minutes ago`)
	c.Check(lines[2], gc.Matches, `2\s+\[ \]\s+Walk dog\s+3 minutes ago`)
	c.Check(lines[3], gc.Equals, "2 of 2 remaining")
	c.Check(out, gc.Not(jc.Contains), "\x1b[")
}

func (s *appSuite) TestRenderEmpty(c *gc.C) {
	c.Check(s.render(c), gc.Equals, "Nothing to do.\n")
}

func (s *appSuite) TestRenderColor(c *gc.C) {
	s.app = s.newApp(c, todo.AppConfig{Color: true})
	_, err := s.app.Add("Walk dog")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.render(c), jc.Contains, "\x1b[")
}

func (s *appSuite) TestEmptyLabel(c *gc.C) {
	_, err := s.app.Add("   ")
	c.Check(err, jc.Satisfies, errors.IsNotValid)

	_, err = s.app.Add("Walk dog")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.app.Rename(1, ""), jc.Satisfies, errors.IsNotValid)
}

func (s *appSuite) TestTaskOutOfRange(c *gc.C) {
	for _, n := range []int{0, 1, -1} {
		_, err := s.app.Task(n)
		c.Check(err, jc.Satisfies, errors.IsNotFound)
	}
	c.Check(s.app.SetDone(1, true), gc.ErrorMatches, "task 1 not found")
	c.Check(s.app.Remove(1), jc.Satisfies, errors.IsNotFound)
}

func (s *appSuite) TestViewsShowLastFrame(c *gc.C) {
	_, err := s.app.Add("Walk dog")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.queue.Flush(), gc.Equals, 1)
	c.Check(s.renders, gc.HasLen, 1)

	c.Assert(s.app.SetDone(1, true), jc.ErrorIsNil)
	c.Assert(s.app.Rename(1, "Walk cat"), jc.ErrorIsNil)
	c.Check(s.render(c), jc.Contains, "[ ]  Walk dog")

	c.Check(s.queue.Flush(), gc.Equals, 1)
	c.Assert(s.renders, gc.HasLen, 2)
	c.Check(s.renders[1].Label, gc.Equals, "Walk cat")
	c.Check(s.renders[1].Done, jc.IsTrue)
	out := s.render(c)
	c.Check(out, jc.Contains, "[x]  Walk cat")
	c.Check(out, jc.Contains, "0 of 1 remaining")
}

func (s *appSuite) TestDoneTasksSinkAndRemove(c *gc.C) {
	for _, label := range []string{"a", "b", "c"} {
		_, err := s.app.Add(label)
		c.Assert(err, jc.ErrorIsNil)
	}
	c.Assert(s.app.SetDone(1, true), jc.ErrorIsNil)
	c.Check(labels(s.app.List()), jc.DeepEquals, []string{"b", "c", "a"})
	c.Check(s.app.Remaining(), gc.Equals, 2)

	c.Assert(s.app.Remove(3), jc.ErrorIsNil)
	c.Check(labels(s.app.List()), jc.DeepEquals, []string{"b", "c"})
	c.Check(s.app.Remaining(), gc.Equals, 2)
}

func (s *appSuite) TestLoadAndSnapshot(c *gc.C) {
	records := []model.Record{
		{"id": "1", "label": "b", "done": true, "created": "2026-01-01T00:00:00Z"},
		{"id": "2", "label": "a", "done": false, "created": "2026-01-02T00:00:00Z"},
	}
	c.Assert(s.app.Load(records), jc.ErrorIsNil)
	c.Check(s.app.Snapshot(), jc.DeepEquals, []model.Record{records[1], records[0]})

	err := s.app.Load([]model.Record{{"label": 7}})
	c.Check(err, gc.ErrorMatches, "loading tasks: .*")
	c.Check(s.app.List().Len(), gc.Equals, 2)
}

func (s *appSuite) TestPublishesSnapshots(c *gc.C) {
	hub := pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
		Logger: loggo.GetLogger("skelethon.test.hub"),
	})
	w := watcher.NewSnapshotWatcher[[]model.Record](hub, "todos")
	defer workertest.CleanKill(c, w)

	s.app = s.newApp(c, todo.AppConfig{Hub: hub, Topic: "todos"})
	defer s.app.Close()
	c.Assert(s.app.Load(nil), jc.ErrorIsNil)
	_, err := s.app.Add("Walk dog")
	c.Assert(err, jc.ErrorIsNil)

	timeout := time.After(coretesting.LongWait)
	for {
		select {
		case records := <-w.Changes():
			if len(records) == 0 {
				continue
			}
			c.Assert(records, gc.HasLen, 1)
			c.Check(records[0]["label"], gc.Equals, "Walk dog")
			return
		case <-timeout:
			c.Fatalf("no snapshot published")
		}
	}
}
