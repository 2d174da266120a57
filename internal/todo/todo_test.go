// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/skelethon/core/event"
	"github.com/juju/skelethon/core/model"
	"github.com/juju/skelethon/core/render"
	"github.com/juju/skelethon/core/view"
	"github.com/juju/skelethon/internal/todo"
)

var epoch = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type todoSuite struct {
	clock   *testclock.Clock
	factory todo.Factory
}

var _ = gc.Suite(&todoSuite{})

func (s *todoSuite) SetUpTest(c *gc.C) {
	s.clock = testclock.NewClock(epoch)
	s.factory = todo.Factory{Clock: s.clock}
}

func (s *todoSuite) TestNewUsesTemplate(c *gc.C) {
	t, err := s.factory.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(t.Label(), gc.Equals, "Task name")
	c.Check(t.Done(), jc.IsFalse)
	c.Check(t.Created().Equal(epoch), jc.IsTrue)
	_, err = uuid.Parse(t.ID())
	c.Check(err, jc.ErrorIsNil)
}

func (s *todoSuite) TestNewOverlaysFields(c *gc.C) {
	t, err := s.factory.New(model.Record{
		"id":      "abc",
		"label":   "x",
		"created": "2020-01-02T03:04:05Z",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(t.Serialize(), jc.DeepEquals, model.Record{
		"id":      "abc",
		"label":   "x",
		"done":    false,
		"created": "2020-01-02T03:04:05Z",
	})
	c.Check(t.Created().Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)), jc.IsTrue)
}

func (s *todoSuite) TestNewDoesNotModifyFields(c *gc.C) {
	fields := model.Record{"label": "x"}
	_, err := s.factory.New(fields)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(fields, jc.DeepEquals, model.Record{"label": "x"})
}

func (s *todoSuite) TestNewBadLabel(c *gc.C) {
	_, err := s.factory.New(model.Record{"label": 3})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *todoSuite) TestUniqueIDs(c *gc.C) {
	a, err := s.factory.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	b, err := s.factory.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(a.ID(), gc.Not(gc.Equals), b.ID())
}

func (s *todoSuite) TestCoerce(c *gc.C) {
	t, err := s.factory.Coerce("Walk dog")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(t.Label(), gc.Equals, "Walk dog")

	t, err = s.factory.Coerce(model.Record{"label": "Feed cat", "done": true})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(t.Label(), gc.Equals, "Feed cat")
	c.Check(t.Done(), jc.IsTrue)

	_, err = s.factory.Coerce(42)
	c.Check(err, gc.ErrorMatches, "task from int not valid")
}

func (s *todoSuite) TestSetters(c *gc.C) {
	t, err := s.factory.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(t.SetLabel("Walk dog"), jc.ErrorIsNil)
	c.Assert(t.SetDone(true), jc.ErrorIsNil)
	c.Check(t.Label(), gc.Equals, "Walk dog")
	c.Check(t.Done(), jc.IsTrue)
}

func (s *todoSuite) TestDestroy(c *gc.C) {
	t, err := s.factory.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	var target any
	t.AddEventListener(todo.DestroyedEvent, func(e event.Event) {
		target = e.Target()
	})
	t.Destroy()
	c.Check(target, gc.Equals, t.Model)
}

func (s *todoSuite) TestFactoryValidate(c *gc.C) {
	c.Check(todo.Factory{}.Validate(), gc.ErrorMatches, "missing Clock not valid")
	f := todo.Factory{Clock: s.clock, Views: view.NewRegistry()}
	c.Check(f.Validate(), jc.Satisfies, errors.IsNotValid)
	f.Scheduler = &render.Queue{}
	c.Check(f.Validate(), jc.ErrorIsNil)
}
