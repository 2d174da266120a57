// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/skelethon/internal/todo"
)

type configSuite struct{}

var _ = gc.Suite(&configSuite{})

func (s *configSuite) TestDefaults(c *gc.C) {
	config := todo.DefaultConfig()
	c.Check(config.Validate(), jc.ErrorIsNil)
	c.Check(config.DB, gc.Equals, "todo.db")
	c.Check(config.FrameInterval, gc.Equals, 16*time.Millisecond)
	c.Check(config.SaveDelay, gc.Equals, time.Second)
	c.Check(config.Color, gc.IsNil)
}

func (s *configSuite) TestParse(c *gc.C) {
	config, err := todo.ParseConfig([]byte(`
db: /tmp/tasks.db
save-delay: 5s
color: false
seed:
  - Walk dog
  - Buy milk
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config.DB, gc.Equals, "/tmp/tasks.db")
	c.Check(config.FrameInterval, gc.Equals, 16*time.Millisecond)
	c.Check(config.SaveDelay, gc.Equals, 5*time.Second)
	c.Assert(config.Color, gc.NotNil)
	c.Check(*config.Color, jc.IsFalse)
	c.Check(config.Seed, jc.DeepEquals, []string{"Walk dog", "Buy milk"})
}

func (s *configSuite) TestParseInvalid(c *gc.C) {
	_, err := todo.ParseConfig([]byte("db: ''\n"))
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, "empty db path not valid")

	_, err = todo.ParseConfig([]byte("frame-interval: 0s\n"))
	c.Check(err, gc.ErrorMatches, "frame-interval 0s not valid")

	_, err = todo.ParseConfig([]byte("db: [\n"))
	c.Check(err, gc.ErrorMatches, "parsing config: .*")
}

func (s *configSuite) TestReadMissing(c *gc.C) {
	config, err := todo.ReadConfig(filepath.Join(c.MkDir(), "missing.yaml"))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config, jc.DeepEquals, todo.DefaultConfig())
}

func (s *configSuite) TestRead(c *gc.C) {
	path := filepath.Join(c.MkDir(), "todo.yaml")
	err := os.WriteFile(path, []byte("save-delay: 250ms\n"), 0600)
	c.Assert(err, jc.ErrorIsNil)
	config, err := todo.ReadConfig(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config.SaveDelay, gc.Equals, 250*time.Millisecond)
}
