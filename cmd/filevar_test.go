// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd_test

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/skelethon/cmd"
)

type FileVarSuite struct {
	ctx *cmd.Context
}

var _ = gc.Suite(&FileVarSuite{})

func (s *FileVarSuite) SetUpTest(c *gc.C) {
	s.ctx = dummyContext(c)
	err := os.WriteFile(filepath.Join(s.ctx.Dir, "config.yaml"), []byte("db: x\n"), 0600)
	c.Assert(err, jc.ErrorIsNil)
}

func fs() (*gnuflag.FlagSet, *cmd.FileVar) {
	var config cmd.FileVar
	f := gnuflag.NewFlagSet("", gnuflag.ContinueOnError)
	f.Var(&config, "config", "the config")
	return f, &config
}

func (s *FileVarSuite) TestUnset(c *gc.C) {
	f, config := fs()
	c.Assert(f.Parse(false, nil), jc.ErrorIsNil)
	c.Check(config.IsSet(), jc.IsFalse)
	c.Check(config.Resolve(s.ctx, "todo.yaml"), gc.Equals, filepath.Join(s.ctx.Dir, "todo.yaml"))
	_, err := config.Read(s.ctx)
	c.Check(err, gc.ErrorMatches, "path not set")
}

func (s *FileVarSuite) TestRead(c *gc.C) {
	f, config := fs()
	c.Assert(f.Parse(false, []string{"--config", "config.yaml"}), jc.ErrorIsNil)
	c.Check(config.IsSet(), jc.IsTrue)
	c.Check(config.String(), gc.Equals, "config.yaml")
	c.Check(config.Resolve(s.ctx, "todo.yaml"), gc.Equals, filepath.Join(s.ctx.Dir, "config.yaml"))
	data, err := config.Read(s.ctx)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "db: x\n")
}

func (s *FileVarSuite) TestReadMissing(c *gc.C) {
	f, config := fs()
	c.Assert(f.Parse(false, []string{"--config", "missing.yaml"}), jc.ErrorIsNil)
	_, err := config.Read(s.ctx)
	c.Check(errors.Cause(err), jc.Satisfies, os.IsNotExist)
}

func (s *FileVarSuite) TestEmpty(c *gc.C) {
	f, _ := fs()
	err := f.Parse(false, []string{"--config", ""})
	c.Check(err, gc.ErrorMatches, `invalid value "" for .*--config: empty path not valid`)
}
