// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd_test

import (
	"bytes"
	"path/filepath"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/skelethon/cmd"
)

type CmdSuite struct{}

var _ = gc.Suite(&CmdSuite{})

func (s *CmdSuite) TestContext(c *gc.C) {
	ctx := dummyContext(c)
	c.Check(ctx.AbsPath("/foo/bar"), gc.Equals, "/foo/bar")
	c.Check(ctx.AbsPath("foo/bar"), gc.Equals, filepath.Join(ctx.Dir, "foo/bar"))
}

func (s *CmdSuite) TestInfo(c *gc.C) {
	minimal := &TestCommand{Name: "verb", Minimal: true}
	c.Check(minimal.Info().Usage(), gc.Equals, "verb")
	full := &TestCommand{Name: "verb"}
	c.Check(full.Info().Usage(), gc.Equals, "verb <something>")
}

func (s *CmdSuite) TestPrintUsage(c *gc.C) {
	var buf bytes.Buffer
	cmd.PrintUsage(&TestCommand{Name: "verb", Minimal: true}, &buf)
	c.Check(buf.String(), gc.Equals, minimalHelp)

	buf.Reset()
	cmd.PrintUsage(&TestCommand{Name: "verb"}, &buf)
	c.Check(buf.String(), gc.Equals, fullHelp)
}

func (s *CmdSuite) TestMainSuccess(c *gc.C) {
	ctx := dummyContext(c)
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"--option", "success!", "a", "b"})
	c.Check(result, gc.Equals, 0)
	c.Check(bufferString(ctx.Stdout), gc.Equals, "success! a b\n")
	c.Check(bufferString(ctx.Stderr), gc.Equals, "")
}

func (s *CmdSuite) TestMainInterspersed(c *gc.C) {
	ctx := dummyContext(c)
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"a", "--option", "x", "b"})
	c.Check(result, gc.Equals, 0)
	c.Check(bufferString(ctx.Stdout), gc.Equals, "x a b\n")
}

func (s *CmdSuite) TestMainRunError(c *gc.C) {
	ctx := dummyContext(c)
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"--option", "error"})
	c.Check(result, gc.Equals, 1)
	c.Check(bufferString(ctx.Stdout), gc.Equals, "")
	c.Check(bufferString(ctx.Stderr), gc.Equals, "ERROR BAM!\n")
}

func (s *CmdSuite) TestMainRunSilentError(c *gc.C) {
	ctx := dummyContext(c)
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"--option", "silent-error"})
	c.Check(result, gc.Equals, 1)
	c.Check(bufferString(ctx.Stderr), gc.Equals, "")
}

func (s *CmdSuite) TestMainInitError(c *gc.C) {
	ctx := dummyContext(c)
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"--unknown"})
	c.Check(result, gc.Equals, 2)
	c.Check(bufferString(ctx.Stderr), gc.Matches, `(?s).*ERROR .* provided but not defined: --unknown\n`)

	ctx = dummyContext(c)
	result = cmd.Main(&TestCommand{Name: "verb", Minimal: true}, ctx, []string{"extra"})
	c.Check(result, gc.Equals, 2)
	c.Check(bufferString(ctx.Stderr), gc.Equals, "ERROR unrecognised args: [extra]\n")
}

func (s *CmdSuite) TestMainHelp(c *gc.C) {
	for _, arg := range []string{"-h", "--help"} {
		ctx := dummyContext(c)
		result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{arg})
		c.Check(result, gc.Equals, 0)
		c.Check(bufferString(ctx.Stderr), gc.Equals, fullHelp)
	}
}

func (s *CmdSuite) TestStdin(c *gc.C) {
	ctx := dummyContext(c)
	ctx.Stdin = bytes.NewBufferString("hello\n")
	result := cmd.Main(&TestCommand{Name: "verb"}, ctx, []string{"--option", "echo"})
	c.Check(result, gc.Equals, 0)
	c.Check(bufferString(ctx.Stdout), gc.Equals, "hello\n")
}

func (s *CmdSuite) TestCheckEmpty(c *gc.C) {
	c.Check(cmd.CheckEmpty(nil), jc.ErrorIsNil)
	c.Check(cmd.CheckEmpty([]string{"boo!"}), gc.ErrorMatches, `unrecognised args: \[boo!\]`)
}
