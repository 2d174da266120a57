// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"os"

	"github.com/juju/errors"
)

// FileVar represents a path to a file, set with a flag.
type FileVar struct {
	// Path is the path as given, relative paths being resolved against
	// the context directory.
	Path string
}

// Set is part of the gnuflag.Value interface.
func (f *FileVar) Set(v string) error {
	if v == "" {
		return errors.NotValidf("empty path")
	}
	f.Path = v
	return nil
}

// String is part of the gnuflag.Value interface.
func (f *FileVar) String() string {
	return f.Path
}

// IsSet reports whether a path was given.
func (f *FileVar) IsSet() bool {
	return f.Path != ""
}

// Resolve returns the absolute path of the file, or fallback when no path
// was given.
func (f *FileVar) Resolve(ctx *Context, fallback string) string {
	if !f.IsSet() {
		return ctx.AbsPath(fallback)
	}
	return ctx.AbsPath(f.Path)
}

// Read returns the content of the file relative to the context.
func (f *FileVar) Read(ctx *Context) ([]byte, error) {
	if !f.IsSet() {
		return nil, errors.New("path not set")
	}
	data, err := os.ReadFile(ctx.AbsPath(f.Path))
	return data, errors.Trace(err)
}
