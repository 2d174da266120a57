// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"go/build"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gc "gopkg.in/check.v1"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/juju/skelethon"

const pkgPrefix = ModulePath + "/"

// FindCoreImports returns a sorted list of this module's packages that are
// imported, directly or not, by packageName. The module prefix is removed,
// leaving just the short names.
func FindCoreImports(c *gc.C, packageName string) []string {
	root := moduleRoot(c)
	allpkgs := make(map[string]bool)
	findCoreImports(c, root, packageName, allpkgs)

	var result []string
	for name := range allpkgs {
		result = append(result, strings.TrimPrefix(name, pkgPrefix))
	}
	sort.Strings(result)
	return result
}

// findCoreImports recursively adds all imported packages of the given
// package to allpkgs. Only non-test files are considered.
func findCoreImports(c *gc.C, root, packageName string, allpkgs map[string]bool) {
	dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(packageName, pkgPrefix)))
	pkg, err := build.ImportDir(dir, 0)
	if err != nil {
		c.Fatalf("%s not found: %v", packageName, err)
	}
	for _, name := range pkg.Imports {
		if strings.HasPrefix(name, pkgPrefix) && !allpkgs[name] {
			allpkgs[name] = true
			findCoreImports(c, root, name, allpkgs)
		}
	}
}

// moduleRoot walks up from the working directory to the directory
// holding go.mod.
func moduleRoot(c *gc.C) string {
	dir, err := os.Getwd()
	c.Assert(err, gc.IsNil)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			c.Fatalf("go.mod not found")
		}
		dir = parent
	}
}
