// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package observe wraps plain nested data, made of map[string]any and []any
// values, so that every write made through the wrapper is reported to a
// callback together with its full context.
package observe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Change describes a single write made through a Proxy.
type Change struct {
	// Root is the value passed to Observe.
	Root any

	// Target is the map or list that holds the written property. It is
	// the same as Root for top level writes.
	Target any

	// Path leads from Root to the written property, inclusive.
	Path []string

	// Property is the key or decimal list index that was written.
	Property string

	// Value is the new value of the property.
	Value any

	// Previous is what the property held before the write. It is nil when
	// the property did not exist.
	Previous any

	// Existed reports whether the property existed before the write.
	Existed bool
}

// IsAddition returns true if the write created the property.
func (c Change) IsAddition() bool {
	return !c.Existed
}

// IsModification returns true if the write replaced an existing value.
func (c Change) IsModification() bool {
	return c.Existed
}

// String returns a description of the change.
func (c Change) String() string {
	key := strings.Join(c.Path, ".")
	if c.IsAddition() {
		return fmt.Sprintf("property added: %s = %v", key, c.Value)
	}
	return fmt.Sprintf("property modified: %s = %v (was %v)", key, c.Value, c.Previous)
}

// Callback is called after every write made through a Proxy.
type Callback func(Change)

// Proxy gives observed access to a map[string]any or []any inside a tree
// of plain data.
//
// Reading a property that holds a map or list returns a new Proxy over it,
// so writes at any depth reach the callback. Proxies over nested values
// are not cached, and there is no cycle detection: a tree that contains
// itself can be walked forever.
type Proxy struct {
	root     any
	target   any
	path     []string
	callback Callback
}

// Observe returns a Proxy over root that reports writes to callback.
func Observe(root any, callback Callback) *Proxy {
	return &Proxy{
		root:     root,
		target:   root,
		callback: callback,
	}
}

// Raw returns the wrapped value itself. Writes made to it directly are not
// reported.
func (p *Proxy) Raw() any {
	return p.target
}

// Path returns the path from the root to the wrapped value.
func (p *Proxy) Path() []string {
	return append([]string(nil), p.path...)
}

// Len returns the number of entries of the wrapped map or list.
func (p *Proxy) Len() int {
	switch t := p.target.(type) {
	case map[string]any:
		return len(t)
	case []any:
		return len(t)
	}
	return 0
}

// Keys returns the sorted keys of a wrapped map, or the indexes of a
// wrapped list.
func (p *Proxy) Keys() []string {
	var keys []string
	switch t := p.target.(type) {
	case map[string]any:
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	case []any:
		for i := range t {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	return keys
}

// Lookup returns the value of property and whether it exists. Maps and
// lists come back wrapped in a new Proxy.
func (p *Proxy) Lookup(property string) (any, bool) {
	switch t := p.target.(type) {
	case map[string]any:
		v, ok := t[property]
		if !ok {
			return nil, false
		}
		return p.wrap(property, v), true
	case []any:
		i, ok := index(property, len(t))
		if !ok {
			return nil, false
		}
		return p.wrap(property, t[i]), true
	}
	return nil, false
}

// Get is like Lookup, returning nil for absent properties.
func (p *Proxy) Get(property string) any {
	v, _ := p.Lookup(property)
	return v
}

// String returns the property if it holds a string.
func (p *Proxy) String(property string) string {
	s, _ := p.Get(property).(string)
	return s
}

// Bool returns the property if it holds a bool.
func (p *Proxy) Bool(property string) bool {
	b, _ := p.Get(property).(bool)
	return b
}

// Set writes value to property and then reports the change. Writes to maps
// always succeed; writes to lists need the index of an existing element.
// A Proxy passed as value is stored as the data it wraps.
func (p *Proxy) Set(property string, value any) error {
	if inner, ok := value.(*Proxy); ok {
		value = inner.target
	}

	var (
		previous any
		existed  bool
	)
	switch t := p.target.(type) {
	case map[string]any:
		if t == nil {
			return errors.NotValidf("writing %q into nil map", p.describe(property))
		}
		previous, existed = t[property]
		t[property] = value
	case []any:
		i, ok := index(property, len(t))
		if !ok {
			return errors.NotValidf("index %q of %d element list %q", property, len(t), p.describe(""))
		}
		previous, existed = t[i], true
		t[i] = value
	default:
		return errors.NotValidf("writing %q into %T", p.describe(property), p.target)
	}

	if p.callback != nil {
		p.callback(Change{
			Root:     p.root,
			Target:   p.target,
			Path:     p.childPath(property),
			Property: property,
			Value:    value,
			Previous: previous,
			Existed:  existed,
		})
	}
	return nil
}

// GetPath follows path through nested maps and lists.
func (p *Proxy) GetPath(path ...string) (any, error) {
	var current any = p
	for i, key := range path {
		proxy, ok := current.(*Proxy)
		if !ok {
			return nil, errors.NotFoundf("%q in %T at %q", key, current, strings.Join(path[:i], "."))
		}
		v, ok := proxy.Lookup(key)
		if !ok {
			return nil, errors.NotFoundf("path %q", strings.Join(path[:i+1], "."))
		}
		current = v
	}
	return current, nil
}

// SetPath writes value at the end of path. Every element before the last
// must already exist and hold a map or list.
func (p *Proxy) SetPath(path []string, value any) error {
	if len(path) == 0 {
		return errors.NotValidf("empty path")
	}
	parent, err := p.GetPath(path[:len(path)-1]...)
	if err != nil {
		return errors.Trace(err)
	}
	proxy, ok := parent.(*Proxy)
	if !ok {
		return errors.NotFoundf("container at %q", strings.Join(path[:len(path)-1], "."))
	}
	return errors.Trace(proxy.Set(path[len(path)-1], value))
}

func (p *Proxy) wrap(property string, value any) any {
	switch value.(type) {
	case map[string]any, []any:
		return &Proxy{
			root:     p.root,
			target:   value,
			path:     p.childPath(property),
			callback: p.callback,
		}
	}
	return value
}

func (p *Proxy) childPath(property string) []string {
	path := make([]string, len(p.path), len(p.path)+1)
	copy(path, p.path)
	return append(path, property)
}

func (p *Proxy) describe(property string) string {
	if property == "" {
		return strings.Join(p.path, ".")
	}
	return strings.Join(p.childPath(property), ".")
}

// index parses a canonical decimal list index below n.
func index(property string, n int) (int, bool) {
	i, err := strconv.Atoi(property)
	if err != nil || i < 0 || i >= n || strconv.Itoa(i) != property {
		return 0, false
	}
	return i, true
}
