// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo

import (
	"time"

	"github.com/juju/errors"

	"github.com/juju/skelethon/core/view"
)

// Row is what an ItemView shows of its task.
type Row struct {
	ID      string
	Label   string
	Done    bool
	Created time.Time
}

// ItemView keeps the row of one task up to date with the renders of the
// task model.
type ItemView struct {
	row      Row
	renders  int
	onRender func(Row)
}

// NewItemView returns a view showing the current record of m.
func NewItemView(m view.Model, onRender func(Row)) *ItemView {
	v := &ItemView{onRender: onRender}
	v.row = rowOf(m.Serialize())
	return v
}

// Render is part of the view.View interface.
func (v *ItemView) Render(record map[string]any) {
	v.row = rowOf(record)
	v.renders++
	if v.onRender != nil {
		v.onRender(v.row)
	}
}

// Row returns the row as of the last render.
func (v *ItemView) Row() Row {
	return v.row
}

// Renders returns the number of renders so far.
func (v *ItemView) Renders() int {
	return v.renders
}

// RegisterViews makes ItemView available under ViewTag. onRender, if not
// nil, is called after every render of any task.
func RegisterViews(registry *view.Registry, onRender func(Row)) error {
	err := registry.Register(ViewTag, func(m view.Model) (view.View, error) {
		return NewItemView(m, onRender), nil
	})
	return errors.Trace(err)
}

func rowOf(record map[string]any) Row {
	row := Row{Created: parseCreated(record)}
	row.ID, _ = record[FieldID].(string)
	row.Label, _ = record[FieldLabel].(string)
	row.Done, _ = record[FieldDone].(bool)
	return row
}
