// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

/*
Package core holds the reactive building blocks that applications are made
of: observed data, models, collections, the revision events they exchange,
and the contract views are rendered through.

It's important to be aware of what should *not* go here. In particular:

  * if it knows about any particular application, such as the todo list,
    it should not be in here.
  * if it touches the disk, a terminal or the network, it should not be in
    here.
  * if it decides *what* a view looks like rather than *when* it renders, it
    should not be in here.

...and more generally, when adding to core:

  * it's fine to import from any subpackage of "github.com/juju/skelethon/core"
  * but never import from any other subpackage of "github.com/juju/skelethon"
  * models, collections and their listeners are confined to one goroutine;
    only render.Loop and the watcher package deal with others

The packages build on each other in this order:

  - event: listener registries and the Event values dispatched through them
  - observe: proxies reporting every write into nested plain data
  - revision: the "revised" event describing additions, removals and alterations
  - view: the View and Model contracts and the registry of view factories
  - render: schedulers that batch view renders into frames
  - model: a record of data with a linked view, dispatching revisions
  - collection: ordered members that subscribe to the events of their members
  - watcher: forwarding of revisions to other goroutines over a hub
*/
package core
