package ecs

import (
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Removable is implemented by all component arrays so the manager can evict
// an entity from every array on destroy.
type Removable interface {
	RemoveEntity(e Entity)
}

// anyArray is the type-erased surface the manager dispatches through.
type anyArray interface {
	Removable
	kindName() string
	addAny(e Entity) (Component, error)
	getAny(e Entity, index int) (Component, bool)
	Remove(e Entity, index int) error
	Len(e Entity) int
}

// ComponentArray stores every component of one kind, as an ordered list per
// owning entity. List order is attachment order and doubles as index space.
type ComponentArray[T Component] struct {
	kind    Kind[T]
	manager *ComponentManager
	lists   map[EntityID][]T
	order   []EntityID // entities in first-attachment order

	initializing map[EntityID]bool
}

func newComponentArray[T Component](kind Kind[T], m *ComponentManager) *ComponentArray[T] {
	return &ComponentArray[T]{
		kind:    kind,
		manager: m,
		lists:   make(map[EntityID][]T, 64),

		initializing: make(map[EntityID]bool),
	}
}

func (a *ComponentArray[T]) Kind() Kind[T]    { return a.kind }
func (a *ComponentArray[T]) kindName() string { return a.kind.name }

// Add builds a new component for e, names it entityName+kindName+index,
// runs Init and appends it to e's list. A failing Init leaves the array
// untouched: the instance is cleaned up and abandoned. While Init runs, e's
// list of this kind is frozen so the name always matches the final index.
func (a *ComponentArray[T]) Add(e Entity) (T, error) {
	var zero T
	b := e.Base()
	if err := a.manager.checkMutable(b, true); err != nil {
		return zero, err
	}

	if a.initializing[b.id] {
		return zero, eris.Wrapf(ErrInitInProgress, "add %s to %q", a.kind.name, b.name)
	}

	index := len(a.lists[b.id])
	c := a.kind.factory()
	cb := c.component()
	cb.name = b.name + a.kind.name + strconv.Itoa(index)
	cb.kind = a.kind.id
	cb.index = index
	cb.owner = e
	cb.scene = a.manager.scene
	cb.ready = newReadySignal()

	a.initializing[b.id] = true
	err := c.Init()
	delete(a.initializing, b.id)
	if err == nil && b.state >= StateDestroying {
		err = eris.Wrapf(ErrEntityDestroyed, "entity %q destroyed during init", b.name)
	}
	if err != nil {
		c.Cleanup()
		cb.Resolve(err)
		a.manager.log.Warn("component init failed",
			zap.String("component", cb.name),
			zap.Stringer("entity", b.id),
			zap.Error(err))
		return zero, eris.Wrapf(err, "init component %s", cb.name)
	}

	list, existed := a.lists[b.id]
	if !existed {
		a.order = append(a.order, b.id)
	}
	cb.index = len(list)
	a.lists[b.id] = append(list, c)
	cb.attached = true
	if !cb.deferReady {
		cb.Resolve(nil)
	}

	emit(a.manager.scene, ComponentAttached{Entity: b.id, Kind: a.kind.name, Name: cb.name, Index: cb.index})
	return c, nil
}

func (a *ComponentArray[T]) addAny(e Entity) (Component, error) {
	c, err := a.Add(e)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the component at index in e's list. Missing lists and
// out-of-range indices are reported as not found.
func (a *ComponentArray[T]) Get(e Entity, index int) (T, bool) {
	var zero T
	b := e.Base()
	if b.scene != a.manager.scene {
		return zero, false
	}
	list := a.lists[b.id]
	if index < 0 || index >= len(list) {
		return zero, false
	}
	return list[index], true
}

func (a *ComponentArray[T]) getAny(e Entity, index int) (Component, bool) {
	c, ok := a.Get(e, index)
	if !ok {
		return nil, false
	}
	return c, true
}

// Remove cleans up the component at index and closes the gap, shifting every
// later sibling's index down by one. Invalid entities or indices are a
// silent no-op; only misuse (destroyed entity, reentrant eviction) errors.
func (a *ComponentArray[T]) Remove(e Entity, index int) error {
	b := e.Base()
	if err := a.manager.checkMutable(b, false); err != nil {
		return err
	}
	if a.initializing[b.id] {
		return eris.Wrapf(ErrInitInProgress, "remove %s from %q", a.kind.name, b.name)
	}
	list := a.lists[b.id]
	if index < 0 || index >= len(list) {
		return nil
	}

	c := list[index]
	a.manager.guarded(b.id, c.Cleanup)

	list = append(list[:index], list[index+1:]...)
	for i := index; i < len(list); i++ {
		list[i].component().index = i
	}
	cb := c.component()
	cb.attached = false
	if len(list) == 0 {
		a.drop(b.id)
	} else {
		a.lists[b.id] = list
	}

	emit(a.manager.scene, ComponentDetached{Entity: b.id, Kind: a.kind.name, Name: cb.name})
	return nil
}

// RemoveEntity cleans up every component e holds in this array, in list
// order, then forgets e.
func (a *ComponentArray[T]) RemoveEntity(e Entity) {
	b := e.Base()
	if b.scene != a.manager.scene {
		return
	}
	id := b.id
	list, ok := a.lists[id]
	if !ok {
		return
	}
	snapshot := make([]T, len(list))
	copy(snapshot, list)

	a.manager.guarded(id, func() {
		for _, c := range snapshot {
			c.Cleanup()
			c.component().attached = false
		}
	})
	a.drop(id)

	for _, c := range snapshot {
		emit(a.manager.scene, ComponentDetached{Entity: id, Kind: a.kind.name, Name: c.component().name})
	}
}

func (a *ComponentArray[T]) drop(id EntityID) {
	delete(a.lists, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Len returns how many components of this kind e holds.
func (a *ComponentArray[T]) Len(e Entity) int {
	b := e.Base()
	if b.scene != a.manager.scene {
		return 0
	}
	return len(a.lists[b.id])
}

// Entities returns how many entities hold at least one component of this kind.
func (a *ComponentArray[T]) Entities() int {
	return len(a.lists)
}

// Each visits every component in entity first-attachment order, then list
// order. fn must not add or remove components of this kind.
func (a *ComponentArray[T]) Each(fn func(EntityID, T)) {
	for _, id := range a.order {
		for _, c := range a.lists[id] {
			fn(id, c)
		}
	}
}
