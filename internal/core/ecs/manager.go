package ecs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ComponentManager owns one ComponentArray per component kind for a scene.
// Arrays are created on the first Add for their kind and live as long as the
// scene; entities are evicted from all of them at once on destroy.
type ComponentManager struct {
	scene  *Scene
	log    *zap.Logger
	arrays map[TypeID]anyArray
	order  []anyArray // registration order, used for eviction
	guard  entityGuard
}

func newComponentManager(scene *Scene, log *zap.Logger) *ComponentManager {
	return &ComponentManager{
		scene:  scene,
		log:    log,
		arrays: make(map[TypeID]anyArray, 16),
		order:  make([]anyArray, 0, 16),
		guard:  make(entityGuard),
	}
}

// AddComponent attaches a new component of kind to e, creating the kind's
// array if this is its first use in the scene.
func (m *ComponentManager) AddComponent(e Entity, kind ComponentKind) (Component, error) {
	if kind == nil || kind.TypeID() == 0 {
		return nil, ErrUnknownKind
	}
	arr, ok := m.arrays[kind.TypeID()]
	if !ok {
		arr = m.register(kind.TypeID(), kind.newArray(m))
	}
	return arr.addAny(e)
}

// GetComponent looks up e's index-th component of kind. It never creates an
// array.
func (m *ComponentManager) GetComponent(e Entity, kind ComponentKind, index int) (Component, bool) {
	if kind == nil {
		return nil, false
	}
	arr, ok := m.arrays[kind.TypeID()]
	if !ok {
		return nil, false
	}
	return arr.getAny(e, index)
}

// RemoveComponent detaches e's index-th component of kind. Unknown kinds,
// entities and indices are a no-op.
func (m *ComponentManager) RemoveComponent(e Entity, kind ComponentKind, index int) error {
	if kind == nil {
		return nil
	}
	arr, ok := m.arrays[kind.TypeID()]
	if !ok {
		if err := m.checkMutable(e.Base(), false); err != nil {
			return err
		}
		return nil
	}
	return arr.Remove(e, index)
}

// Count reports how many components of kind e holds.
func (m *ComponentManager) Count(e Entity, kind ComponentKind) int {
	if kind == nil {
		return 0
	}
	arr, ok := m.arrays[kind.TypeID()]
	if !ok {
		return 0
	}
	return arr.Len(e)
}

// RemoveEntity evicts e from every array ever created in this scene. Arrays
// e never used simply have nothing to do.
func (m *ComponentManager) RemoveEntity(e Entity) {
	id := e.Base().id
	m.guarded(id, func() {
		for _, arr := range m.order {
			arr.RemoveEntity(e)
		}
	})
}

// Types lists the kind names that have an array, in creation order.
func (m *ComponentManager) Types() []string {
	names := make([]string, 0, len(m.order))
	for _, arr := range m.order {
		names = append(names, arr.kindName())
	}
	return names
}

func (m *ComponentManager) register(id TypeID, arr anyArray) anyArray {
	m.arrays[id] = arr
	m.order = append(m.order, arr)
	m.log.Debug("component array created", zap.String("kind", arr.kindName()))
	return arr
}

// checkMutable rejects attach/detach on entities this scene does not own,
// on destroyed entities, and while the entity's components are being
// cleaned up. Destroying entities may still detach from their own Cleanup.
func (m *ComponentManager) checkMutable(b *EntityBase, adding bool) error {
	switch {
	case b.scene == nil:
		return ErrNotInstantiated
	case b.scene != m.scene:
		return eris.Wrapf(ErrForeignEntity, "entity %s", b.id)
	case b.state == StateDestroyed, adding && b.state == StateDestroying:
		return eris.Wrapf(ErrEntityDestroyed, "entity %q (%s)", b.name, b.id)
	case m.guard.held(b.id):
		return eris.Wrapf(ErrRemovalInProgress, "entity %q (%s)", b.name, b.id)
	}
	return nil
}

func (m *ComponentManager) guarded(id EntityID, fn func()) {
	m.guard[id]++
	defer func() {
		if m.guard[id]--; m.guard[id] <= 0 {
			delete(m.guard, id)
		}
	}()
	fn()
}

// entityGuard counts in-flight cleanups per entity.
type entityGuard map[EntityID]int

func (g entityGuard) held(id EntityID) bool { return g[id] > 0 }

// ArrayOf returns the typed array for kind, if one exists. It performs the
// single checked downcast from the manager's type-erased storage.
func ArrayOf[T Component](m *ComponentManager, kind Kind[T]) (*ComponentArray[T], bool) {
	arr, ok := m.arrays[kind.id]
	if !ok {
		return nil, false
	}
	typed, ok := arr.(*ComponentArray[T])
	return typed, ok
}

func arrayFor[T Component](m *ComponentManager, kind Kind[T]) (*ComponentArray[T], error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	if arr, ok := ArrayOf(m, kind); ok {
		return arr, nil
	}
	if _, exists := m.arrays[kind.id]; exists {
		return nil, eris.Wrapf(ErrUnknownKind, "kind %q registered with another type", kind.name)
	}
	arr := newComponentArray(kind, m)
	m.register(kind.id, arr)
	return arr, nil
}
