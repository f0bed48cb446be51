package ecs

import (
	"time"

	"github.com/rotisserie/eris"
)

// State is an entity's position in its lifecycle. There is no way back from
// StateDestroyed.
type State uint8

const (
	StateConstructed State = iota
	StateInitialized
	StateActive
	StateDestroying
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInitialized:
		return "initialized"
	case StateActive:
		return "active"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Entity is the unit of composition. Concrete entities embed EntityBase and
// override whichever of Init, Update and Cleanup they need.
type Entity interface {
	// Init attaches the entity's components. Called once by Instantiate.
	Init() error
	// Update runs once per tick for live entities.
	Update(dt time.Duration)
	// Cleanup is entity-specific teardown, run before the scene evicts it.
	Cleanup()
	Base() *EntityBase
}

// EntityBase holds identity, the spatial tree and lifecycle state. Its
// zero value is ready to be passed to Instantiate.
type EntityBase struct {
	id    EntityID
	name  string
	scene *Scene
	self  Entity
	state State

	parent   Entity
	children []Entity

	Transform Transform
}

func (b *EntityBase) Init() error            { return nil }
func (b *EntityBase) Update(_ time.Duration) {}
func (b *EntityBase) Cleanup()               {}
func (b *EntityBase) Base() *EntityBase      { return b }

func (b *EntityBase) ID() EntityID   { return b.id }
func (b *EntityBase) Name() string   { return b.name }
func (b *EntityBase) Scene() *Scene  { return b.scene }
func (b *EntityBase) State() State   { return b.state }
func (b *EntityBase) Parent() Entity { return b.parent }

// Alive reports whether the entity is instantiated and not being destroyed.
func (b *EntityBase) Alive() bool {
	return b.scene != nil && b.state < StateDestroying
}

// Children returns a copy of the entity's direct children.
func (b *EntityBase) Children() []Entity {
	out := make([]Entity, len(b.children))
	copy(out, b.children)
	return out
}

// Root walks up the parent chain.
func (b *EntityBase) Root() Entity {
	e := b.self
	for e.Base().parent != nil {
		e = e.Base().parent
	}
	return e
}

// SetParent moves the entity under parent, keeping its world position. A nil
// parent detaches it. Both entities must be alive in the same scene and the
// move must not create a cycle.
func (b *EntityBase) SetParent(parent Entity) error {
	if !b.Alive() {
		return eris.Wrapf(ErrEntityDestroyed, "entity %q", b.name)
	}
	world := b.WorldPosition()
	if parent == nil {
		b.detach()
		b.Transform.Position = world
		return nil
	}
	pb := parent.Base()
	if !pb.Alive() {
		return eris.Wrapf(ErrEntityDestroyed, "parent %q", pb.name)
	}
	if pb.scene != b.scene {
		return eris.Wrapf(ErrForeignEntity, "parent %q", pb.name)
	}
	for p := parent; p != nil; p = p.Base().parent {
		if p.Base() == b {
			return eris.Errorf("parenting %q under %q would create a cycle", b.name, pb.name)
		}
	}
	b.detach()
	b.parent = parent
	pb.children = append(pb.children, b.self)
	b.Transform.Position = pb.toLocal(world)
	return nil
}

// WorldPosition composes translation and scale up the parent chain.
func (b *EntityBase) WorldPosition() Vec3 {
	if b.parent == nil {
		return b.Transform.Position
	}
	pb := b.parent.Base()
	return pb.WorldPosition().Add(b.Transform.Position.Mul(pb.worldScale()))
}

func (b *EntityBase) worldScale() Vec3 {
	if b.parent == nil {
		return b.Transform.Scaling
	}
	return b.parent.Base().worldScale().Mul(b.Transform.Scaling)
}

func (b *EntityBase) toLocal(world Vec3) Vec3 {
	return world.Sub(b.WorldPosition()).Div(b.worldScale())
}

func (b *EntityBase) detach() {
	if b.parent == nil {
		return
	}
	pb := b.parent.Base()
	for i, c := range pb.children {
		if c.Base() == b {
			pb.children = append(pb.children[:i], pb.children[i+1:]...)
			break
		}
	}
	b.parent = nil
}

// Destroy tears the entity down through its scene: children first, then the
// Cleanup hook, then component eviction and live-set removal.
func (b *EntityBase) Destroy() error {
	if b.scene == nil {
		return ErrNotInstantiated
	}
	return b.scene.Destroy(b.self)
}

// AddComponent attaches a new component of kind to e through its scene's
// component manager.
func AddComponent[T Component](e Entity, kind Kind[T]) (T, error) {
	var zero T
	b := e.Base()
	if b.scene == nil {
		return zero, ErrNotInstantiated
	}
	arr, err := arrayFor(b.scene.components, kind)
	if err != nil {
		return zero, err
	}
	return arr.Add(e)
}

// GetComponent returns e's first component of kind.
func GetComponent[T Component](e Entity, kind Kind[T]) (T, bool) {
	return GetComponentAt(e, kind, 0)
}

// GetComponentAt returns e's index-th component of kind. Lookups never
// create storage.
func GetComponentAt[T Component](e Entity, kind Kind[T], index int) (T, bool) {
	var zero T
	b := e.Base()
	if b.scene == nil {
		return zero, false
	}
	arr, ok := ArrayOf(b.scene.components, kind)
	if !ok {
		return zero, false
	}
	return arr.Get(e, index)
}

// RemoveComponent removes e's first component of kind.
func RemoveComponent[T Component](e Entity, kind Kind[T]) error {
	return RemoveComponentAt(e, kind, 0)
}

// RemoveComponentAt removes e's index-th component of kind. Later siblings
// shift down one index.
func RemoveComponentAt[T Component](e Entity, kind Kind[T], index int) error {
	b := e.Base()
	if b.scene == nil {
		return ErrNotInstantiated
	}
	m := b.scene.components
	arr, ok := ArrayOf(m, kind)
	if !ok {
		return m.checkMutable(b, false)
	}
	return arr.Remove(e, index)
}

// CountComponents reports how many components of kind e holds.
func CountComponents[T Component](e Entity, kind Kind[T]) int {
	b := e.Base()
	if b.scene == nil {
		return 0
	}
	arr, ok := ArrayOf(b.scene.components, kind)
	if !ok {
		return 0
	}
	return arr.Len(e)
}
