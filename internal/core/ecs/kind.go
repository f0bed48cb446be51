package ecs

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
)

// TypeID identifies a component kind. IDs are process-wide so two kinds can
// never collide inside one scene, whichever registry issued them.
type TypeID uint32

var lastTypeID atomic.Uint32

// ComponentKind is the type-erased view of a Kind, used where the concrete
// component type is only known at runtime (catalogs, diagnostics).
type ComponentKind interface {
	TypeID() TypeID
	Name() string
	newArray(m *ComponentManager) anyArray
}

// Kind is the typed tag for one kind of component. It pairs a stable TypeID
// with the factory that builds zero-state instances.
type Kind[T Component] struct {
	id      TypeID
	name    string
	factory func() T
}

func (k Kind[T]) TypeID() TypeID { return k.id }
func (k Kind[T]) Name() string   { return k.name }
func (k Kind[T]) Valid() bool    { return k.id != 0 && k.factory != nil }

func (k Kind[T]) newArray(m *ComponentManager) anyArray {
	return newComponentArray(k, m)
}

// Kinds is a name-keyed registry of component kinds.
type Kinds struct {
	byName map[string]ComponentKind
}

func NewKinds() *Kinds {
	return &Kinds{byName: make(map[string]ComponentKind, 16)}
}

// NewKind registers a kind under name. Names are unique ignoring case, so
// Lookup never has to pick between two kinds. The factory must return a
// fresh, uninitialised component on every call.
func NewKind[T Component](k *Kinds, name string, factory func() T) (Kind[T], error) {
	if name == "" || factory == nil {
		return Kind[T]{}, eris.New("component kind needs a name and a factory")
	}
	for n := range k.byName {
		if strings.EqualFold(n, name) {
			return Kind[T]{}, eris.Wrapf(ErrDuplicateKind, "kind %q clashes with %q", name, n)
		}
	}
	kind := Kind[T]{
		id:      TypeID(lastTypeID.Add(1)),
		name:    name,
		factory: factory,
	}
	k.byName[name] = kind
	return kind, nil
}

// MustKind is NewKind for package-level registration; it panics on error.
func MustKind[T Component](k *Kinds, name string, factory func() T) Kind[T] {
	kind, err := NewKind(k, name, factory)
	if err != nil {
		panic(err)
	}
	return kind
}

// Lookup resolves a kind by name. An exact match wins; otherwise the name is
// matched case-insensitively so data files may write "model" for "Model".
func (k *Kinds) Lookup(name string) (ComponentKind, bool) {
	if kind, ok := k.byName[name]; ok {
		return kind, true
	}
	for n, kind := range k.byName {
		if strings.EqualFold(n, name) {
			return kind, true
		}
	}
	return nil, false
}

// Names returns the registered kind names, sorted.
func (k *Kinds) Names() []string {
	names := make([]string, 0, len(k.byName))
	for n := range k.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (k *Kinds) Count() int {
	return len(k.byName)
}
