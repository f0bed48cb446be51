package prefab

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/data"
	"github.com/rotisserie/eris"
)

// Instance is an entity built from a catalog prefab.
type Instance struct {
	ecs.EntityBase

	factory    *Factory
	prefab     *data.Prefab
	path       []string
	components []ecs.Component
	children   []*Instance
}

// Init places the entity, attaches the prefab's components in catalog order
// and spawns its child prefabs.
func (i *Instance) Init() error {
	p := i.prefab
	i.Transform.Position = ecs.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
	i.Transform.Scaling = ecs.Vec3{X: p.Scale, Y: p.Scale, Z: p.Scale}

	for _, spec := range p.Components {
		c, err := i.factory.apply(i, spec)
		if c != nil {
			i.components = append(i.components, c)
		}
		if err != nil {
			return err
		}
	}
	for _, tag := range p.Children {
		child, err := i.factory.spawn(i.Scene(), tag, i.Name()+"/"+tag, i.path)
		if err != nil {
			return eris.Wrapf(err, "child %q", tag)
		}
		// Children are placed relative to this instance.
		cb := child.Base()
		local := cb.Transform.Position
		if err := cb.SetParent(i); err != nil {
			_ = child.Destroy()
			return err
		}
		cb.Transform.Position = local
		i.children = append(i.children, child)
	}
	return nil
}

func (i *Instance) Prefab() string { return i.prefab.Name }

// Components returns the catalog components in attachment order.
func (i *Instance) Components() []ecs.Component {
	out := make([]ecs.Component, len(i.components))
	copy(out, i.components)
	return out
}

// SpawnedChildren returns the child prefab instances.
func (i *Instance) SpawnedChildren() []*Instance {
	out := make([]*Instance, len(i.children))
	copy(out, i.children)
	return out
}
