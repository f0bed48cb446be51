// Package prefab instantiates catalog prefabs as entities.
package prefab

import (
	"strings"

	"github.com/labsim/runtime/internal/component"
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/data"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrUnknownPrefab = eris.New("unknown prefab")
	ErrPrefabCycle   = eris.New("prefab contains itself")
)

// Factory builds Instance entities from a prefab table.
type Factory struct {
	table    *data.PrefabTable
	registry *component.Registry
	log      *zap.Logger
}

func NewFactory(table *data.PrefabTable, registry *component.Registry, log *zap.Logger) *Factory {
	return &Factory{table: table, registry: registry, log: log}
}

func (f *Factory) Has(tag string) bool {
	return f.table.Get(tag) != nil
}

// Spawn instantiates the prefab tag in scene under name. Child prefabs are
// spawned under it, named name+"/"+childTag. Any failing component or child
// rolls the whole instance back.
func (f *Factory) Spawn(scene *ecs.Scene, tag, name string) (*Instance, error) {
	return f.spawn(scene, tag, name, nil)
}

func (f *Factory) spawn(scene *ecs.Scene, tag, name string, path []string) (*Instance, error) {
	p := f.table.Get(tag)
	if p == nil {
		return nil, eris.Wrapf(ErrUnknownPrefab, "%q", tag)
	}
	for _, seen := range path {
		if seen == tag {
			return nil, eris.Wrapf(ErrPrefabCycle, "%s -> %s", strings.Join(path, " -> "), tag)
		}
	}
	path = append(path[:len(path):len(path)], tag)

	inst, err := ecs.Instantiate(scene, name, func() *Instance {
		return &Instance{factory: f, prefab: p, path: path}
	})
	if err != nil {
		return nil, err
	}
	f.log.Debug("prefab spawned", zap.String("prefab", tag), zap.String("name", name))
	return inst, nil
}

// apply attaches one catalog component and applies its options.
func (f *Factory) apply(e *Instance, spec data.ComponentSpec) (ecs.Component, error) {
	kind, ok := f.registry.Lookup(spec.Kind)
	if !ok {
		return nil, eris.Wrapf(ecs.ErrUnknownKind, "%q in prefab %q", spec.Kind, e.prefab.Name)
	}
	c, err := e.Scene().Components().AddComponent(e, kind)
	if err != nil {
		return nil, err
	}
	switch c := c.(type) {
	case *component.Model:
		err = c.Load(spec.Asset)
		f.applyDrag(&c.Mesh, spec)
	case *component.TextPlane:
		c.SetText(spec.Text)
		f.applyDrag(&c.Mesh, spec)
	case *component.Mesh:
		c.Texture = spec.Asset
		f.applyDrag(c, spec)
	case *component.Light:
		if spec.Intensity != nil {
			c.SetIntensity(*spec.Intensity)
		}
	case *component.Script:
		if spec.Behaviour != "" {
			err = c.Bind(spec.Behaviour)
		}
	}
	return c, err
}

func (f *Factory) applyDrag(m *component.Mesh, spec data.ComponentSpec) {
	if spec.Draggable != nil {
		m.SetDraggable(*spec.Draggable)
	}
}
