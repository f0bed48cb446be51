package component

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
)

// Kind names, as written in prefab catalogs (matched case-insensitively).
const (
	KindSphere       = "Sphere"
	KindCube         = "Cube"
	KindPlane        = "Plane"
	KindGround       = "Ground"
	KindSkybox       = "Skybox"
	KindModel        = "Model"
	KindPointLight   = "PointLight"
	KindAmbientLight = "AmbientLight"
	KindTextPlane    = "TextPlane"
	KindScript       = "Script"
)

// Registry registers every component kind against one Env.
type Registry struct {
	kinds *ecs.Kinds
	env   *Env

	Sphere       ecs.Kind[*Mesh]
	Cube         ecs.Kind[*Mesh]
	Plane        ecs.Kind[*Mesh]
	Ground       ecs.Kind[*Mesh]
	Skybox       ecs.Kind[*Mesh]
	Model        ecs.Kind[*Model]
	PointLight   ecs.Kind[*Light]
	AmbientLight ecs.Kind[*Light]
	TextPlane    ecs.Kind[*TextPlane]
	Script       ecs.Kind[*Script]
}

func NewRegistry(env *Env) (*Registry, error) {
	if env == nil {
		env = &Env{}
	}
	r := &Registry{kinds: ecs.NewKinds(), env: env}

	meshes := []struct {
		kind  *ecs.Kind[*Mesh]
		name  string
		shape render.NodeKind
	}{
		{&r.Sphere, KindSphere, render.NodeSphere},
		{&r.Cube, KindCube, render.NodeCube},
		{&r.Plane, KindPlane, render.NodePlane},
		{&r.Ground, KindGround, render.NodeGround},
		{&r.Skybox, KindSkybox, render.NodeSkybox},
	}
	for _, m := range meshes {
		shape := m.shape
		k, err := ecs.NewKind(r.kinds, m.name, func() *Mesh { return newMesh(env, shape) })
		if err != nil {
			return nil, err
		}
		*m.kind = k
	}

	var err error
	if r.Model, err = ecs.NewKind(r.kinds, KindModel, func() *Model {
		return &Model{Mesh: Mesh{env: env, shape: render.NodeModel, Size: 1}}
	}); err != nil {
		return nil, err
	}
	if r.PointLight, err = ecs.NewKind(r.kinds, KindPointLight, func() *Light {
		return newLight(env, render.NodePointLight)
	}); err != nil {
		return nil, err
	}
	if r.AmbientLight, err = ecs.NewKind(r.kinds, KindAmbientLight, func() *Light {
		return newLight(env, render.NodeAmbientLight)
	}); err != nil {
		return nil, err
	}
	if r.TextPlane, err = ecs.NewKind(r.kinds, KindTextPlane, func() *TextPlane {
		return &TextPlane{Mesh: Mesh{env: env, shape: render.NodeText, Size: 1}, FontSize: defaultFontSize}
	}); err != nil {
		return nil, err
	}
	if r.Script, err = ecs.NewKind(r.kinds, KindScript, func() *Script {
		return &Script{env: env}
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Env() *Env { return r.env }

func (r *Registry) Kinds() *ecs.Kinds { return r.kinds }

// Lookup resolves a catalog kind name.
func (r *Registry) Lookup(name string) (ecs.ComponentKind, bool) {
	return r.kinds.Lookup(name)
}
