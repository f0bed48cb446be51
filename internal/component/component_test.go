package component

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labsim/runtime/internal/asset"
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
	"github.com/labsim/runtime/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prop struct {
	ecs.EntityBase
}

type lockSet map[ecs.EntityID]bool

func (l lockSet) Lock(id ecs.EntityID)   { l[id] = true }
func (l lockSet) Unlock(id ecs.EntityID) { delete(l, id) }

type rig struct {
	scene    *ecs.Scene
	host     *render.MemoryHost
	locks    lockSet
	registry *Registry
}

func newRig(t *testing.T, env *Env) *rig {
	t.Helper()
	r := &rig{scene: ecs.NewScene("lab"), host: render.NewMemoryHost(), locks: lockSet{}}
	if env == nil {
		env = &Env{}
	}
	env.Host = r.host
	env.Locks = r.locks
	reg, err := NewRegistry(env)
	require.NoError(t, err)
	r.registry = reg
	t.Cleanup(r.scene.Close)
	return r
}

func (r *rig) spawn(t *testing.T, name string) *prop {
	t.Helper()
	p, err := ecs.Instantiate(r.scene, name, func() *prop { return &prop{} })
	require.NoError(t, err)
	return p
}

func TestRegistry_Kinds(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 10, reg.Kinds().Count())
	assert.NotNil(t, reg.Env())

	k, ok := reg.Lookup("pointlight")
	require.True(t, ok)
	assert.Equal(t, KindPointLight, k.Name())
	_, ok = reg.Lookup("Teapot")
	assert.False(t, ok)
}

func TestMesh_NodeLifecycle(t *testing.T) {
	r := newRig(t, nil)
	e := r.spawn(t, "Table")

	cube, err := ecs.AddComponent(e, r.registry.Cube)
	require.NoError(t, err)
	n, ok := r.host.Node(cube.Node())
	require.True(t, ok)
	assert.Equal(t, "TableCube0", n.Name)
	assert.Equal(t, render.NodeCube, n.Kind)
	assert.Equal(t, e.ID(), n.Owner)
	assert.True(t, cube.Loaded())

	cube.Disable()
	n, _ = r.host.Node(cube.Node())
	assert.False(t, n.Enabled)
	cube.Enable()
	n, _ = r.host.Node(cube.Node())
	assert.True(t, n.Enabled)

	require.NoError(t, ecs.RemoveComponent(e, r.registry.Cube))
	assert.Zero(t, r.host.Count())
	assert.Zero(t, cube.Node())
}

func TestMesh_Skybox(t *testing.T) {
	r := newRig(t, nil)
	sky, err := ecs.AddComponent(r.spawn(t, "Sky"), r.registry.Skybox)
	require.NoError(t, err)
	assert.Equal(t, float64(skyboxSize), sky.Size)
	assert.Equal(t, render.NodeSkybox, sky.Shape())
}

func TestMesh_InitFailures(t *testing.T) {
	reg, err := NewRegistry(&Env{})
	require.NoError(t, err)
	scene := ecs.NewScene("bare")
	e, err := ecs.Instantiate(scene, "E", func() *prop { return &prop{} })
	require.NoError(t, err)

	_, err = ecs.AddComponent(e, reg.Sphere)
	assert.ErrorIs(t, err, ErrNoHost)
	_, err = ecs.AddComponent(e, reg.PointLight)
	assert.ErrorIs(t, err, ErrNoHost)
	_, err = ecs.AddComponent(e, reg.Script)
	assert.ErrorIs(t, err, ErrNoScripts)

	r := newRig(t, nil)
	r.host.WithLimit(1)
	f := r.spawn(t, "F")
	_, err = ecs.AddComponent(f, r.registry.Sphere)
	require.NoError(t, err)
	_, err = ecs.AddComponent(f, r.registry.Sphere)
	assert.Error(t, err)
	assert.Equal(t, 1, ecs.CountComponents(f, r.registry.Sphere))
}

func TestMesh_SetDraggable(t *testing.T) {
	r := newRig(t, nil)
	e := r.spawn(t, "Bench")
	m, err := ecs.AddComponent(e, r.registry.Plane)
	require.NoError(t, err)

	m.SetDraggable(false)
	assert.True(t, r.locks[e.ID()])
	m.SetDraggable(true)
	assert.False(t, r.locks[e.ID()])

	m.SetDraggable(false)
	require.NoError(t, e.Destroy())
	assert.Empty(t, r.locks, "cleanup releases the lock")
}

func TestLight_Intensity(t *testing.T) {
	r := newRig(t, nil)
	l, err := ecs.AddComponent(r.spawn(t, "Lamp"), r.registry.AmbientLight)
	require.NoError(t, err)

	assert.Equal(t, 1.0, l.Intensity())
	l.SetIntensity(0.4)
	assert.Equal(t, 0.4, l.Intensity())
	l.SetIntensity(-2)
	assert.Zero(t, l.Intensity())

	n, ok := r.host.Node(l.Node())
	require.True(t, ok)
	assert.Equal(t, render.NodeAmbientLight, n.Kind)
	l.Disable()
	n, _ = r.host.Node(l.Node())
	assert.False(t, n.Enabled)
}

func TestTextPlane_SetText(t *testing.T) {
	r := newRig(t, nil)
	tp, err := ecs.AddComponent(r.spawn(t, "Sign"), r.registry.TextPlane)
	require.NoError(t, err)

	tp.SetText("Add 5ml HCl")
	assert.Equal(t, "Add 5ml HCl", tp.Text())
	assert.Equal(t, defaultFontSize, tp.FontSize)
	n, ok := r.host.Node(tp.Node())
	require.True(t, ok)
	assert.Equal(t, render.NodeText, n.Kind)
	assert.Equal(t, len("Add 5ml HCl"), n.Bytes)
}

func newLoader(t *testing.T) *asset.Loader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flask.glb"), []byte("0123456789"), 0o644))
	l := asset.NewLoader(dir, zap.NewNop())
	t.Cleanup(l.Close)
	return l
}

func await(t *testing.T, l *asset.Loader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Await(ctx))
}

func TestModel_AttachedBeforeLoaded(t *testing.T) {
	loader := newLoader(t)
	r := newRig(t, &Env{Assets: loader})
	e := r.spawn(t, "Flask")

	m, err := ecs.AddComponent(e, r.registry.Model)
	require.NoError(t, err)
	require.NoError(t, m.Load("flask.glb"))
	require.NoError(t, m.Load("other.glb"), "later loads are ignored")

	assert.True(t, m.Attached())
	assert.False(t, m.Loaded())
	assert.Zero(t, m.Node())
	assert.Equal(t, "flask.glb", m.Path())

	await(t, loader)

	require.True(t, m.Loaded())
	n, ok := r.host.Node(m.Node())
	require.True(t, ok)
	assert.Equal(t, render.NodeModel, n.Kind)
	assert.Equal(t, 10, n.Bytes)
}

func TestModel_LoadFailures(t *testing.T) {
	loader := newLoader(t)
	r := newRig(t, &Env{Assets: loader})
	e := r.spawn(t, "Flask")

	missing, err := ecs.AddComponent(e, r.registry.Model)
	require.NoError(t, err)
	require.NoError(t, missing.Load("missing.glb"))
	await(t, loader)
	assert.False(t, missing.Loaded())
	assert.ErrorIs(t, missing.Err(), os.ErrNotExist)
	assert.Zero(t, missing.Node())

	empty, err := ecs.AddComponent(e, r.registry.Model)
	require.NoError(t, err)
	require.NoError(t, empty.Load(""))
	assert.True(t, empty.Loaded())
	assert.Zero(t, empty.Node())

	noLoader := newRig(t, nil)
	m, err := ecs.AddComponent(noLoader.spawn(t, "X"), noLoader.registry.Model)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Load("flask.glb"), ErrNoLoader)
	assert.ErrorIs(t, m.Err(), ErrNoLoader)
}

func TestModel_CleanupBeforeLoad(t *testing.T) {
	loader := newLoader(t)
	r := newRig(t, &Env{Assets: loader})
	e := r.spawn(t, "Flask")

	m, err := ecs.AddComponent(e, r.registry.Model)
	require.NoError(t, err)
	require.NoError(t, m.Load("flask.glb"))
	require.NoError(t, ecs.RemoveComponent(e, r.registry.Model))

	assert.ErrorIs(t, m.Err(), ErrUnloaded)
	await(t, loader)
	assert.Zero(t, r.host.Count(), "a late completion creates no node")
}

const spinner = `
spinner = {}
function spinner.on_init(self) self.spins = 0 end
function spinner.on_update(self, dt)
  self.spins = self.spins + 1
  self:translate(dt, 0, 0)
  if self.spins == 3 then self:destroy() end
end
`

func newScripts(t *testing.T, src string) *scripting.Engine {
	t.Helper()
	eng, err := scripting.NewEngine("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	require.NoError(t, eng.LoadString("test", src))
	return eng
}

func TestScript_BindAndTick(t *testing.T) {
	r := newRig(t, &Env{Scripts: newScripts(t, spinner)})
	e := r.spawn(t, "Stirrer")

	s, err := ecs.AddComponent(e, r.registry.Script)
	require.NoError(t, err)
	assert.Empty(t, s.Behaviour())
	s.Tick(time.Second) // unbound, nothing happens

	require.NoError(t, s.Bind("spinner"))
	assert.Equal(t, "spinner", s.Behaviour())
	assert.ErrorIs(t, s.Bind("spinner"), ErrAlreadyBound)

	s.Disable()
	s.Tick(time.Second)
	assert.Zero(t, e.Transform.Position.X)
	s.Enable()

	s.Tick(time.Second)
	s.Tick(time.Second)
	assert.InDelta(t, 2.0, e.Transform.Position.X, 1e-9)
	assert.True(t, r.scene.Alive(e.ID()))

	s.Tick(time.Second)
	assert.True(t, r.scene.Alive(e.ID()), "destroy from Lua waits for the flush")
	r.scene.FlushDestroyQueue()
	assert.False(t, r.scene.Alive(e.ID()))
	assert.Nil(t, s.Binding())
}

func TestScript_ErrorsDisable(t *testing.T) {
	r := newRig(t, &Env{Scripts: newScripts(t, `
faulty = {}
function faulty.on_update(self, dt) error("boom") end
bad_init = {}
function bad_init.on_init(self) error("nope") end
`)})
	e := r.spawn(t, "E")

	s, err := ecs.AddComponent(e, r.registry.Script)
	require.NoError(t, err)
	require.NoError(t, s.Bind("faulty"))
	s.Tick(time.Millisecond)
	assert.False(t, s.Enabled())

	other, err := ecs.AddComponent(e, r.registry.Script)
	require.NoError(t, err)
	assert.Error(t, other.Bind("bad_init"))
	assert.Empty(t, other.Behaviour())
	assert.Error(t, other.Bind("undefined"))
}
