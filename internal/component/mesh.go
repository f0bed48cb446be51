package component

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
	"github.com/rotisserie/eris"
)

// skyboxSize is the edge length of the skybox cube.
const skyboxSize = 1000

// Mesh is a primitive shape backed by one render node. The same type serves
// the sphere, cube, plane, ground and skybox kinds; only the node kind
// differs.
type Mesh struct {
	ecs.ComponentBase

	env    *Env
	shape  render.NodeKind
	node   render.NodeID
	locked bool

	Size    float64
	Texture string // skybox cube texture, empty for none
}

func newMesh(env *Env, shape render.NodeKind) *Mesh {
	m := &Mesh{env: env, shape: shape, Size: 1}
	if shape == render.NodeSkybox {
		m.Size = skyboxSize
	}
	return m
}

func (m *Mesh) Init() error {
	return m.createNode(m.shape)
}

func (m *Mesh) createNode(kind render.NodeKind) error {
	if m.env == nil || m.env.Host == nil {
		return eris.Wrapf(ErrNoHost, "%s", m.Name())
	}
	id, err := m.env.Host.CreateNode(m.Name(), kind, m.Owner().Base().ID())
	if err != nil {
		return eris.Wrapf(err, "create %s node", kind)
	}
	m.node = id
	return nil
}

func (m *Mesh) Enable()  { m.setEnabled(true) }
func (m *Mesh) Disable() { m.setEnabled(false) }

func (m *Mesh) setEnabled(on bool) {
	if m.node != 0 {
		m.env.Host.SetEnabled(m.node, on)
	}
}

// Cleanup releases the node and any drag lock this mesh placed. Safe after
// a failed Init.
func (m *Mesh) Cleanup() {
	if m.locked {
		m.SetDraggable(true)
	}
	if m.node != 0 {
		m.env.Host.RemoveNode(m.node)
		m.node = 0
	}
}

func (m *Mesh) Node() render.NodeID    { return m.node }
func (m *Mesh) Shape() render.NodeKind { return m.shape }

// SetDraggable adds or removes the owning entity from the drag lock set.
func (m *Mesh) SetDraggable(drag bool) {
	if m.env == nil || m.env.Locks == nil {
		return
	}
	id := m.Owner().Base().ID()
	if drag {
		m.env.Locks.Unlock(id)
	} else {
		m.env.Locks.Lock(id)
	}
	m.locked = !drag
}
