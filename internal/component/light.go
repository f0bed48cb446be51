package component

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
	"github.com/rotisserie/eris"
)

// Light is a point or ambient light source.
type Light struct {
	ecs.ComponentBase

	env       *Env
	kind      render.NodeKind
	node      render.NodeID
	intensity float64
}

func newLight(env *Env, kind render.NodeKind) *Light {
	return &Light{env: env, kind: kind, intensity: 1}
}

func (l *Light) Init() error {
	if l.env == nil || l.env.Host == nil {
		return eris.Wrapf(ErrNoHost, "%s", l.Name())
	}
	id, err := l.env.Host.CreateNode(l.Name(), l.kind, l.Owner().Base().ID())
	if err != nil {
		return eris.Wrapf(err, "create %s node", l.kind)
	}
	l.node = id
	return nil
}

func (l *Light) Enable() {
	if l.node != 0 {
		l.env.Host.SetEnabled(l.node, true)
	}
}

func (l *Light) Disable() {
	if l.node != 0 {
		l.env.Host.SetEnabled(l.node, false)
	}
}

func (l *Light) Cleanup() {
	if l.node != 0 {
		l.env.Host.RemoveNode(l.node)
		l.node = 0
	}
}

func (l *Light) Intensity() float64 { return l.intensity }

// SetIntensity clamps negative values to zero.
func (l *Light) SetIntensity(v float64) {
	if v < 0 {
		v = 0
	}
	l.intensity = v
}

func (l *Light) Node() render.NodeID { return l.node }
