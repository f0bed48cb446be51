package component

import (
	"time"

	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/scripting"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Script runs a Lua behaviour against its owning entity. It is attached
// unbound; Bind picks the behaviour and runs its on_init.
type Script struct {
	ecs.ComponentBase

	env     *Env
	binding *scripting.Binding
	enabled bool
}

func (s *Script) Init() error {
	if s.env == nil || s.env.Scripts == nil {
		return eris.Wrapf(ErrNoScripts, "%s", s.Name())
	}
	s.enabled = true
	return nil
}

// Bind attaches the named behaviour and runs its on_init hook.
func (s *Script) Bind(behaviour string) error {
	if s.binding != nil {
		return eris.Wrapf(ErrAlreadyBound, "%s to %q", s.Name(), s.binding.Behaviour())
	}
	b, err := s.env.Scripts.Bind(behaviour, entityTarget{e: s.Owner()})
	if err != nil {
		return eris.Wrapf(err, "bind %s", s.Name())
	}
	if err := b.Init(); err != nil {
		return eris.Wrapf(err, "bind %s", s.Name())
	}
	s.binding = b
	return nil
}

// Tick runs on_update. A failing behaviour is disabled so it does not log
// every tick.
func (s *Script) Tick(dt time.Duration) {
	if s.binding == nil || !s.enabled {
		return
	}
	if err := s.binding.Update(dt); err != nil {
		s.env.logger().Warn("script disabled after error",
			zap.String("component", s.Name()),
			zap.String("behaviour", s.binding.Behaviour()),
			zap.Error(err))
		s.enabled = false
	}
}

func (s *Script) Enable()       { s.enabled = true }
func (s *Script) Disable()      { s.enabled = false }
func (s *Script) Enabled() bool { return s.enabled }

func (s *Script) Cleanup() {
	if s.binding != nil {
		s.binding.Cleanup()
		s.binding = nil
	}
	s.enabled = false
}

// Behaviour returns the bound behaviour name, empty while unbound.
func (s *Script) Behaviour() string {
	if s.binding == nil {
		return ""
	}
	return s.binding.Behaviour()
}

// Binding exposes the Lua instance, mostly for inspection in tests.
func (s *Script) Binding() *scripting.Binding { return s.binding }

// entityTarget exposes an entity to Lua. Destroy is deferred to the end of
// the tick since scripts run mid-iteration.
type entityTarget struct {
	e ecs.Entity
}

func (t entityTarget) Name() string { return t.e.Base().Name() }

func (t entityTarget) Position() (x, y, z float64) {
	p := t.e.Base().Transform.Position
	return p.X, p.Y, p.Z
}

func (t entityTarget) SetPosition(x, y, z float64) {
	t.e.Base().Transform.Position = ecs.Vec3{X: x, Y: y, Z: z}
}

func (t entityTarget) Destroy() {
	if s := t.e.Base().Scene(); s != nil {
		s.MarkForDestruction(t.e)
	}
}
