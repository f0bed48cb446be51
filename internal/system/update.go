package system

import (
	"time"

	"github.com/labsim/runtime/internal/component"
	"github.com/labsim/runtime/internal/core/ecs"
	coresys "github.com/labsim/runtime/internal/core/system"
)

// EntityUpdateSystem runs every live entity's Update hook.
// Phase 2 (Update).
type EntityUpdateSystem struct {
	scene *ecs.Scene
}

func NewEntityUpdateSystem(scene *ecs.Scene) *EntityUpdateSystem {
	return &EntityUpdateSystem{scene: scene}
}

func (s *EntityUpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EntityUpdateSystem) Update(dt time.Duration) {
	s.scene.Update(dt)
}

// ScriptSystem ticks every attached Script component after the entity
// hooks. Scripts that destroy their entity do so through the destroy queue.
// Phase 2 (Update).
type ScriptSystem struct {
	scene *ecs.Scene
	kind  ecs.Kind[*component.Script]
}

func NewScriptSystem(scene *ecs.Scene, kind ecs.Kind[*component.Script]) *ScriptSystem {
	return &ScriptSystem{scene: scene, kind: kind}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	arr, ok := ecs.ArrayOf(s.scene.Components(), s.kind)
	if !ok {
		return
	}
	arr.Each(func(_ ecs.EntityID, c *component.Script) {
		c.Tick(dt)
	})
}
