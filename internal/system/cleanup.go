package system

import (
	"time"

	"github.com/labsim/runtime/internal/core/ecs"
	coresys "github.com/labsim/runtime/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	scene *ecs.Scene
}

func NewCleanupSystem(scene *ecs.Scene) *CleanupSystem {
	return &CleanupSystem{scene: scene}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.scene.FlushDestroyQueue()
}
