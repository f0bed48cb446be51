package system

import (
	"time"

	"github.com/labsim/runtime/internal/core/event"
	coresys "github.com/labsim/runtime/internal/core/system"
)

// EventSystem swaps the bus buffers and delivers last tick's events.
// Phase 1 (PreUpdate).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
