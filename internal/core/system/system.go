package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: apply finished asset loads, feature input
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: entity and script updates
	PhasePostUpdate              // 3: features reacting to the new state
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
