package feature

import (
	"math"
	"time"

	"github.com/labsim/runtime/internal/core/ecs"
	coresys "github.com/labsim/runtime/internal/core/system"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Mode is the active locomotion style. Modes are mutually exclusive.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeTeleport
	ModeMovement
	ModeWalkInPlace
)

func (m Mode) String() string {
	switch m {
	case ModeTeleport:
		return "teleport"
	case ModeMovement:
		return "movement"
	case ModeWalkInPlace:
		return "walk_in_place"
	}
	return "none"
}

// ParseMode maps a config value to a Mode. The empty string is ModeNone.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "none":
		return ModeNone, nil
	case "teleport":
		return ModeTeleport, nil
	case "movement":
		return ModeMovement, nil
	case "walk_in_place":
		return ModeWalkInPlace, nil
	}
	return ModeNone, eris.Errorf("unknown locomotion mode %q", s)
}

var (
	ErrWrongMode = eris.New("locomotion mode not enabled")
	ErrNoFloor   = eris.New("teleport target is not over a floor")
)

type teleport struct {
	rig     ecs.Entity
	target  ecs.Vec3
	elapsed time.Duration
}

// Locomotion moves the player rig around the scene. Teleports must land on
// a registered floor and complete after the configured aim time; movement
// translates the rig at a fixed speed.
type Locomotion struct {
	log  *zap.Logger
	mode Mode

	floors       map[ecs.EntityID]ecs.Entity
	teleportTime time.Duration
	pending      *teleport

	speed  float64
	target ecs.Entity // walk-in-place locomotion target
}

func NewLocomotion(log *zap.Logger) *Locomotion {
	return &Locomotion{
		log:    log,
		floors: make(map[ecs.EntityID]ecs.Entity),
	}
}

func (l *Locomotion) Mode() Mode { return l.mode }

// EnableTeleportation switches to teleport mode with the given floors.
func (l *Locomotion) EnableTeleportation(floors []ecs.Entity, teleportTime time.Duration) {
	l.Disable()
	l.mode = ModeTeleport
	l.teleportTime = teleportTime
	for _, f := range floors {
		l.AddFloor(f)
	}
	l.log.Info("locomotion enabled", zap.Stringer("mode", l.mode), zap.Int("floors", len(l.floors)))
}

// EnableControllerMovement switches to continuous movement at speed units
// per second.
func (l *Locomotion) EnableControllerMovement(speed float64) {
	l.Disable()
	l.mode = ModeMovement
	l.speed = speed
	l.log.Info("locomotion enabled", zap.Stringer("mode", l.mode), zap.Float64("speed", speed))
}

// EnableWalkingInPlace makes target the entity the camera follows.
func (l *Locomotion) EnableWalkingInPlace(target ecs.Entity) {
	l.Disable()
	l.mode = ModeWalkInPlace
	l.target = target
	l.log.Info("locomotion enabled", zap.Stringer("mode", l.mode))
}

// Disable turns every mode off and cancels a pending teleport. Floors stay
// registered.
func (l *Locomotion) Disable() {
	l.mode = ModeNone
	l.pending = nil
	l.target = nil
}

func (l *Locomotion) AddFloor(f ecs.Entity)    { l.floors[f.Base().ID()] = f }
func (l *Locomotion) RemoveFloor(f ecs.Entity) { delete(l.floors, f.Base().ID()) }

// WalkTarget is the entity followed in walk-in-place mode.
func (l *Locomotion) WalkTarget() ecs.Entity { return l.target }

// OnFloor reports whether p lies over a live floor. A floor is a unit square
// in the XZ plane around its world position, stretched by its scaling.
func (l *Locomotion) OnFloor(p ecs.Vec3) bool {
	for id, f := range l.floors {
		b := f.Base()
		if !b.Alive() {
			delete(l.floors, id)
			continue
		}
		c := b.WorldPosition()
		s := b.Transform.Scaling
		if math.Abs(p.X-c.X) <= s.X/2 && math.Abs(p.Z-c.Z) <= s.Z/2 {
			return true
		}
	}
	return false
}

// Teleport aims rig at target. The rig moves once the aim has been held for
// the teleport time, on a later Update; a zero teleport time moves it at
// once. A new aim replaces the previous one.
func (l *Locomotion) Teleport(rig ecs.Entity, target ecs.Vec3) error {
	if l.mode != ModeTeleport {
		return eris.Wrapf(ErrWrongMode, "teleport while %s", l.mode)
	}
	if !l.OnFloor(target) {
		return eris.Wrapf(ErrNoFloor, "target %v", target)
	}
	l.pending = &teleport{rig: rig, target: target}
	if l.teleportTime <= 0 {
		l.finishTeleport()
	}
	return nil
}

// CancelTeleport drops a pending aim.
func (l *Locomotion) CancelTeleport() { l.pending = nil }

func (l *Locomotion) finishTeleport() {
	p := l.pending
	l.pending = nil
	b := p.rig.Base()
	if !b.Alive() {
		return
	}
	b.Transform.Position = p.target
	l.log.Debug("teleported", zap.String("rig", b.Name()),
		zap.Float64("x", p.target.X), zap.Float64("y", p.target.Y), zap.Float64("z", p.target.Z))
}

// Move translates rig along dir, normalised, for dt.
func (l *Locomotion) Move(rig ecs.Entity, dir ecs.Vec3, dt time.Duration) error {
	if l.mode != ModeMovement {
		return eris.Wrapf(ErrWrongMode, "move while %s", l.mode)
	}
	n := dir.Len()
	if n == 0 {
		return nil
	}
	step := dir.Scale(l.speed * dt.Seconds() / n)
	b := rig.Base()
	b.Transform.Position = b.Transform.Position.Add(step)
	return nil
}

func (l *Locomotion) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// Update advances a pending teleport.
func (l *Locomotion) Update(dt time.Duration) {
	if l.pending == nil {
		return
	}
	l.pending.elapsed += dt
	if l.pending.elapsed >= l.teleportTime {
		l.finishTeleport()
	}
}
