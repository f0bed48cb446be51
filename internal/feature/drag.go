// Package feature holds scene-wide interaction features that sit on top of
// the entity tree: controller dragging and locomotion.
package feature

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/core/event"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrNotController = eris.New("entity is not a registered controller")
	ErrLocked        = eris.New("entity is locked against dragging")
	ErrTooFar        = eris.New("entity is out of reach")
	ErrBusy          = eris.New("controller already holds an entity")
	ErrControllerHit = eris.New("target belongs to a controller")
)

// Drag lets controller entities pick up whole entity trees. A grab always
// takes the root of the pointed-at entity and reparents it under the
// controller; release makes it a root again. Roots in the locked set cannot be
// grabbed.
type Drag struct {
	log         *zap.Logger
	maxDistance float64
	locked      map[ecs.EntityID]struct{}
	controllers map[ecs.EntityID]ecs.Entity
	held        map[ecs.EntityID]ecs.Entity // controller -> grabbed root
}

// NewDrag creates the feature. When bus is non-nil, destroyed entities are
// dropped from the locked set and from any grab as their events dispatch.
func NewDrag(maxDistance float64, bus *event.Bus, log *zap.Logger) *Drag {
	d := &Drag{
		log:         log,
		maxDistance: maxDistance,
		locked:      make(map[ecs.EntityID]struct{}),
		controllers: make(map[ecs.EntityID]ecs.Entity),
		held:        make(map[ecs.EntityID]ecs.Entity),
	}
	if bus != nil {
		event.Subscribe(bus, d.onDestroyed)
	}
	return d
}

func (d *Drag) Lock(id ecs.EntityID)   { d.locked[id] = struct{}{} }
func (d *Drag) Unlock(id ecs.EntityID) { delete(d.locked, id) }

func (d *Drag) Locked(id ecs.EntityID) bool {
	_, ok := d.locked[id]
	return ok
}

// AddController registers an entity (typically a hand or motion controller
// rig) as able to grab.
func (d *Drag) AddController(e ecs.Entity) {
	d.controllers[e.Base().ID()] = e
}

func (d *Drag) RemoveController(e ecs.Entity) {
	id := e.Base().ID()
	d.Release(e)
	delete(d.controllers, id)
}

// Grab attaches the root of target to controller. The distance is measured
// from the controller's world position to target's, not to the root's.
func (d *Drag) Grab(controller, target ecs.Entity) error {
	cid := controller.Base().ID()
	if _, ok := d.controllers[cid]; !ok {
		return eris.Wrapf(ErrNotController, "%q", controller.Base().Name())
	}
	if _, busy := d.held[cid]; busy {
		return eris.Wrapf(ErrBusy, "%q", controller.Base().Name())
	}

	root := target
	for root.Base().Parent() != nil {
		if _, ok := d.controllers[root.Base().ID()]; ok {
			return eris.Wrapf(ErrControllerHit, "%q", target.Base().Name())
		}
		root = root.Base().Parent()
	}
	rb := root.Base()
	if _, ok := d.controllers[rb.ID()]; ok {
		return eris.Wrapf(ErrControllerHit, "%q", target.Base().Name())
	}
	if d.Locked(rb.ID()) {
		return eris.Wrapf(ErrLocked, "%q", rb.Name())
	}
	dist := controller.Base().WorldPosition().Distance(target.Base().WorldPosition())
	if dist >= d.maxDistance {
		return eris.Wrapf(ErrTooFar, "%q at %.2f", rb.Name(), dist)
	}

	if err := rb.SetParent(controller); err != nil {
		return err
	}
	d.held[cid] = root
	d.log.Debug("entity grabbed",
		zap.String("controller", controller.Base().Name()),
		zap.String("entity", rb.Name()))
	return nil
}

// Held returns what controller is holding, if anything.
func (d *Drag) Held(controller ecs.Entity) (ecs.Entity, bool) {
	root, ok := d.held[controller.Base().ID()]
	return root, ok
}

// Release detaches the held entity from the controller, keeping its world
// position.
func (d *Drag) Release(controller ecs.Entity) {
	cid := controller.Base().ID()
	root, ok := d.held[cid]
	if !ok {
		return
	}
	delete(d.held, cid)
	rb := root.Base()
	if !rb.Alive() {
		return
	}
	if err := rb.SetParent(nil); err != nil {
		d.log.Warn("release failed", zap.String("entity", rb.Name()), zap.Error(err))
	}
}

func (d *Drag) onDestroyed(ev ecs.EntityDestroyed) {
	delete(d.locked, ev.Entity)
	delete(d.controllers, ev.Entity)
	delete(d.held, ev.Entity)
	for cid, root := range d.held {
		if root.Base().ID() == ev.Entity && !root.Base().Alive() {
			delete(d.held, cid)
		}
	}
}
