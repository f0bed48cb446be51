package ecs

import (
	"time"

	"github.com/google/uuid"
	"github.com/labsim/runtime/internal/core/event"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Scene is the top-level container. It owns the entity pool, the live entity
// set, the component manager, and a deferred destruction queue flushed by
// the cleanup system each tick.
type Scene struct {
	id   uuid.UUID
	name string
	log  *zap.Logger
	bus  *event.Bus

	pool         *EntityPool
	components   *ComponentManager
	live         map[EntityID]Entity
	order        []EntityID // instantiation order
	destroyQueue []EntityID
}

// Option configures a Scene.
type Option func(*Scene)

func WithLogger(log *zap.Logger) Option {
	return func(s *Scene) { s.log = log }
}

// WithBus makes the scene publish lifecycle events.
func WithBus(bus *event.Bus) Option {
	return func(s *Scene) { s.bus = bus }
}

func NewScene(name string, opts ...Option) *Scene {
	s := &Scene{
		id:           uuid.New(),
		name:         name,
		log:          zap.NewNop(),
		pool:         NewEntityPool(),
		live:         make(map[EntityID]Entity, 256),
		order:        make([]EntityID, 0, 256),
		destroyQueue: make([]EntityID, 0, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("scene", name), zap.String("scene_id", s.id.String()))
	s.components = newComponentManager(s, s.log)
	return s
}

func (s *Scene) ID() uuid.UUID                 { return s.id }
func (s *Scene) Name() string                  { return s.name }
func (s *Scene) Log() *zap.Logger              { return s.log }
func (s *Scene) Bus() *event.Bus               { return s.bus }
func (s *Scene) Components() *ComponentManager { return s.components }

// Instantiate builds an entity, registers it in the live set under name and
// runs its Init. If Init fails the entity is rolled back: its components are
// cleaned up, it leaves the live set and ends up destroyed. An entity that
// destroys itself during Init is not returned.
func Instantiate[E Entity](s *Scene, name string, build func() E) (E, error) {
	var zero E
	e := build()
	if err := s.register(e, name); err != nil {
		return zero, err
	}
	if err := e.Init(); err != nil {
		s.log.Warn("entity init failed, rolling back",
			zap.String("name", name),
			zap.Stringer("id", e.Base().id),
			zap.Error(err))
		if e.Base().state < StateDestroying {
			s.destroy(e)
		}
		return zero, eris.Wrapf(err, "init entity %q", name)
	}
	b := e.Base()
	if b.state >= StateDestroying {
		return zero, eris.Wrapf(ErrEntityDestroyed, "entity %q destroyed during init", name)
	}
	if b.state == StateConstructed {
		b.state = StateInitialized
	}
	emit(s, EntityInstantiated{Entity: b.id, Name: b.name})
	return e, nil
}

func (s *Scene) register(e Entity, name string) error {
	b := e.Base()
	if b.scene != nil {
		return eris.Errorf("entity %q is already instantiated", b.name)
	}
	b.id = s.pool.Create()
	b.name = name
	b.scene = s
	b.self = e
	b.state = StateConstructed
	if b.Transform.Scaling == (Vec3{}) {
		b.Transform.Scaling = Vec3{1, 1, 1}
	}
	s.live[b.id] = e
	s.order = append(s.order, b.id)
	s.log.Debug("entity created", zap.String("name", name), zap.Stringer("id", b.id))
	return nil
}

// Destroy tears e down: children first (depth-first, leaves before parents),
// then e's Cleanup hook, then it leaves its parent and the live set and is
// evicted from every component array. Destroying twice is an error.
func (s *Scene) Destroy(e Entity) error {
	b := e.Base()
	switch {
	case b.scene == nil:
		return ErrNotInstantiated
	case b.scene != s:
		return eris.Wrapf(ErrForeignEntity, "entity %q", b.name)
	case b.state >= StateDestroying:
		return eris.Wrapf(ErrEntityDestroyed, "entity %q (%s)", b.name, b.id)
	}
	s.destroy(e)
	return nil
}

func (s *Scene) destroy(e Entity) {
	b := e.Base()
	b.state = StateDestroying
	for _, child := range b.Children() {
		if child.Base().state < StateDestroying {
			s.destroy(child)
		}
	}
	e.Cleanup()

	b.detach()
	s.removeLive(b.id)
	s.components.RemoveEntity(e)
	s.pool.Destroy(b.id)
	b.state = StateDestroyed

	s.log.Debug("entity destroyed", zap.String("name", b.name), zap.Stringer("id", b.id))
	emit(s, EntityDestroyed{Entity: b.id, Name: b.name})
}

func (s *Scene) removeLive(id EntityID) {
	delete(s.live, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Use it from
// Update, where destroying immediately would disturb the iteration.
func (s *Scene) MarkForDestruction(e Entity) {
	b := e.Base()
	if b.scene != s || b.state >= StateDestroying {
		return
	}
	s.destroyQueue = append(s.destroyQueue, b.id)
}

// FlushDestroyQueue destroys all queued entities that are still alive.
// Called by the cleanup system at the end of each tick.
func (s *Scene) FlushDestroyQueue() {
	for len(s.destroyQueue) > 0 {
		queue := s.destroyQueue
		s.destroyQueue = make([]EntityID, 0, cap(queue))
		for _, id := range queue {
			if e, ok := s.live[id]; ok && e.Base().state < StateDestroying {
				s.destroy(e)
			}
		}
	}
}

// Alive reports whether id names an entity in the live set.
func (s *Scene) Alive(id EntityID) bool {
	_, ok := s.live[id]
	return ok
}

func (s *Scene) Entity(id EntityID) (Entity, bool) {
	e, ok := s.live[id]
	return e, ok
}

// Entities returns the live set in instantiation order.
func (s *Scene) Entities() []Entity {
	out := make([]Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.live[id])
	}
	return out
}

func (s *Scene) Len() int { return len(s.live) }

// Update runs one tick over every live entity in instantiation order.
// Entities instantiated during the tick start updating next tick.
func (s *Scene) Update(dt time.Duration) {
	for _, e := range s.Entities() {
		b := e.Base()
		if b.state < StateInitialized || b.state >= StateDestroying {
			continue
		}
		b.state = StateActive
		e.Update(dt)
	}
}

// Close destroys every remaining root entity, newest first. Children go with
// their roots.
func (s *Scene) Close() {
	s.destroyQueue = s.destroyQueue[:0]
	roots := s.Entities()
	for i := len(roots) - 1; i >= 0; i-- {
		b := roots[i].Base()
		if b.parent == nil && b.state < StateDestroying {
			s.destroy(roots[i])
		}
	}
	s.log.Debug("scene closed")
}

func emit[T any](s *Scene, ev T) {
	if s.bus != nil {
		event.Emit(s.bus, ev)
	}
}
