package ecs

import (
	"context"
	"sync"
)

// Initializable acquires whatever backing resource a component represents.
type Initializable interface {
	Init() error
}

// Toggleable switches a component's visible/active effect without touching
// its backing state. Both methods are idempotent.
type Toggleable interface {
	Enable()
	Disable()
}

// Disposable releases backing resources. Implementations must tolerate a
// partially completed Init.
type Disposable interface {
	Cleanup()
}

// Component is the capability set every attachable unit implements.
// Concrete components embed ComponentBase, which supplies the bookkeeping
// the arrays rely on.
type Component interface {
	Initializable
	Toggleable
	Disposable
	component() *ComponentBase
}

// ComponentBase carries the identity of an attached component: its generated
// name, its current position in the owner's per-kind list, and explicit
// references to the owning entity and scene.
type ComponentBase struct {
	name     string
	kind     TypeID
	index    int
	owner    Entity
	scene    *Scene
	attached bool

	deferReady bool
	ready      *readySignal
}

func (c *ComponentBase) component() *ComponentBase { return c }

func (c *ComponentBase) Name() string   { return c.name }
func (c *ComponentBase) Owner() Entity  { return c.owner }
func (c *ComponentBase) Scene() *Scene  { return c.scene }
func (c *ComponentBase) Attached() bool { return c.attached }

// Index is the component's position among the owner's components of the
// same kind. It shifts down when an earlier sibling is removed; hold a
// Handle instead of caching it.
func (c *ComponentBase) Index() int { return c.index }

// DeferReady is called from Init by components whose backing resource
// arrives later. The component must eventually call Resolve.
func (c *ComponentBase) DeferReady() { c.deferReady = true }

// Resolve completes the Ready signal. Only the first call has an effect.
func (c *ComponentBase) Resolve(err error) {
	c.signal().resolve(err)
}

// Ready is closed once the component's backing resource is available (or
// failed to load). Attached does not imply ready.
func (c *ComponentBase) Ready() <-chan struct{} { return c.signal().ch }

// Loaded reports whether Ready has been resolved without error.
func (c *ComponentBase) Loaded() bool {
	s := c.signal()
	select {
	case <-s.ch:
		return s.err == nil
	default:
		return false
	}
}

// Err returns the load error once Ready is closed, nil before that.
func (c *ComponentBase) Err() error {
	s := c.signal()
	select {
	case <-s.ch:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the component is ready or ctx is done.
func (c *ComponentBase) Wait(ctx context.Context) error {
	s := c.signal()
	select {
	case <-s.ch:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ComponentBase) signal() *readySignal {
	if c.ready == nil {
		c.ready = newReadySignal()
	}
	return c.ready
}

type readySignal struct {
	once sync.Once
	ch   chan struct{}
	err  error
}

func newReadySignal() *readySignal {
	return &readySignal{ch: make(chan struct{})}
}

func (s *readySignal) resolve(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.ch)
	})
}
