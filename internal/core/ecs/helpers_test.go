package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// journal records lifecycle calls across entities and components in order.
type journal struct {
	entries []string
}

func (j *journal) add(s string) { j.entries = append(j.entries, s) }

// tracer is a test component that records its lifecycle.
type tracer struct {
	ComponentBase

	j        *journal
	initErr  error
	deferred bool
	enabled  bool
	inits    int
	cleanups int

	onInit    func(p *tracer)
	onCleanup func(p *tracer)
}

func (p *tracer) Init() error {
	p.inits++
	if p.onInit != nil {
		p.onInit(p)
	}
	if p.initErr != nil {
		return p.initErr
	}
	if p.deferred {
		p.DeferReady()
	}
	p.enabled = true
	p.j.add("init:" + p.Name())
	return nil
}

func (p *tracer) Enable()  { p.enabled = true }
func (p *tracer) Disable() { p.enabled = false }

func (p *tracer) Cleanup() {
	p.cleanups++
	if p.onCleanup != nil {
		p.onCleanup(p)
	}
	p.j.add("cleanup:" + p.Name())
}

// node is a test entity. setup runs as its Init.
type node struct {
	EntityBase

	j       *journal
	setup   func(n *node) error
	updates int
	onClean func(n *node)
}

func (n *node) Init() error {
	if n.setup == nil {
		return nil
	}
	return n.setup(n)
}

func (n *node) Update(_ time.Duration) { n.updates++ }

func (n *node) Cleanup() {
	if n.onClean != nil {
		n.onClean(n)
	}
	n.j.add("entity:" + n.Name())
}

// fixture is a scene with three tracer kinds sharing one journal. Tests tweak
// the next tracer built for a kind through the hooks.
type fixture struct {
	t     *testing.T
	scene *Scene
	j     *journal
	kinds *Kinds

	model Kind[*tracer]
	light Kind[*tracer]
	text  Kind[*tracer]

	// next is applied to every tracer the factories build.
	next func(p *tracer)
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		scene: NewScene("test", opts...),
		j:     &journal{},
		kinds: NewKinds(),
	}
	build := func() *tracer {
		p := &tracer{j: f.j}
		if f.next != nil {
			f.next(p)
		}
		return p
	}
	var err error
	f.model, err = NewKind(f.kinds, "Model", build)
	require.NoError(t, err)
	f.light, err = NewKind(f.kinds, "Light", build)
	require.NoError(t, err)
	f.text, err = NewKind(f.kinds, "Text", build)
	require.NoError(t, err)
	return f
}

func (f *fixture) spawn(name string, setup func(n *node) error) *node {
	f.t.Helper()
	n, err := Instantiate(f.scene, name, func() *node { return &node{j: f.j, setup: setup} })
	require.NoError(f.t, err)
	return n
}

func (f *fixture) add(e Entity, kind Kind[*tracer]) *tracer {
	f.t.Helper()
	p, err := AddComponent(e, kind)
	require.NoError(f.t, err)
	return p
}
