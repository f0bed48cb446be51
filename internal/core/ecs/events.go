package ecs

// Lifecycle events published on the scene's bus, if it has one. Events
// emitted during tick N are dispatched in tick N+1.

type EntityInstantiated struct {
	Entity EntityID
	Name   string
}

type EntityDestroyed struct {
	Entity EntityID
	Name   string
}

type ComponentAttached struct {
	Entity EntityID
	Kind   string
	Name   string
	Index  int
}

type ComponentDetached struct {
	Entity EntityID
	Kind   string
	Name   string
}
