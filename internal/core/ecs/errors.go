package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityDestroyed is returned when a destroyed (or destroying) entity is
	// used to attach or detach components, or destroyed a second time.
	ErrEntityDestroyed = eris.New("entity destroyed")

	// ErrRemovalInProgress is returned when a component's Cleanup calls back
	// into the manager for the entity whose components are being removed.
	ErrRemovalInProgress = eris.New("component removal in progress")

	// ErrInitInProgress is returned when a component's Init adds or removes
	// a component of its own kind on its own entity. Indices and generated
	// names would disagree otherwise.
	ErrInitInProgress = eris.New("component init in progress")

	ErrDuplicateKind = eris.New("component kind already registered")
	ErrUnknownKind   = eris.New("component kind not registered")

	// ErrForeignEntity is returned when an entity is handed to a scene that
	// did not instantiate it.
	ErrForeignEntity = eris.New("entity belongs to another scene")

	// ErrStaleHandle is returned when a handle outlives its component.
	ErrStaleHandle = eris.New("stale component handle")

	ErrNotInstantiated = eris.New("entity was not instantiated")
)
