// Package component holds the concrete component kinds entities are built
// from: meshes, lights, text planes and Lua scripts. Each kind acquires a
// backing node from the render host in Init and releases it in Cleanup.
package component

import (
	"github.com/labsim/runtime/internal/asset"
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
	"github.com/labsim/runtime/internal/scripting"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrNoHost       = eris.New("no render host")
	ErrNoLoader     = eris.New("no asset loader")
	ErrNoScripts    = eris.New("no script engine")
	ErrUnloaded     = eris.New("component cleaned up before its asset loaded")
	ErrAlreadyBound = eris.New("script already bound")
)

// Locker is the scene's drag lock set. Meshes lock their owner when made
// non-draggable.
type Locker interface {
	Lock(id ecs.EntityID)
	Unlock(id ecs.EntityID)
}

// Env is what components reach for during Init. Fields may be nil; kinds
// that need a missing service fail their Init.
type Env struct {
	Host    render.Host
	Assets  *asset.Loader
	Scripts *scripting.Engine
	Locks   Locker
	Log     *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
