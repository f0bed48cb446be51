package main

import (
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/render"
	"go.uber.org/zap"
)

// debugLayer is the headless inspector. With keyboard shortcuts enabled,
// SIGHUP toggles it; showing it logs the live entity tree and node count.
type debugLayer struct {
	log     *zap.Logger
	scene   *ecs.Scene
	host    *render.MemoryHost
	visible bool
}

func (d *debugLayer) toggle() {
	d.visible = !d.visible
	if !d.visible {
		d.log.Info("debug layer hidden")
		return
	}
	d.log.Info("debug layer shown",
		zap.Int("entities", d.scene.Len()),
		zap.Int("nodes", d.host.Count()),
		zap.Strings("kinds", d.scene.Components().Types()))
	for _, e := range d.scene.Entities() {
		b := e.Base()
		parent := ""
		if p := b.Parent(); p != nil {
			parent = p.Base().Name()
		}
		d.log.Info("entity",
			zap.String("name", b.Name()),
			zap.Stringer("id", b.ID()),
			zap.Stringer("state", b.State()),
			zap.String("parent", parent))
	}
}
