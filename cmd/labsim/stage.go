package main

import (
	"github.com/labsim/runtime/internal/component"
	"github.com/labsim/runtime/internal/config"
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/feature"
)

// fixture is a stock scene entity whose components are attached by a
// closure instead of a catalog entry.
type fixture struct {
	ecs.EntityBase
	setup func(e *fixture) error
}

func (f *fixture) Init() error {
	if f.setup == nil {
		return nil
	}
	return f.setup(f)
}

// camera is the scene's viewpoint. Input controls drive it only when
// attached.
type camera struct {
	ecs.EntityBase
	kind     string
	attached bool
}

func (c *camera) Init() error {
	c.Transform.Position = ecs.Vec3{Y: 1.6, Z: -2}
	return nil
}

// stage creates the furniture every scene starts with, as selected by
// [scene.defaults].
type stage struct {
	scene    *ecs.Scene
	registry *component.Registry
	drag     *feature.Drag
	loco     *feature.Locomotion
	cfg      *config.Config
	camera   *camera
}

func (s *stage) add(name string, setup func(e *fixture) error) (*fixture, error) {
	return ecs.Instantiate(s.scene, name, func() *fixture { return &fixture{setup: setup} })
}

func (s *stage) build() error {
	d := s.cfg.Scene.Defaults
	r := s.registry

	cc := s.cfg.Scene.Camera
	cam, err := ecs.Instantiate(s.scene, "Camera", func() *camera {
		return &camera{kind: cc.Type, attached: cc.AttachControl}
	})
	if err != nil {
		return err
	}
	s.camera = cam
	if cam.attached {
		printOK("camera: " + cam.kind + ", controls attached")
	} else {
		printOK("camera: " + cam.kind)
	}

	if d.Lights {
		if _, err := s.add("Light", func(e *fixture) error {
			if _, err := ecs.AddComponent(e, r.AmbientLight); err != nil {
				return err
			}
			_, err := ecs.AddComponent(e, r.PointLight)
			return err
		}); err != nil {
			return err
		}
		printOK("lights")
	}

	if d.Skybox {
		if _, err := s.add("Skybox", func(e *fixture) error {
			m, err := ecs.AddComponent(e, r.Skybox)
			if err != nil {
				return err
			}
			m.SetDraggable(false)
			return nil
		}); err != nil {
			return err
		}
		printOK("skybox")
	}

	var floors []ecs.Entity
	if d.Environment {
		ground, err := s.add("Ground", func(e *fixture) error {
			e.Transform.Scaling = ecs.Vec3{X: 20, Y: 1, Z: 20}
			m, err := ecs.AddComponent(e, r.Ground)
			if err != nil {
				return err
			}
			m.SetDraggable(false)
			return nil
		})
		if err != nil {
			return err
		}
		floors = append(floors, ground)
		printOK("environment")
	}

	if d.VR {
		for _, hand := range []string{"LeftController", "RightController"} {
			c, err := s.add(hand, nil)
			if err != nil {
				return err
			}
			s.drag.AddController(c)
		}
		printOK("vr controllers")
	}

	mode, err := feature.ParseMode(s.cfg.Features.Locomotion)
	if err != nil {
		return err
	}
	switch mode {
	case feature.ModeTeleport:
		s.loco.EnableTeleportation(floors, s.cfg.Features.TeleportTime)
	case feature.ModeMovement:
		s.loco.EnableControllerMovement(s.cfg.Features.MovementSpeed)
	case feature.ModeWalkInPlace:
		s.loco.EnableWalkingInPlace(s.camera)
	}
	return nil
}
