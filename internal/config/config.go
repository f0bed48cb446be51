package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Scene    SceneConfig    `toml:"scene"`
	Loop     LoopConfig     `toml:"loop"`
	Logging  LoggingConfig  `toml:"logging"`
	Paths    PathsConfig    `toml:"paths"`
	Features FeaturesConfig `toml:"features"`
	Profile  ProfileConfig  `toml:"profile"`
}

type SceneConfig struct {
	Name     string         `toml:"name"`
	Camera   CameraConfig   `toml:"camera"`
	Defaults DefaultsConfig `toml:"defaults"`
	Spawn    []SpawnConfig  `toml:"spawn"`
}

type CameraConfig struct {
	Type          string `toml:"type"` // "universal" or "arcrotate"
	AttachControl bool   `toml:"attach_control"`
}

// DefaultsConfig toggles the stock scene furniture created at startup.
type DefaultsConfig struct {
	Lights            bool `toml:"lights"`
	Skybox            bool `toml:"skybox"`
	Environment       bool `toml:"environment"`
	VR                bool `toml:"vr"`
	KeyboardShortcuts bool `toml:"keyboard_shortcuts"`
}

// SpawnConfig instantiates one catalog prefab at startup.
type SpawnConfig struct {
	Prefab   string     `toml:"prefab"`
	Name     string     `toml:"name"`
	Count    int        `toml:"count"`
	Position [3]float64 `toml:"position"`
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks uint64        `toml:"max_ticks"` // 0 = run until signalled
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type PathsConfig struct {
	Catalog string `toml:"catalog"`
	Scripts string `toml:"scripts"`
	Assets  string `toml:"assets"`
}

type FeaturesConfig struct {
	DragMaxDistance float64       `toml:"drag_max_distance"`
	TeleportTime    time.Duration `toml:"teleport_time"`
	MovementSpeed   float64       `toml:"movement_speed"`
	Locomotion      string        `toml:"locomotion"` // "teleport", "movement", "walk_in_place" or ""
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "off", "cpu" or "mem"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	switch c.Scene.Camera.Type {
	case "universal", "arcrotate":
	default:
		return fmt.Errorf("scene.camera.type: unknown camera %q", c.Scene.Camera.Type)
	}
	switch c.Features.Locomotion {
	case "", "teleport", "movement", "walk_in_place":
	default:
		return fmt.Errorf("features.locomotion: unknown mode %q", c.Features.Locomotion)
	}
	switch c.Profile.Mode {
	case "", "off", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode: unknown mode %q", c.Profile.Mode)
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	for i, s := range c.Scene.Spawn {
		if s.Prefab == "" {
			return fmt.Errorf("scene.spawn[%d]: prefab is required", i)
		}
		if s.Count < 0 {
			return fmt.Errorf("scene.spawn[%d]: negative count", i)
		}
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Scene: SceneConfig{
			Name: "lab",
			Camera: CameraConfig{
				Type:          "universal",
				AttachControl: true,
			},
			Defaults: DefaultsConfig{
				Lights: true,
			},
		},
		Loop: LoopConfig{
			TickRate: time.Second / 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Paths: PathsConfig{
			Catalog: "data/prefabs.yaml",
			Scripts: "scripts",
			Assets:  "assets",
		},
		Features: FeaturesConfig{
			DragMaxDistance: 10,
			TeleportTime:    2 * time.Second,
			MovementSpeed:   0.1,
			Locomotion:      "teleport",
		},
		Profile: ProfileConfig{
			Mode: "off",
			Path: ".",
		},
	}
}
