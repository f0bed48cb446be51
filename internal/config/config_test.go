package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "lab", cfg.Scene.Name)
	assert.Equal(t, "universal", cfg.Scene.Camera.Type)
	assert.True(t, cfg.Scene.Defaults.Lights)
	assert.Equal(t, time.Second/60, cfg.Loop.TickRate)
	assert.Equal(t, "teleport", cfg.Features.Locomotion)
	assert.Equal(t, 10.0, cfg.Features.DragMaxDistance)
	require.NoError(t, cfg.validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[scene]
name = "chemistry"

[scene.camera]
type = "arcrotate"

[scene.defaults]
skybox = true
vr = true

[[scene.spawn]]
prefab = "tray"
count = 3
position = [0.0, 1.0, 2.0]

[loop]
tick_rate = "50ms"
max_ticks = 100

[features]
locomotion = "movement"
movement_speed = 0.5
teleport_time = "1s"
`))
	require.NoError(t, err)

	assert.Equal(t, "chemistry", cfg.Scene.Name)
	assert.Equal(t, "arcrotate", cfg.Scene.Camera.Type)
	assert.True(t, cfg.Scene.Camera.AttachControl, "untouched keys keep defaults")
	assert.True(t, cfg.Scene.Defaults.Skybox)
	assert.True(t, cfg.Scene.Defaults.Lights)
	require.Len(t, cfg.Scene.Spawn, 1)
	assert.Equal(t, SpawnConfig{Prefab: "tray", Count: 3, Position: [3]float64{0, 1, 2}}, cfg.Scene.Spawn[0])
	assert.Equal(t, 50*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, uint64(100), cfg.Loop.MaxTicks)
	assert.Equal(t, "movement", cfg.Features.Locomotion)
	assert.Equal(t, time.Second, cfg.Features.TeleportTime)
	assert.Equal(t, "data/prefabs.yaml", cfg.Paths.Catalog)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"camera", "[scene.camera]\ntype = \"fisheye\""},
		{"locomotion", "[features]\nlocomotion = \"fly\""},
		{"profile", "[profile]\nmode = \"trace\""},
		{"tick rate", "[loop]\ntick_rate = \"0s\""},
		{"spawn without prefab", "[[scene.spawn]]\ncount = 1"},
		{"negative count", "[[scene.spawn]]\nprefab = \"x\"\ncount = -1"},
		{"syntax", "[scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labsim.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\nformat = \"json\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
