package system

import (
	"time"

	"github.com/labsim/runtime/internal/asset"
	coresys "github.com/labsim/runtime/internal/core/system"
)

// AssetPumpSystem applies finished asset loads on the tick goroutine, so
// models that resolve this tick are visible to the rest of it.
// Phase 0 (Input).
type AssetPumpSystem struct {
	loader *asset.Loader
}

func NewAssetPumpSystem(loader *asset.Loader) *AssetPumpSystem {
	return &AssetPumpSystem{loader: loader}
}

func (s *AssetPumpSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *AssetPumpSystem) Update(_ time.Duration) {
	s.loader.Pump()
}
