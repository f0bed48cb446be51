package feature

import (
	"testing"

	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/stretchr/testify/require"
)

type thing struct {
	ecs.EntityBase
}

func spawn(t *testing.T, s *ecs.Scene, name string, pos ecs.Vec3) *thing {
	t.Helper()
	e, err := ecs.Instantiate(s, name, func() *thing { return &thing{} })
	require.NoError(t, err)
	e.Transform.Position = pos
	return e
}
