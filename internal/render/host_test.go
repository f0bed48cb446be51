package render

import (
	"testing"

	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHost_Lifecycle(t *testing.T) {
	h := NewMemoryHost()
	owner := ecs.NewEntityID(3, 0)

	id, err := h.CreateNode("TrayModel0", NodeModel, owner)
	require.NoError(t, err)

	n, ok := h.Node(id)
	require.True(t, ok)
	assert.Equal(t, "TrayModel0", n.Name)
	assert.Equal(t, NodeModel, n.Kind)
	assert.Equal(t, owner, n.Owner)
	assert.True(t, n.Enabled)

	h.SetEnabled(id, false)
	h.SetPayload(id, 128)
	n, _ = h.Node(id)
	assert.False(t, n.Enabled)
	assert.Equal(t, 128, n.Bytes)

	h.RemoveNode(id)
	_, ok = h.Node(id)
	assert.False(t, ok)
	assert.Zero(t, h.Count())

	// Unknown ids are ignored.
	h.SetEnabled(id, true)
	h.RemoveNode(id)
}

func TestMemoryHost_Limit(t *testing.T) {
	h := NewMemoryHost().WithLimit(1)
	_, err := h.CreateNode("a", NodeCube, 0)
	require.NoError(t, err)
	_, err = h.CreateNode("b", NodeCube, 0)
	assert.Error(t, err)
	assert.Equal(t, 1, h.Count())
}

func TestMemoryHost_NodesSorted(t *testing.T) {
	h := NewMemoryHost()
	for _, name := range []string{"a", "b", "c"} {
		_, err := h.CreateNode(name, NodeSphere, 0)
		require.NoError(t, err)
	}
	nodes := h.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "a", nodes[0].Name)
	assert.Equal(t, "c", nodes[2].Name)
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "point_light", NodePointLight.String())
	assert.Equal(t, "skybox", NodeSkybox.String())
	assert.Equal(t, "node(99)", NodeKind(99).String())
}
