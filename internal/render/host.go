// Package render is the headless stand-in for the rendering engine: it owns
// the backing nodes components create in Init and release in Cleanup.
package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/labsim/runtime/internal/core/ecs"
)

type NodeID uint32

type NodeKind uint8

const (
	NodeSphere NodeKind = iota + 1
	NodeCube
	NodePlane
	NodeGround
	NodeSkybox
	NodeModel
	NodePointLight
	NodeAmbientLight
	NodeText
)

var nodeKindNames = map[NodeKind]string{
	NodeSphere:       "sphere",
	NodeCube:         "cube",
	NodePlane:        "plane",
	NodeGround:       "ground",
	NodeSkybox:       "skybox",
	NodeModel:        "model",
	NodePointLight:   "point_light",
	NodeAmbientLight: "ambient_light",
	NodeText:         "text",
}

func (k NodeKind) String() string {
	if n, ok := nodeKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("node(%d)", uint8(k))
}

// Node is a snapshot of one backing resource.
type Node struct {
	ID      NodeID
	Name    string
	Kind    NodeKind
	Owner   ecs.EntityID
	Enabled bool
	Bytes   int // payload size for loaded models
}

// Host creates and releases backing nodes.
type Host interface {
	CreateNode(name string, kind NodeKind, owner ecs.EntityID) (NodeID, error)
	SetEnabled(id NodeID, enabled bool)
	SetPayload(id NodeID, bytes int)
	RemoveNode(id NodeID)
	Node(id NodeID) (Node, bool)
	Count() int
}

// MemoryHost keeps nodes in a map. Safe for concurrent use.
type MemoryHost struct {
	mu     sync.Mutex
	nextID NodeID
	nodes  map[NodeID]*Node
	limit  int
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{nodes: make(map[NodeID]*Node, 256)}
}

// WithLimit caps the number of live nodes; CreateNode fails beyond it.
func (h *MemoryHost) WithLimit(n int) *MemoryHost {
	h.limit = n
	return h
}

func (h *MemoryHost) CreateNode(name string, kind NodeKind, owner ecs.EntityID) (NodeID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.limit > 0 && len(h.nodes) >= h.limit {
		return 0, fmt.Errorf("create node %q: host limit of %d nodes reached", name, h.limit)
	}
	h.nextID++
	h.nodes[h.nextID] = &Node{
		ID:      h.nextID,
		Name:    name,
		Kind:    kind,
		Owner:   owner,
		Enabled: true,
	}
	return h.nextID, nil
}

func (h *MemoryHost) SetEnabled(id NodeID, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		n.Enabled = enabled
	}
}

func (h *MemoryHost) SetPayload(id NodeID, bytes int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		n.Bytes = bytes
	}
}

func (h *MemoryHost) RemoveNode(id NodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.nodes, id)
}

func (h *MemoryHost) Node(id NodeID) (Node, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (h *MemoryHost) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.nodes)
}

// Nodes returns every live node ordered by ID.
func (h *MemoryHost) Nodes() []Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Node, 0, len(h.nodes))
	for _, n := range h.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
