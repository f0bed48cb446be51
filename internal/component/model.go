package component

import (
	"github.com/labsim/runtime/internal/asset"
	"github.com/labsim/runtime/internal/render"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Model is a mesh whose node only exists once its asset has loaded. It is
// attached straight away but Ready stays open until Load completes, so
// callers that need the node wait on Ready (or poll Loaded).
type Model struct {
	Mesh

	path    string
	loading bool
	gone    bool
}

func (m *Model) Init() error {
	m.DeferReady()
	return nil
}

// Load requests the asset at path. The node is created on the tick that
// applies the completion. An empty path resolves Ready at once without a
// node. Only the first call has an effect.
func (m *Model) Load(path string) error {
	if m.loading || m.gone {
		return nil
	}
	m.loading = true
	m.path = path
	if path == "" {
		m.Resolve(nil)
		return nil
	}
	if m.env == nil || m.env.Assets == nil {
		err := eris.Wrapf(ErrNoLoader, "%s", m.Name())
		m.Resolve(err)
		return err
	}
	m.env.Assets.Request(path, m.onLoaded)
	return nil
}

func (m *Model) onLoaded(res asset.Result) {
	if m.gone {
		return
	}
	if res.Err != nil {
		m.Resolve(res.Err)
		return
	}
	if err := m.createNode(render.NodeModel); err != nil {
		m.env.logger().Warn("model node creation failed", zap.String("component", m.Name()), zap.Error(err))
		m.Resolve(err)
		return
	}
	m.env.Host.SetPayload(m.node, len(res.Data))
	m.Resolve(nil)
}

func (m *Model) Path() string { return m.path }

// Cleanup releases the node if it exists. A load still in flight is
// abandoned and Ready resolves with ErrUnloaded.
func (m *Model) Cleanup() {
	m.gone = true
	m.Resolve(ErrUnloaded)
	m.Mesh.Cleanup()
}
