package component

import "github.com/labsim/runtime/internal/render"

const defaultFontSize = 24

// Orientation controls how a text plane turns toward the camera.
type Orientation uint8

const (
	FaceNone Orientation = iota
	FaceAll
	FaceX
	FaceY
	FaceZ
)

// TextPlane is a plane with a text block drawn on it.
type TextPlane struct {
	Mesh

	text     string
	FontSize int
	Facing   Orientation
}

func (t *TextPlane) Init() error {
	return t.createNode(render.NodeText)
}

func (t *TextPlane) Text() string { return t.text }

func (t *TextPlane) SetText(s string) {
	t.text = s
	if t.node != 0 {
		t.env.Host.SetPayload(t.node, len(s))
	}
}
