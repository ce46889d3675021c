package canvas

import (
	"github.com/spoor-app/spoor/internal/models"
)

// Edge anchor offsets from a node's origin. The anchor approximates the
// center of a ~200-wide box regardless of the node's actual width,
// matching how edges have always been drawn.
const (
	AnchorOffsetX = 100.0
	AnchorOffsetY = 25.0
)

// Default hit-test dimensions for a node whose geometry has not been
// computed yet.
const (
	DefaultHitWidth  = 200.0
	DefaultHitHeight = 50.0
)

// Surface is a drawing target in canvas units. The terminal UI backs it
// with a rune grid; tests back it with a recorder.
type Surface interface {
	// Clear erases the whole surface.
	Clear()

	// Line draws a connection edge between two points.
	Line(x1, y1, x2, y2 float64)

	// Box draws a node's rectangle, filled and stroked per its type.
	Box(x, y, w, h float64, typ models.NodeType)

	// Text draws a single wrapped line starting at the given point.
	Text(x, y float64, line string)
}

// Renderer draws the pan-transformed scene: connection edges first, then
// node boxes with wrapped text, so boxes occlude edge origins.
type Renderer struct {
	engine *Engine
}

// NewRenderer creates a renderer using the given layout engine for text
// wrapping. A nil engine gets the default measurer.
func NewRenderer(engine *Engine) *Renderer {
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &Renderer{engine: engine}
}

// Render clears the surface and draws all nodes translated by pan.
// A connection whose target id does not exist draws nothing; that is
// not an error.
func (r *Renderer) Render(s Surface, nodes []models.Node, pan Point) {
	s.Clear()

	index := make(map[string]int, len(nodes))
	for i := range nodes {
		index[nodes[i].ID] = i
	}

	for i := range nodes {
		node := &nodes[i]
		for _, targetID := range node.Connections {
			j, ok := index[targetID]
			if !ok {
				continue
			}
			target := &nodes[j]
			s.Line(
				node.X+AnchorOffsetX+pan.X, node.Y+AnchorOffsetY+pan.Y,
				target.X+AnchorOffsetX+pan.X, target.Y+AnchorOffsetY+pan.Y,
			)
		}
	}

	for i := range nodes {
		r.renderNode(s, &nodes[i], pan)
	}
}

func (r *Renderer) renderNode(s Surface, node *models.Node, pan Point) {
	layout := r.engine.Layout(node.Text)

	w, h := node.Width, node.Height
	if w <= 0 {
		w = layout.Width
	}
	if h <= 0 {
		h = layout.Height
	}

	x := node.X + pan.X
	y := node.Y + pan.Y
	s.Box(x, y, w, h, node.Type)

	for idx, line := range layout.Lines {
		s.Text(x+TextInset, y+TextInset+float64(idx)*LineHeight, line)
	}
}

// NodeAt returns the first node whose bounding box contains the point,
// or nil. Coordinates must already be adjusted for pan. Nodes without
// computed geometry fall back to the default hit dimensions.
func NodeAt(nodes []models.Node, x, y float64) *models.Node {
	for i := range nodes {
		node := &nodes[i]
		w, h := node.Width, node.Height
		if w <= 0 {
			w = DefaultHitWidth
		}
		if h <= 0 {
			h = DefaultHitHeight
		}
		if x >= node.X && x <= node.X+w && y >= node.Y && y <= node.Y+h {
			return node
		}
	}
	return nil
}
