package canvas

import (
	"github.com/mistaa/flowstudio/pkg/flow"
)

// Type colors used for node fills. Taken from the studio palette.
var typeColors = map[flow.NodeType]string{
	flow.TypeQuestionnaire: "#1890ff",
	flow.TypePersonality:   "#722ed1",
	flow.TypeDataEntry:     "#52c41a",
	flow.TypeChat:          "#fa8c16",
	flow.TypeGoal:          "#ff4d4f",
	flow.TypeScoring:       "#13c2c2",
	flow.TypeFileUpload:    "#eb2f96",
}

// TypeColor returns the fill color for a node type.
func TypeColor(t flow.NodeType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return "#1890ff"
}

// Frame is the scene for one rendered frame, in draw order: grid, committed
// edges, the transient connection curve, then nodes on top. It is pure data
// so sinks (SVG, the TUI rasterizer) can consume it without touching the
// engine.
type Frame struct {
	Width    float64
	Height   float64
	GridSize float64

	Edges     []EdgeSprite
	Transient *TransientSprite
	Nodes     []NodeSprite
}

// EdgeSprite is a committed edge ready to draw: its curve, arrowhead, and
// the weight indicator anchored at the curve midpoint.
type EdgeSprite struct {
	ID     string
	Curve  Curve
	Arrow  [3]Point
	Weight int
	Badge  Point // weight indicator anchor (curve midpoint)
}

// TransientSprite is the in-progress connection curve. Valid tints the curve
// by whether the hovered target would be accepted.
type TransientSprite struct {
	Curve Curve
	Valid bool
}

// NodeSprite is a node ready to draw. OutputPort is false for goal nodes,
// which never originate connections and so carry no affordance.
type NodeSprite struct {
	ID         string
	Rect       Rect
	Color      string
	Label      string
	Selected   bool
	InputPort  Point
	OutputPort Point
	HasOutput  bool
}

// FrameBounds returns a frame size that fits every node with a margin,
// with a floor of 800x600 so sparse graphs still render on a sensible
// canvas.
func FrameBounds(g *flow.Graph) (width, height float64) {
	width, height = 800, 600
	const margin = 60.0
	for _, n := range g.Nodes() {
		if w := n.Position.X + NodeWidth + margin; w > width {
			width = w
		}
		if h := n.Position.Y + NodeHeight + margin; h > height {
			height = h
		}
	}
	return width, height
}

// BuildFrame assembles the scene for the engine's current graph and
// interaction state. Edges whose endpoints are missing are skipped
// defensively, though cascade deletes should make that impossible.
func (e *Engine) BuildFrame(width, height float64) Frame {
	f := Frame{
		Width:    width,
		Height:   height,
		GridSize: GridSize,
	}

	for _, edge := range e.graph.Edges() {
		src, okS := e.graph.Node(edge.From)
		dst, okD := e.graph.Node(edge.To)
		if !okS || !okD {
			continue
		}
		c := EdgeCurve(OutputPort(Point(src.Position)), InputPort(Point(dst.Position)))
		f.Edges = append(f.Edges, EdgeSprite{
			ID:     edge.ID,
			Curve:  c,
			Arrow:  c.Arrowhead(),
			Weight: edge.Weight,
			Badge:  c.Midpoint(),
		})
	}

	if c, ok := e.transientCurve(); ok {
		f.Transient = &TransientSprite{Curve: c, Valid: e.transientTargetValid()}
	}

	for _, n := range e.graph.Nodes() {
		topLeft := Point(n.Position)
		f.Nodes = append(f.Nodes, NodeSprite{
			ID:         n.ID,
			Rect:       NodeRect(topLeft),
			Color:      TypeColor(n.Type),
			Label:      n.Label(),
			Selected:   n.ID == e.selected,
			InputPort:  InputPort(topLeft),
			OutputPort: OutputPort(topLeft),
			HasOutput:  n.Type != flow.TypeGoal,
		})
	}

	return f
}
