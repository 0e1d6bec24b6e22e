package canvas

import "math"

// Node footprint in logical units. Hit-testing and rendering share these,
// so a node is grabbed exactly where it is drawn.
const (
	NodeWidth  = 140.0
	NodeHeight = 80.0

	// PortRadius is the visual and hit radius of the input/output port
	// markers on a node's left/right edges.
	PortRadius = 8.0

	// ArrowSize is the length of the directional arrowhead at an edge's
	// target end.
	ArrowSize = 10.0

	// GridSize is the background grid spacing.
	GridSize = 20.0
)

// Point is a location in the editor's logical coordinate space.
// Device pixels only exist inside the render sinks, which multiply by the
// surface's device pixel ratio at draw time.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// NodeRect returns the visual footprint of a node anchored at its top-left
// corner.
func NodeRect(topLeft Point) Rect {
	return Rect{X: topLeft.X, Y: topLeft.Y, W: NodeWidth, H: NodeHeight}
}

// InputPort returns the center of a node's input port (left edge, middle).
func InputPort(topLeft Point) Point {
	return Point{X: topLeft.X, Y: topLeft.Y + NodeHeight/2}
}

// OutputPort returns the center of a node's output port (right edge, middle).
// Goal nodes draw no output port, but the location is still defined so the
// hit-test can be written uniformly.
func OutputPort(topLeft Point) Point {
	return Point{X: topLeft.X + NodeWidth, Y: topLeft.Y + NodeHeight/2}
}

// Curve is a cubic bezier from Start to End. Edges are routed with both
// control points at the horizontal midpoint between the endpoints, which
// produces the familiar smooth S-shape between an output port and an input
// port regardless of their vertical offset.
type Curve struct {
	Start Point
	C1    Point
	C2    Point
	End   Point
}

// EdgeCurve routes a curve from a source output port to a target input port.
func EdgeCurve(from, to Point) Curve {
	mid := (from.X + to.X) / 2
	return Curve{
		Start: from,
		C1:    Point{X: mid, Y: from.Y},
		C2:    Point{X: mid, Y: to.Y},
		End:   to,
	}
}

// At evaluates the curve at parameter t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*c.Start.X + b1*c.C1.X + b2*c.C2.X + b3*c.End.X,
		Y: b0*c.Start.Y + b1*c.C1.Y + b2*c.C2.Y + b3*c.End.Y,
	}
}

// Midpoint returns the curve's point at t=0.5, where the edge weight
// indicator is anchored.
func (c Curve) Midpoint() Point { return c.At(0.5) }

// Arrowhead returns the three corners of the directional arrowhead at the
// curve's target end. The head is oriented along the straight line between
// the endpoints, matching how the editor has always drawn it.
func (c Curve) Arrowhead() [3]Point {
	angle := math.Atan2(c.End.Y-c.Start.Y, c.End.X-c.Start.X)
	left := angle - math.Pi/6
	right := angle + math.Pi/6
	return [3]Point{
		c.End,
		{X: c.End.X - ArrowSize*math.Cos(left), Y: c.End.Y - ArrowSize*math.Sin(left)},
		{X: c.End.X - ArrowSize*math.Cos(right), Y: c.End.Y - ArrowSize*math.Sin(right)},
	}
}
