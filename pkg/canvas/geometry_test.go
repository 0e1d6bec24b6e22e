package canvas

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 140, H: 80}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{80, 50}, true},
		{"top left corner", Point{10, 10}, true},
		{"bottom right corner", Point{150, 90}, true},
		{"left of rect", Point{9.9, 50}, false},
		{"below rect", Point{80, 90.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPortLocations(t *testing.T) {
	topLeft := Point{X: 100, Y: 200}

	in := InputPort(topLeft)
	if in.X != 100 || in.Y != 200+NodeHeight/2 {
		t.Errorf("InputPort = %v, want left edge middle", in)
	}

	out := OutputPort(topLeft)
	if out.X != 100+NodeWidth || out.Y != 200+NodeHeight/2 {
		t.Errorf("OutputPort = %v, want right edge middle", out)
	}
}

func TestEdgeCurveControlPoints(t *testing.T) {
	from := Point{X: 140, Y: 40}
	to := Point{X: 400, Y: 240}
	c := EdgeCurve(from, to)

	mid := (from.X + to.X) / 2
	if c.C1.X != mid || c.C2.X != mid {
		t.Errorf("control points at x=%v and x=%v, want both at horizontal midpoint %v", c.C1.X, c.C2.X, mid)
	}
	if c.C1.Y != from.Y {
		t.Errorf("C1.Y = %v, want source y %v", c.C1.Y, from.Y)
	}
	if c.C2.Y != to.Y {
		t.Errorf("C2.Y = %v, want target y %v", c.C2.Y, to.Y)
	}
}

func TestCurveAtEndpoints(t *testing.T) {
	c := EdgeCurve(Point{0, 0}, Point{100, 50})

	if got := c.At(0); got != c.Start {
		t.Errorf("At(0) = %v, want %v", got, c.Start)
	}
	if got := c.At(1); got != c.End {
		t.Errorf("At(1) = %v, want %v", got, c.End)
	}
}

func TestCurveMidpointSymmetric(t *testing.T) {
	// With both control points at the horizontal midpoint, t=0.5 lands
	// exactly halfway in both axes.
	c := EdgeCurve(Point{0, 0}, Point{200, 100})
	mid := c.Midpoint()
	if math.Abs(mid.X-100) > 1e-9 || math.Abs(mid.Y-50) > 1e-9 {
		t.Errorf("Midpoint = %v, want (100, 50)", mid)
	}
}

func TestArrowheadOrientation(t *testing.T) {
	// Horizontal edge pointing right: the arrowhead tip is the end point and
	// both barbs sit ArrowSize behind it, above and below the axis.
	c := EdgeCurve(Point{0, 50}, Point{200, 50})
	pts := c.Arrowhead()

	if pts[0] != c.End {
		t.Fatalf("arrow tip = %v, want curve end %v", pts[0], c.End)
	}
	for i, p := range pts[1:] {
		if p.X >= c.End.X {
			t.Errorf("barb %d at x=%v, want behind tip x=%v", i, p.X, c.End.X)
		}
		if d := p.Dist(c.End); math.Abs(d-ArrowSize) > 1e-9 {
			t.Errorf("barb %d distance from tip = %v, want %v", i, d, ArrowSize)
		}
	}
	if pts[1].Y >= c.End.Y == (pts[2].Y >= c.End.Y) {
		t.Errorf("barbs %v and %v should straddle the edge axis", pts[1], pts[2])
	}
}
