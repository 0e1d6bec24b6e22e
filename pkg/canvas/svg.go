package canvas

import (
	"bytes"
	"fmt"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	pixelRatio float64
	background string
	gridColor  string
}

// WithPixelRatio sets the device pixel ratio. The viewBox stays in logical
// units while the output width/height are multiplied, so strokes stay crisp
// on high-DPI surfaces and all coordinates remain logical.
func WithPixelRatio(r float64) SVGOption {
	return func(s *svgRenderer) {
		if r > 0 {
			s.pixelRatio = r
		}
	}
}

// WithDarkBackground switches to the dark surface palette.
func WithDarkBackground() SVGOption {
	return func(s *svgRenderer) {
		s.background = "#1a1a1a"
		s.gridColor = "#333333"
	}
}

// RenderSVG draws a frame as an SVG document: background, grid, committed
// edge curves with arrowheads, the transient connection curve if present,
// nodes with ports and selection highlight, and per-edge weight badges at
// the curve midpoints.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{pixelRatio: 1, background: "#ffffff", gridColor: "#f0f0f0"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width*r.pixelRatio, f.Height*r.pixelRatio)

	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", f.Width, f.Height, r.background)
	renderGrid(&buf, f, r.gridColor)

	for _, e := range f.Edges {
		renderCurve(&buf, e.Curve, "#1890ff", 2, "")
		renderArrow(&buf, e.Arrow, "#1890ff")
	}

	if t := f.Transient; t != nil {
		color := "#52c41a"
		if !t.Valid {
			color = "#f59e0b"
		}
		renderCurve(&buf, t.Curve, color, 3, "6 4")
		fmt.Fprintf(&buf, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>`+"\n",
			t.Curve.End.X, t.Curve.End.Y, color)
	}

	for _, n := range f.Nodes {
		renderNode(&buf, n)
	}

	// Weight badges last so they sit above node bodies on short edges.
	for _, e := range f.Edges {
		renderBadge(&buf, e.Badge, e.Weight)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, f Frame, color string) {
	for x := 0.0; x < f.Width; x += f.GridSize {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
			x, x, f.Height, color)
	}
	for y := 0.0; y < f.Height; y += f.GridSize {
		fmt.Fprintf(buf, `<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
			y, f.Width, y, color)
	}
}

func renderCurve(buf *bytes.Buffer, c Curve, color string, width float64, dash string) {
	dashAttr := ""
	if dash != "" {
		dashAttr = fmt.Sprintf(` stroke-dasharray="%s"`, dash)
	}
	fmt.Fprintf(buf, `<path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		c.Start.X, c.Start.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.End.X, c.End.Y, color, width, dashAttr)
}

func renderArrow(buf *bytes.Buffer, pts [3]Point, color string) {
	fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
		pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, color)
}

func renderNode(buf *bytes.Buffer, n NodeSprite) {
	stroke := ""
	if n.Selected {
		stroke = ` stroke="#ffffff" stroke-width="3"`
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s"%s/>`+"\n",
		n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H, n.Color, stroke)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#ffffff" font-size="13" font-weight="bold">%s</text>`+"\n",
		n.Rect.X+n.Rect.W/2, n.Rect.Y+n.Rect.H/2, escapeText(n.Label))

	renderPort(buf, n.InputPort)
	if n.HasOutput {
		renderPort(buf, n.OutputPort)
	}
}

func renderPort(buf *bytes.Buffer, p Point) {
	fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#1890ff" stroke="#ffffff" stroke-width="2"/>`+"\n",
		p.X, p.Y, PortRadius/1.6)
}

func renderBadge(buf *bytes.Buffer, at Point, weight int) {
	fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="11" fill="#ffffff" stroke="#1890ff" stroke-width="1.5"/>`+"\n",
		at.X, at.Y)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#1890ff" font-size="11">%d</text>`+"\n",
		at.X, at.Y, weight)
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
