package viz

import (
	"math"

	"github.com/san-kum/truss2d/internal/structure"
)

const (
	margin      = 3
	arrowLength = 8
)

// Projection maps truss coordinates (y up) to canvas sub-pixels (y down)
// with a uniform scale.
type Projection struct {
	minX, minY float64
	scale      float64
	offX, offY int
	height     int
}

func NewProjection(t *structure.Truss, pw, ph int) Projection {
	minX, minY, maxX, maxY := t.Bounds()
	dx, dy := maxX-minX, maxY-minY

	uw, uh := float64(pw-1-2*margin), float64(ph-1-2*margin)
	scale := math.Inf(1)
	if dx > 0 {
		scale = uw / dx
	}
	if dy > 0 {
		scale = math.Min(scale, uh/dy)
	}
	if math.IsInf(scale, 1) || scale <= 0 {
		scale = 1
	}

	return Projection{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		offX:   margin + int((uw-dx*scale)/2),
		offY:   margin + int((uh-dy*scale)/2),
		height: ph,
	}
}

func (p Projection) Point(x, y float64) (int, int) {
	px := p.offX + int(math.Round((x-p.minX)*p.scale))
	py := p.height - 1 - p.offY - int(math.Round((y-p.minY)*p.scale))
	return px, py
}

// DrawTruss draws members colored by state, supports as blocks and loads
// as short strokes ending at the node. highlight is a member id, or 0.
func DrawTruss(c *Canvas, t *structure.Truss, highlight int) *Canvas {
	if len(t.Nodes) == 0 {
		return c
	}
	pw, ph := c.PixelSize()
	p := NewProjection(t, pw, ph)

	for _, m := range t.Members {
		if m.Start == nil || m.End == nil {
			continue
		}
		x0, y0 := p.Point(m.Start.X, m.Start.Y)
		x1, y1 := p.Point(m.End.X, m.End.Y)
		tone := StateTone(m.State())
		if m.ID == highlight {
			tone = ToneHighlight
		}
		c.DrawLine(x0, y0, x1, y1, tone)
	}

	for _, n := range t.Nodes {
		if n == nil {
			continue
		}
		x, y := p.Point(n.X, n.Y)
		if n.Supported() {
			c.Block(x, y+2, 1, ToneSupport)
		}
		if n.Load != nil && n.Load.Magnitude != 0 {
			fx, fy := n.Load.Components()
			norm := math.Hypot(fx, fy)
			ax := x - int(math.Round(fx/norm*arrowLength))
			ay := y + int(math.Round(fy/norm*arrowLength))
			c.DrawLine(ax, ay, x, y, ToneLoad)
		}
	}
	return c
}

// RenderTruss draws t on a w x h cell canvas and returns the colored text.
func RenderTruss(t *structure.Truss, w, h int) string {
	return DrawTruss(NewCanvas(w, h), t, 0).Render()
}
