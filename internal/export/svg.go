package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/truss2d/internal/structure"
	"github.com/san-kum/truss2d/internal/viz"
)

type Options struct {
	Width, Height int
	// Labels prints node ids and member forces.
	Labels bool
	// Deformation scales displacements for an overlaid deformed shape.
	// Zero draws no deformed shape; negative picks a scale so the largest
	// displacement spans a tenth of the structure.
	Deformation float64
	Background  string
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 500, Labels: true, Background: "#0a0a0a"}
}

// TrussToSVG draws members colored by state with stroke width scaled to
// |force|, supports as triangles and loads as arrows.
func TrussToSVG(t *structure.Truss, opts Options) string {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	if opts.Background == "" {
		opts.Background = DefaultOptions().Background
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background))

	if len(t.Nodes) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, minY, maxX, maxY := t.Bounds()
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := 0.15 * math.Max(rangeX, rangeY)
	minX, minY = minX-pad, minY-pad
	rangeX, rangeY = rangeX+2*pad, rangeY+2*pad
	scale := math.Min(float64(opts.Width)/rangeX, float64(opts.Height)/rangeY)

	pt := func(x, y float64) (float64, float64) {
		return (x - minX) * scale, float64(opts.Height) - (y-minY)*scale
	}

	maxForce := 0.0
	for _, m := range t.Members {
		maxForce = math.Max(maxForce, math.Abs(m.Force))
	}

	sb.WriteString(`<g stroke-linecap="round">` + "\n")
	for _, m := range t.Members {
		x0, y0 := pt(m.Start.X, m.Start.Y)
		x1, y1 := pt(m.End.X, m.End.Y)
		w := 2.0
		if maxForce > 0 {
			w += 4 * math.Abs(m.Force) / maxForce
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, x0, y0, x1, y1, stateColor(m.State()), w))
	}
	sb.WriteString("</g>\n")

	if k := deformationScale(t, opts.Deformation, math.Max(rangeX, rangeY)-2*pad); k > 0 {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1" stroke-dasharray="4 3">
`, viz.CurrentTheme.Muted))
		for _, m := range t.Members {
			x0, y0 := pt(m.Start.X+k*m.Start.DisplacementX, m.Start.Y+k*m.Start.DisplacementY)
			x1, y1 := pt(m.End.X+k*m.End.DisplacementX, m.End.Y+k*m.End.DisplacementY)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x0, y0, x1, y1))
		}
		sb.WriteString("</g>\n")
	}

	for _, n := range t.Nodes {
		x, y := pt(n.X, n.Y)
		if n.Supported() {
			writeSupport(&sb, n.Support, x, y)
		}
		if n.Load != nil && n.Load.Magnitude != 0 {
			writeArrow(&sb, n.Load, x, y)
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, viz.CurrentTheme.Text))
	}

	if opts.Labels {
		sb.WriteString(fmt.Sprintf(`<g font-family="monospace" font-size="12" fill="%s">
`, viz.CurrentTheme.Text))
		for _, n := range t.Nodes {
			x, y := pt(n.X, n.Y)
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%d</text>
`, x+6, y-6, n.ID))
		}
		for _, m := range t.Members {
			x0, y0 := pt(m.Start.X, m.Start.Y)
			x1, y1 := pt(m.End.X, m.End.Y)
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%.1f %s</text>
`, (x0+x1)/2, (y0+y1)/2-4, stateColor(m.State()), m.Force, m.State()))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func stateColor(s structure.MemberState) string {
	th := viz.CurrentTheme
	switch s {
	case structure.Tension:
		return string(th.Tension)
	case structure.Compression:
		return string(th.Compression)
	default:
		return string(th.Zero)
	}
}

func deformationScale(t *structure.Truss, requested, extent float64) float64 {
	if requested >= 0 {
		return requested
	}
	maxD := 0.0
	for _, n := range t.Nodes {
		maxD = math.Max(maxD, math.Hypot(n.DisplacementX, n.DisplacementY))
	}
	if maxD == 0 || extent <= 0 {
		return 0
	}
	return 0.1 * extent / maxD
}

func writeSupport(sb *strings.Builder, s *structure.Support, x, y float64) {
	color := viz.CurrentTheme.Support
	sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="none" stroke="%s" stroke-width="1.5"/>
`, x, y, x-10, y+16, x+10, y+16, color))
	if !(s.RestrainX && s.RestrainY) {
		for _, dx := range []float64{-6, 0, 6} {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5" fill="none" stroke="%s"/>
`, x+dx, y+19, color))
		}
	}
}

func writeArrow(sb *strings.Builder, l *structure.Load, x, y float64) {
	const length, head = 40.0, 8.0
	fx, fy := l.Components()
	norm := math.Hypot(fx, fy)
	ux, uy := fx/norm, -fy/norm

	tx, ty := x-ux*length, y-uy*length
	lx := x - ux*head - uy*head/2
	ly := y - uy*head + ux*head/2
	rx := x - ux*head + uy*head/2
	ry := y - uy*head - ux*head/2

	color := viz.CurrentTheme.Load
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="%s">%g</text>
`, tx, ty, x, y, color, x, y, lx, ly, rx, ry, color, tx+4, ty-4, color, l.Magnitude))
}

// CanvasToSVG converts a braille canvas to SVG dots, colored by cell tone.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := toneColor(canvas.Tones[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func toneColor(t viz.Tone) string {
	th := viz.CurrentTheme
	switch t {
	case viz.ToneTension:
		return string(th.Tension)
	case viz.ToneCompression:
		return string(th.Compression)
	case viz.ToneSupport:
		return string(th.Support)
	case viz.ToneLoad:
		return string(th.Load)
	case viz.ToneHighlight:
		return string(th.Highlight)
	case viz.ToneZero:
		return string(th.Zero)
	default:
		return string(th.Text)
	}
}
