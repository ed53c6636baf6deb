package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/truss2d/internal/structure"
)

var (
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	Subtle      lipgloss.Style
	KeyHint     lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Selected    lipgloss.Style
	ErrorText   lipgloss.Style
	Tension     lipgloss.Style
	Compression lipgloss.Style
	ZeroForce   lipgloss.Style

	toneStyles map[Tone]lipgloss.Style
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	KeyHint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	Label = lipgloss.NewStyle().Foreground(t.Muted)
	Value = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Highlight)
	ErrorText = lipgloss.NewStyle().Bold(true).Foreground(t.Compression)
	Tension = lipgloss.NewStyle().Foreground(t.Tension)
	Compression = lipgloss.NewStyle().Foreground(t.Compression)
	ZeroForce = lipgloss.NewStyle().Foreground(t.Zero)

	toneStyles = map[Tone]lipgloss.Style{
		ToneNone:        lipgloss.NewStyle(),
		ToneZero:        ZeroForce,
		ToneTension:     Tension,
		ToneCompression: Compression,
		ToneSupport:     lipgloss.NewStyle().Foreground(t.Support),
		ToneLoad:        lipgloss.NewStyle().Foreground(t.Load),
		ToneHighlight:   Selected,
	}
}

func ToneStyle(t Tone) lipgloss.Style {
	if s, ok := toneStyles[t]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// StateStyle picks the style for a member state.
func StateStyle(s structure.MemberState) lipgloss.Style {
	switch s {
	case structure.Tension:
		return Tension
	case structure.Compression:
		return Compression
	default:
		return ZeroForce
	}
}

func StateTone(s structure.MemberState) Tone {
	switch s {
	case structure.Tension:
		return ToneTension
	case structure.Compression:
		return ToneCompression
	default:
		return ToneZero
	}
}

// SparklineChart renders a mini sparkline from values. NaN entries are
// drawn as gaps.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi, seen := 0.0, 0.0, false
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !seen || v < lo {
			lo = v
		}
		if !seen || v > hi {
			hi = v
		}
		seen = true
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) {
			result.WriteRune(' ')
			continue
		}
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case v > 0:
			result.WriteString(Tension.Render(c))
		case v < 0:
			result.WriteString(Compression.Render(c))
		default:
			result.WriteString(ZeroForce.Render(c))
		}
	}

	return result.String()
}

// Separator draws a muted rule.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
