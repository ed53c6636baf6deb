package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/truss2d/internal/structure"
)

// Units labels table headers.
type Units struct {
	Length string
	Force  string
}

func (u Units) withDefaults() Units {
	if u.Length == "" {
		u.Length = "m"
	}
	if u.Force == "" {
		u.Force = "N"
	}
	return u
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Border))
}

// NodeTable lists positions, displacements and reactions. Reactions of
// unsupported nodes read "-".
func NodeTable(t *structure.Truss, u Units) string {
	u = u.withDefaults()
	tbl := newTable().Headers(
		"node", "x", "y", "support",
		"ux ["+u.Length+"]", "uy ["+u.Length+"]",
		"Rx ["+u.Force+"]", "Ry ["+u.Force+"]",
	)

	for _, n := range t.Nodes {
		rx, ry := "-", "-"
		if n.Restrained(structure.AxisX) {
			rx = num(n.ReactionX)
		}
		if n.Restrained(structure.AxisY) {
			ry = num(n.ReactionY)
		}
		tbl.Row(
			strconv.Itoa(n.ID), num(n.X), num(n.Y), n.Support.Kind(),
			sci(n.DisplacementX), sci(n.DisplacementY), rx, ry,
		)
	}

	return tbl.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return s.Bold(true).Foreground(CurrentTheme.Accent)
		}
		return s
	}).Render()
}

// MemberTable lists member forces; the state column is colored.
func MemberTable(t *structure.Truss, u Units) string {
	u = u.withDefaults()
	tbl := newTable().Headers(
		"member", "nodes", "length ["+u.Length+"]", "force ["+u.Force+"]", "stress", "state",
	)

	states := make([]structure.MemberState, 0, len(t.Members))
	for _, m := range t.Members {
		states = append(states, m.State())
		tbl.Row(
			strconv.Itoa(m.ID),
			fmt.Sprintf("%d-%d", m.Start.ID, m.End.ID),
			num(m.Length()), num(m.Force), sci(m.Stress), m.State().String(),
		)
	}

	return tbl.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case row == table.HeaderRow:
			return s.Bold(true).Foreground(CurrentTheme.Accent)
		case col == 5 && row >= 0 && row < len(states):
			return StateStyle(states[row]).Padding(0, 1)
		}
		return s
	}).Render()
}

// MetricsTable lists metric values by name.
func MetricsTable(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := newTable().Headers("metric", "value")
	for _, name := range names {
		tbl.Row(name, sci(metrics[name]))
	}
	return tbl.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return s.Bold(true).Foreground(CurrentTheme.Accent)
		}
		if col == 0 {
			return s.Foreground(CurrentTheme.Muted)
		}
		return s
	}).Render()
}

// ResultTables renders the node and member tables of a solved truss.
func ResultTables(t *structure.Truss, u Units) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Title.Render("nodes"),
		NodeTable(t, u),
		Title.Render("members"),
		MemberTable(t, u),
	)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func sci(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'e', 4, 64)
}
