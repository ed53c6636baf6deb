package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
	"github.com/san-kum/truss2d/internal/viz"
)

type tab int

const (
	tabMembers tab = iota
	tabNodes
)

func (t tab) String() string {
	if t == tabNodes {
		return "nodes"
	}
	return "members"
}

const (
	angleStep = 15.0
	scaleStep = 1.1
	listRows  = 10
)

// Model browses a solved truss. On the nodes tab the load of the selected
// node can be rotated and scaled; every change re-solves the structure.
type Model struct {
	title  string
	truss  *structure.Truss
	solver *solver.Solver
	result *solver.Result
	err    error

	tab    tab
	cursor int
	theme  int

	width, height int
}

// New solves a clone of t; the caller's truss is left untouched.
func New(title string, t *structure.Truss, s *solver.Solver) Model {
	if s == nil {
		s = solver.New()
	}
	m := Model{
		title:  title,
		truss:  t.Clone(),
		solver: s,
		width:  100,
		height: 30,
	}
	m.solve()
	return m
}

func (m *Model) solve() {
	r, err := m.solver.Solve(m.truss)
	if err != nil {
		m.truss.ResetResults()
		m.result, m.err = nil, err
		return
	}
	m.result, m.err = r, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) rows() int {
	if m.tab == tabNodes {
		return len(m.truss.Nodes)
	}
	return len(m.truss.Members)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % 2
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(m.rows()-1, 0)
	case "t":
		m.theme = (m.theme + 1) % len(viz.Themes)
		viz.SetTheme(viz.Themes[m.theme].Name)
	case "[", "]", "+", "-":
		m.adjustLoad(msg.String())
	}
	return m, nil
}

func (m *Model) adjustLoad(key string) {
	if m.tab != tabNodes || m.cursor >= len(m.truss.Nodes) {
		return
	}
	n := m.truss.Nodes[m.cursor]
	if n.Load == nil {
		return
	}
	l := *n.Load
	switch key {
	case "[":
		l.Angle = math.Mod(l.Angle-angleStep+360, 360)
	case "]":
		l.Angle = math.Mod(l.Angle+angleStep, 360)
	case "+":
		l.Magnitude *= scaleStep
	case "-":
		l.Magnitude /= scaleStep
	}
	n.SetLoad(&l)
	m.solve()
}

// Selected returns the id of the highlighted member, or 0 on the nodes tab.
func (m Model) Selected() int {
	if m.tab != tabMembers || m.cursor >= len(m.truss.Members) {
		return 0
	}
	return m.truss.Members[m.cursor].ID
}

func (m Model) View() string {
	drawW := max(m.width/2, 20)
	drawH := max(m.height-8, 8)

	canvas := viz.DrawTruss(viz.NewCanvas(drawW, drawH), m.truss, m.Selected())
	left := viz.Panel.Render(canvas.Render())
	right := viz.Panel.Render(m.listView() + "\n\n" + m.detailView())

	var b strings.Builder
	b.WriteString(viz.Title.Render(m.title) + "  " + m.tabsView() + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")
	b.WriteString(m.statusView() + "\n")
	b.WriteString(viz.KeyHint.Render("tab switch  j/k move  [/] rotate load  +/- scale load  t theme  q quit"))
	return b.String()
}

func (m Model) tabsView() string {
	var parts []string
	for _, t := range []tab{tabMembers, tabNodes} {
		if t == m.tab {
			parts = append(parts, viz.Selected.Render("["+t.String()+"]"))
		} else {
			parts = append(parts, viz.Subtle.Render(" "+t.String()+" "))
		}
	}
	return strings.Join(parts, " ")
}

// window returns the slice of rows to show so the cursor stays visible.
func (m Model) window() (start, end int) {
	n := m.rows()
	start = max(0, m.cursor-listRows/2)
	end = min(n, start+listRows)
	start = max(0, end-listRows)
	return start, end
}

func (m Model) listView() string {
	var b strings.Builder
	start, end := m.window()
	for i := start; i < end; i++ {
		line := m.rowLabel(i)
		if i == m.cursor {
			b.WriteString(viz.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) rowLabel(i int) string {
	if m.tab == tabNodes {
		n := m.truss.Nodes[i]
		return fmt.Sprintf("node %-3d (%6.2f, %6.2f) %s", n.ID, n.X, n.Y, n.Support.Kind())
	}
	mem := m.truss.Members[i]
	force := fmt.Sprintf("%10.2f", mem.Force)
	return fmt.Sprintf("member %-3d %d-%d %s %s", mem.ID, mem.Start.ID, mem.End.ID,
		viz.StateStyle(mem.State()).Render(force), mem.State())
}

func (m Model) detailView() string {
	if m.rows() == 0 {
		return viz.Subtle.Render("empty")
	}
	field := func(label string, v float64) string {
		return viz.Label.Render(fmt.Sprintf("%-12s", label)) + viz.Value.Render(fmt.Sprintf("%.6g", v))
	}

	var lines []string
	if m.tab == tabNodes {
		n := m.truss.Nodes[m.cursor]
		lines = append(lines, field("ux", n.DisplacementX), field("uy", n.DisplacementY))
		if n.Supported() {
			lines = append(lines, field("Rx", n.ReactionX), field("Ry", n.ReactionY))
		}
		if n.Load != nil {
			lines = append(lines, field("load", n.Load.Magnitude), field("angle", n.Load.Angle))
		}
	} else {
		mem := m.truss.Members[m.cursor]
		lines = append(lines,
			field("length", mem.Length()),
			field("force", mem.Force),
			field("stress", mem.Stress),
			field("EA", mem.ElasticModulus*mem.Area),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	if m.err != nil {
		return viz.ErrorText.Render("✗ " + m.err.Error())
	}
	if m.result == nil {
		return ""
	}
	id, d := m.result.MaxDisplacement()
	sum := m.result.ReactionSum()
	return viz.Subtle.Render(fmt.Sprintf("free dofs %d  cond %.3g  max |u| %.4g at node %d  ΣR (%.2f, %.2f)",
		m.result.FreeDOFs, m.result.Condition, d, id, sum.X, sum.Y))
}

// Run opens the viewer full screen.
func Run(title string, t *structure.Truss, s *solver.Solver) error {
	_, err := tea.NewProgram(New(title, t, s), tea.WithAltScreen()).Run()
	return err
}
