package structure

import (
	"fmt"
	"math"
)

const (
	DefaultElasticModulus = 200e9 // Pa, structural steel
	DefaultArea           = 0.005 // m²

	// ZeroForceTolerance is the magnitude below which a member force is
	// reported as zero.
	ZeroForceTolerance = 1e-5

	// MinLength is the shortest member length considered non-degenerate.
	MinLength = 1e-12
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

type Support struct {
	RestrainX bool `json:"restrain_x" yaml:"restrain_x"`
	RestrainY bool `json:"restrain_y" yaml:"restrain_y"`
}

func Pin() *Support     { return &Support{RestrainX: true, RestrainY: true} }
func Roller() *Support  { return &Support{RestrainY: true} }
func RollerX() *Support { return &Support{RestrainX: true} }
func Free() *Support    { return &Support{} }

// Kind names the support variant: pin, roller, roller-x or free.
func (s *Support) Kind() string {
	switch {
	case s == nil:
		return "none"
	case s.RestrainX && s.RestrainY:
		return "pin"
	case s.RestrainY:
		return "roller"
	case s.RestrainX:
		return "roller-x"
	default:
		return "free"
	}
}

// Restrains reports whether the support fixes the given axis. A nil support
// restrains nothing.
func (s *Support) Restrains(a Axis) bool {
	if s == nil {
		return false
	}
	if a == AxisX {
		return s.RestrainX
	}
	return s.RestrainY
}

// Load is a point load. Angle is in degrees, counter-clockwise from +x.
type Load struct {
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
	Angle     float64 `json:"angle" yaml:"angle"`
}

// Components returns the cartesian force components of the load.
func (l *Load) Components() (fx, fy float64) {
	if l == nil {
		return 0, 0
	}
	rad := l.Angle * math.Pi / 180
	return l.Magnitude * math.Cos(rad), l.Magnitude * math.Sin(rad)
}

type Node struct {
	ID      int
	X, Y    float64
	Support *Support
	Load    *Load

	ReactionX     float64
	ReactionY     float64
	DisplacementX float64
	DisplacementY float64
}

func NewNode(id int, x, y float64) *Node {
	return &Node{ID: id, X: x, Y: y}
}

func (n *Node) SetSupport(s *Support) { n.Support = s }
func (n *Node) ClearSupport()         { n.Support = nil }

// SetLoad attaches a load, replacing any load already on the node.
func (n *Node) SetLoad(l *Load) { n.Load = l }
func (n *Node) ClearLoad()      { n.Load = nil }

func (n *Node) Restrained(a Axis) bool { return n.Support.Restrains(a) }

// Supported reports whether at least one axis of the node is restrained.
func (n *Node) Supported() bool {
	return n.Restrained(AxisX) || n.Restrained(AxisY)
}

func (n *Node) ResetResults() {
	n.ReactionX, n.ReactionY = 0, 0
	n.DisplacementX, n.DisplacementY = 0, 0
}

func (n *Node) String() string {
	return fmt.Sprintf("node %d (%g, %g)", n.ID, n.X, n.Y)
}

type MemberState int

const (
	ZeroForce MemberState = iota
	Tension
	Compression
)

func (s MemberState) String() string {
	switch s {
	case Tension:
		return "T"
	case Compression:
		return "C"
	default:
		return "0"
	}
}

type Member struct {
	ID             int
	Start, End     *Node
	ElasticModulus float64
	Area           float64

	Force  float64 // + tension, - compression
	Stress float64
}

func NewMember(id int, start, end *Node, elasticModulus, area float64) *Member {
	return &Member{
		ID:             id,
		Start:          start,
		End:            end,
		ElasticModulus: elasticModulus,
		Area:           area,
	}
}

// NewDefaultMember creates a steel member with the default section.
func NewDefaultMember(id int, start, end *Node) *Member {
	return NewMember(id, start, end, DefaultElasticModulus, DefaultArea)
}

// Geometry returns the member length and its direction cosines.
func (m *Member) Geometry() (length, c, s float64) {
	dx := m.End.X - m.Start.X
	dy := m.End.Y - m.Start.Y
	length = math.Hypot(dx, dy)
	if length < MinLength {
		return length, 0, 0
	}
	return length, dx / length, dy / length
}

func (m *Member) Length() float64 {
	l, _, _ := m.Geometry()
	return l
}

// Rigidity returns the axial stiffness EA/L.
func (m *Member) Rigidity() float64 {
	l := m.Length()
	if l < MinLength {
		return 0
	}
	return m.ElasticModulus * m.Area / l
}

func (m *Member) State() MemberState {
	switch {
	case m.Force > ZeroForceTolerance:
		return Tension
	case m.Force < -ZeroForceTolerance:
		return Compression
	default:
		return ZeroForce
	}
}

func (m *Member) ResetResults() {
	m.Force, m.Stress = 0, 0
}

func (m *Member) String() string {
	return fmt.Sprintf("member %d (%d-%d)", m.ID, m.Start.ID, m.End.ID)
}
