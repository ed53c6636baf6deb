package structure

import (
	"fmt"
	"math"
)

type Truss struct {
	Nodes   []*Node
	Members []*Member
}

func New(nodes []*Node, members []*Member) *Truss {
	return &Truss{Nodes: nodes, Members: members}
}

func (t *Truss) AddNode(n *Node) *Node {
	t.Nodes = append(t.Nodes, n)
	return n
}

func (t *Truss) AddMember(m *Member) *Member {
	t.Members = append(t.Members, m)
	return m
}

// Node returns the node with the given id, or nil.
func (t *Truss) Node(id int) *Node {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Member returns the member with the given id, or nil.
func (t *Truss) Member(id int) *Member {
	for _, m := range t.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Validate checks the structural invariants the solver relies on: a
// non-empty node and member set, unique identifiers, and members whose
// endpoints are two distinct nodes of this truss.
func (t *Truss) Validate() error {
	if len(t.Nodes) == 0 || len(t.Members) == 0 {
		return ErrEmptyTruss
	}

	owned := make(map[*Node]bool, len(t.Nodes))
	ids := make(map[int]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if n == nil {
			return fmt.Errorf("%w: nil node", ErrInvalidTruss)
		}
		if ids[n.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		ids[n.ID] = true
		owned[n] = true
	}

	memberIDs := make(map[int]bool, len(t.Members))
	for _, m := range t.Members {
		if m == nil {
			return fmt.Errorf("%w: nil member", ErrInvalidTruss)
		}
		if memberIDs[m.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateMember, m.ID)
		}
		memberIDs[m.ID] = true

		if !owned[m.Start] || !owned[m.End] {
			return fmt.Errorf("%w: member %d", ErrUnknownNode, m.ID)
		}
		if m.Start == m.End {
			return &DegenerateMemberError{MemberID: m.ID, Reason: "both endpoints are the same node"}
		}
	}
	return nil
}

// DOFs returns the number of degrees of freedom, two per node.
func (t *Truss) DOFs() int { return 2 * len(t.Nodes) }

// Supports returns the nodes carrying at least one restraint.
func (t *Truss) Supports() []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if n.Supported() {
			out = append(out, n)
		}
	}
	return out
}

// Loaded returns the nodes carrying a load.
func (t *Truss) Loaded() []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if n.Load != nil {
			out = append(out, n)
		}
	}
	return out
}

func (t *Truss) ResetResults() {
	for _, n := range t.Nodes {
		n.ResetResults()
	}
	for _, m := range t.Members {
		m.ResetResults()
	}
}

// Bounds returns the bounding box of the node positions.
func (t *Truss) Bounds() (minX, minY, maxX, maxY float64) {
	if len(t.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range t.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// Clone returns a deep copy. Member endpoints in the copy point at the
// copied nodes, so the clone can be solved independently.
func (t *Truss) Clone() *Truss {
	c := &Truss{
		Nodes:   make([]*Node, len(t.Nodes)),
		Members: make([]*Member, len(t.Members)),
	}
	mapped := make(map[*Node]*Node, len(t.Nodes))
	for i, n := range t.Nodes {
		if n == nil {
			continue
		}
		cp := *n
		if n.Support != nil {
			s := *n.Support
			cp.Support = &s
		}
		if n.Load != nil {
			l := *n.Load
			cp.Load = &l
		}
		c.Nodes[i] = &cp
		mapped[n] = &cp
	}
	for i, m := range t.Members {
		if m == nil {
			continue
		}
		cp := *m
		cp.Start = cloneRef(mapped, m.Start)
		cp.End = cloneRef(mapped, m.End)
		c.Members[i] = &cp
	}
	return c
}

// cloneRef keeps foreign endpoints foreign so Validate still rejects them.
func cloneRef(mapped map[*Node]*Node, n *Node) *Node {
	if cp, ok := mapped[n]; ok {
		return cp
	}
	if n == nil {
		return nil
	}
	cp := *n
	return &cp
}
