package solver

import (
	"math"
	"sort"

	"github.com/san-kum/truss2d/internal/structure"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MemberForce struct {
	Length     float64 `json:"length"`
	Elongation float64 `json:"elongation"`
	Force      float64 `json:"force"`
	Stress     float64 `json:"stress"`
}

// Result is the outcome of one analysis, keyed by node and member id.
// Reactions only holds supported nodes.
type Result struct {
	Displacements map[int]Vec2        `json:"displacements"`
	Reactions     map[int]Vec2        `json:"reactions"`
	Members       map[int]MemberForce `json:"members"`

	FreeDOFs       int     `json:"free_dofs"`
	RestrainedDOFs int     `json:"restrained_dofs"`
	Condition      float64 `json:"condition"`
}

// Apply writes the result onto the truss. Nodes and members missing from
// the result are reset to zero.
func (r *Result) Apply(t *structure.Truss) {
	for _, n := range t.Nodes {
		d := r.Displacements[n.ID]
		n.DisplacementX, n.DisplacementY = d.X, d.Y

		rc := r.Reactions[n.ID]
		n.ReactionX, n.ReactionY = rc.X, rc.Y
	}
	for _, m := range t.Members {
		f := r.Members[m.ID]
		m.Force, m.Stress = f.Force, f.Stress
	}
}

// MaxDisplacement returns the node with the largest displacement magnitude.
func (r *Result) MaxDisplacement() (nodeID int, magnitude float64) {
	for _, id := range sortedKeys(r.Displacements) {
		d := r.Displacements[id]
		if m := d.X*d.X + d.Y*d.Y; m > magnitude {
			nodeID, magnitude = id, m
		}
	}
	return nodeID, math.Sqrt(magnitude)
}

// ReactionSum returns the sum of all reaction components.
func (r *Result) ReactionSum() Vec2 {
	var s Vec2
	for _, rc := range r.Reactions {
		s.X += rc.X
		s.Y += rc.Y
	}
	return s
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
