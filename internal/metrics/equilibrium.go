package metrics

import (
	"math"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

// Equilibrium is the magnitude of the global force residual: applied loads
// plus reactions. A correct solve gives a value near zero.
type Equilibrium struct {
	name string
}

func NewEquilibrium() *Equilibrium {
	return &Equilibrium{name: "equilibrium_residual"}
}

func (e *Equilibrium) Name() string { return e.name }

func (e *Equilibrium) Evaluate(t *structure.Truss, r *solver.Result) float64 {
	x, y := e.Residual(t, r)
	return math.Hypot(x, y)
}

// Residual returns the per-axis sums of loads and reactions.
func (e *Equilibrium) Residual(t *structure.Truss, r *solver.Result) (x, y float64) {
	for _, n := range t.Nodes {
		fx, fy := n.Load.Components()
		x += fx
		y += fy
	}
	sum := r.ReactionSum()
	return x + sum.X, y + sum.Y
}
