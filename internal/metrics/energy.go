package metrics

import (
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

// StrainEnergy is the external work ½·Uᵀ·F of the applied loads.
type StrainEnergy struct {
	name string
}

func NewStrainEnergy() *StrainEnergy {
	return &StrainEnergy{name: "strain_energy"}
}

func (s *StrainEnergy) Name() string { return s.name }

func (s *StrainEnergy) Evaluate(t *structure.Truss, r *solver.Result) float64 {
	w := 0.0
	for _, n := range t.Nodes {
		fx, fy := n.Load.Components()
		d := r.Displacements[n.ID]
		w += d.X*fx + d.Y*fy
	}
	return 0.5 * w
}

// MemberEnergy sums F²L/(2EA) over members. It matches StrainEnergy for a
// consistent solution.
func MemberEnergy(t *structure.Truss, r *solver.Result) float64 {
	u := 0.0
	for _, m := range t.Members {
		k := m.Rigidity()
		if k == 0 {
			continue
		}
		f := r.Members[m.ID].Force
		u += f * f / (2 * k)
	}
	return u
}
