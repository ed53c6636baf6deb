package solver

import (
	"math"

	"github.com/san-kum/truss2d/internal/structure"
	"gonum.org/v1/gonum/mat"
)

// memberForces computes axial elongation, force and stress per member from
// the full displacement vector.
func memberForces(t *structure.Truss, dofs *DOFMap, U *mat.VecDense) map[int]MemberForce {
	out := make(map[int]MemberForce, len(t.Members))
	for _, m := range t.Members {
		length, c, s := m.Geometry()

		sx, sy := dofs.Rows(m.Start.ID)
		ex, ey := dofs.Rows(m.End.ID)
		u1, v1 := U.AtVec(sx), U.AtVec(sy)
		u2, v2 := U.AtVec(ex), U.AtVec(ey)

		e := (u2-u1)*c + (v2-v1)*s
		force := e * m.ElasticModulus * m.Area / length

		stress := 0.0
		if m.Area > 0 {
			stress = force / m.Area
		}

		out[m.ID] = MemberForce{
			Length:     length,
			Elongation: e,
			Force:      force,
			Stress:     stress,
		}
	}
	return out
}

// reactions computes R = K·U − F and keeps the restrained rows of supported
// nodes. Components below tol are snapped to zero; unrestrained axes are 0.
func reactions(t *structure.Truss, dofs *DOFMap, K *mat.Dense, U, F *mat.VecDense, tol float64) map[int]Vec2 {
	var R mat.VecDense
	R.MulVec(K, U)
	R.SubVec(&R, F)

	out := make(map[int]Vec2)
	for _, n := range t.Nodes {
		if !n.Supported() {
			continue
		}
		x, y := dofs.Rows(n.ID)
		var r Vec2
		if n.Restrained(structure.AxisX) {
			r.X = snap(R.AtVec(x), tol)
		}
		if n.Restrained(structure.AxisY) {
			r.Y = snap(R.AtVec(y), tol)
		}
		out[n.ID] = r
	}
	return out
}

func snap(v, tol float64) float64 {
	if math.Abs(v) < tol {
		return 0
	}
	return v
}
