package solver

import (
	"github.com/san-kum/truss2d/internal/structure"
	"gonum.org/v1/gonum/mat"
)

// LocalStiffness returns the 4×4 member stiffness in global axes, ordered
// (start.x, start.y, end.x, end.y).
func LocalStiffness(m *structure.Member) ([4][4]float64, error) {
	var k [4][4]float64
	length, c, s := m.Geometry()
	if length < structure.MinLength {
		return k, &DegenerateMemberError{MemberID: m.ID, Reason: "endpoints coincide"}
	}

	a := m.ElasticModulus * m.Area / length
	cc, cs, ss := a*c*c, a*c*s, a*s*s
	k = [4][4]float64{
		{+cc, +cs, -cc, -cs},
		{+cs, +ss, -cs, -ss},
		{-cc, -cs, +cc, +cs},
		{-cs, -ss, +cs, +ss},
	}
	return k, nil
}

// Assemble builds the global stiffness matrix, without regularization.
// Contributions of members sharing DOFs are summed.
func Assemble(t *structure.Truss, dofs *DOFMap) (*mat.Dense, error) {
	n := dofs.Size()
	K := mat.NewDense(n, n, nil)

	for _, m := range t.Members {
		k, err := LocalStiffness(m)
		if err != nil {
			return nil, err
		}

		sx, sy := dofs.Rows(m.Start.ID)
		ex, ey := dofs.Rows(m.End.ID)
		umap := [4]int{sx, sy, ex, ey}

		for i, I := range umap {
			for j, J := range umap {
				K.Set(I, J, K.At(I, J)+k[i][j])
			}
		}
	}
	return K, nil
}

// Regularize adds eps to every diagonal entry of K.
func Regularize(K *mat.Dense, eps float64) {
	n, _ := K.Dims()
	for i := 0; i < n; i++ {
		K.Set(i, i, K.At(i, i)+eps)
	}
}

// LoadVector builds the global load vector. Loads add into their rows.
func LoadVector(t *structure.Truss, dofs *DOFMap) *mat.VecDense {
	F := mat.NewVecDense(dofs.Size(), nil)
	for _, n := range t.Nodes {
		if n.Load == nil {
			continue
		}
		fx, fy := n.Load.Components()
		x, y := dofs.Rows(n.ID)
		F.SetVec(x, F.AtVec(x)+fx)
		F.SetVec(y, F.AtVec(y)+fy)
	}
	return F
}
