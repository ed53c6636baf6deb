package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Reduce extracts the rows and columns listed in rows, in order.
func Reduce(K *mat.Dense, F *mat.VecDense, rows []int) (*mat.Dense, *mat.VecDense) {
	n := len(rows)
	Kf := mat.NewDense(n, n, nil)
	Ff := mat.NewVecDense(n, nil)
	for i, r := range rows {
		Ff.SetVec(i, F.AtVec(r))
		for j, c := range rows {
			Kf.Set(i, j, K.At(r, c))
		}
	}
	return Kf, Ff
}

// Expand scatters the free solution into a full displacement vector.
// Restrained rows stay exactly zero.
func Expand(Uf *mat.VecDense, rows []int, size int) *mat.VecDense {
	U := mat.NewVecDense(size, nil)
	for i, r := range rows {
		U.SetVec(r, Uf.AtVec(i))
	}
	return U
}

type reducedSolve struct {
	U         *mat.VecDense
	Condition float64
}

// solveReduced checks the stability of the unregularized Kf, then solves
// (Kf + eps·I)·Uf = Ff. Kf is modified.
func solveReduced(Kf *mat.Dense, Ff *mat.VecDense, eps, rcondLimit float64) (*reducedSolve, error) {
	n, _ := Kf.Dims()

	cond := scaledCondition(Kf)
	if math.IsInf(cond, 1) || math.IsNaN(cond) || 1/cond < rcondLimit {
		return nil, &UnstableStructureError{FreeDOFs: n, Condition: cond}
	}

	Regularize(Kf, eps)
	var lu mat.LU
	lu.Factorize(Kf)

	Uf := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(Uf, false, Ff); err != nil {
		return nil, &UnstableStructureError{FreeDOFs: n, Condition: cond, Cause: err}
	}
	for i := 0; i < n; i++ {
		v := Uf.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &UnstableStructureError{FreeDOFs: n, Condition: cond}
		}
	}
	return &reducedSolve{U: Uf, Condition: cond}, nil
}

// scaledCondition returns the condition number of D^-1/2·K·D^-1/2 with
// D = diag(K). The result does not depend on the unit system. A free DOF
// with no stiffness gives +Inf.
func scaledCondition(K *mat.Dense) float64 {
	n, _ := K.Dims()
	d := make([]float64, n)
	for i := range d {
		kii := K.At(i, i)
		if !(kii > 0) {
			return math.Inf(1)
		}
		d[i] = 1 / math.Sqrt(kii)
	}

	S := mat.NewDense(n, n, nil)
	S.Apply(func(i, j int, v float64) float64 {
		return v * d[i] * d[j]
	}, K)

	var lu mat.LU
	lu.Factorize(S)
	return lu.Cond()
}
