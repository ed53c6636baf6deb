// Package solver implements the direct stiffness method for 2D trusses.
//
// A solve runs in four stages over a [structure.Truss]:
//
//   - assembly: global stiffness matrix K and load vector F
//   - partition: free/restrained degrees of freedom from the supports
//   - solve: K_free · U_free = F_free by LU factorization
//   - post-processing: member axial forces and support reactions
//
// # Example
//
//	s := solver.New(solver.WithLogger(logger))
//	result, err := s.Solve(truss)
//	if errors.Is(err, solver.ErrUnstableStructure) {
//	    // add supports
//	}
//
// [Solver.Analyze] is pure and returns a [Result]; [Solver.Solve] also
// writes the result onto the truss, and only does so when every stage
// succeeded.
//
// # Thread Safety
//
// A Solver holds no per-solve state and may be shared. Solving the same
// Truss from several goroutines is not supported; clone it first.
package solver
