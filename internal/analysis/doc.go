// Package analysis runs parametric studies on a truss.
//
// A [Sweep] varies the load on one node, either its direction or its
// magnitude, and solves every case on its own clone of the truss:
//
//	sw := analysis.Sweep{NodeID: 3, Mode: analysis.ModeAngle, From: 0, To: 360, Steps: 73}
//	res, err := sw.Run(ctx, t, solver.New())
//	forces := res.Forces[memberID]
//
// Cases whose structure turns out unstable are recorded in
// [SweepResult.Failures] and leave NaN in the force series.
package analysis
