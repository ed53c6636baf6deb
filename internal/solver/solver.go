package solver

import (
	"fmt"

	"github.com/san-kum/truss2d/internal/structure"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultRegularization    = 1e-9
	DefaultReactionTolerance = 1e-5
	DefaultConditionLimit    = 1e-12
)

type Solver struct {
	log               *zap.Logger
	regularization    float64
	reactionTolerance float64
	conditionLimit    float64
}

type Option func(*Solver)

func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRegularization sets the value added to every diagonal entry of K.
func WithRegularization(eps float64) Option {
	return func(s *Solver) { s.regularization = eps }
}

// WithReactionTolerance sets the magnitude below which reactions read 0.
func WithReactionTolerance(tol float64) Option {
	return func(s *Solver) { s.reactionTolerance = tol }
}

// WithConditionLimit sets the smallest reciprocal condition number of the
// diagonally scaled reduced stiffness matrix that is still considered stable.
func WithConditionLimit(rcond float64) Option {
	return func(s *Solver) { s.conditionLimit = rcond }
}

func New(opts ...Option) *Solver {
	s := &Solver{
		log:               zap.NewNop(),
		regularization:    DefaultRegularization,
		reactionTolerance: DefaultReactionTolerance,
		conditionLimit:    DefaultConditionLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve analyzes t with a default solver and writes the result onto it.
func Solve(t *structure.Truss) (*Result, error) {
	return New().Solve(t)
}

// Solve runs Analyze and applies the result to t. On error t is unchanged.
func (s *Solver) Solve(t *structure.Truss) (*Result, error) {
	r, err := s.Analyze(t)
	if err != nil {
		return nil, err
	}
	r.Apply(t)
	return r, nil
}

// Analyze computes displacements, member forces and reactions of t without
// modifying it.
func (s *Solver) Analyze(t *structure.Truss) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	dofs := NewDOFMap(t)
	K, err := Assemble(t, dofs)
	if err != nil {
		s.log.Warn("assembly failed", zap.Error(err))
		return nil, err
	}
	F := LoadVector(t, dofs)
	free := dofs.Free()

	s.log.Debug("assembled",
		zap.Int("nodes", len(t.Nodes)),
		zap.Int("members", len(t.Members)),
		zap.Int("dofs", dofs.Size()),
		zap.Int("free", len(free)),
	)

	U := mat.NewVecDense(dofs.Size(), nil)
	cond := 1.0
	if len(free) > 0 {
		Kf, Ff := Reduce(K, F, free)
		sol, err := solveReduced(Kf, Ff, s.regularization, s.conditionLimit)
		if err != nil {
			s.log.Warn("reduced solve rejected", zap.Int("free", len(free)), zap.Error(err))
			return nil, err
		}
		cond = sol.Condition
		U = Expand(sol.U, free, dofs.Size())
	}
	Regularize(K, s.regularization)
	s.log.Debug("solved", zap.Float64("condition", cond))

	r := &Result{
		Displacements:  make(map[int]Vec2, len(t.Nodes)),
		Reactions:      reactions(t, dofs, K, U, F, s.reactionTolerance),
		Members:        memberForces(t, dofs, U),
		FreeDOFs:       len(free),
		RestrainedDOFs: dofs.NumRestrained(),
		Condition:      cond,
	}
	for _, n := range t.Nodes {
		x, y := dofs.Rows(n.ID)
		r.Displacements[n.ID] = Vec2{X: U.AtVec(x), Y: U.AtVec(y)}
	}
	return r, nil
}

func (s *Solver) String() string {
	return fmt.Sprintf("solver(eps=%g, rtol=%g, rcond=%g)", s.regularization, s.reactionTolerance, s.conditionLimit)
}
