package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
	"go.uber.org/zap"
)

type Mode string

const (
	// ModeAngle sets the load direction to the parameter, in degrees.
	ModeAngle Mode = "angle"
	// ModeScale multiplies the node's load magnitude by the parameter.
	ModeScale Mode = "scale"
)

var (
	ErrInvalidSweep = errors.New("invalid sweep")
	ErrNoLoad       = fmt.Errorf("%w: node carries no load", ErrInvalidSweep)
	ErrUnknownNode  = fmt.Errorf("%w: unknown node", ErrInvalidSweep)
)

type Sweep struct {
	NodeID  int
	Mode    Mode
	From    float64
	To      float64
	Steps   int
	Workers int
	Logger  *zap.Logger
}

// Failure records a case that could not be solved.
type Failure struct {
	Index int
	Param float64
	Err   error
}

type SweepResult struct {
	Params []float64
	// Forces holds one series per member id, aligned with Params. Failed
	// cases read NaN.
	Forces map[int][]float64
	// MaxDisplacement per case, NaN for failures.
	MaxDisplacement []float64
	Failures        []Failure
}

// Params returns the Steps evenly spaced parameter values from From to To.
// A single step yields From.
func (s Sweep) Params() []float64 {
	n := s.Steps
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{s.From}
	}
	out := make([]float64, n)
	step := (s.To - s.From) / float64(n-1)
	for i := range out {
		out[i] = s.From + float64(i)*step
	}
	return out
}

func (s Sweep) validate(t *structure.Truss) error {
	if s.Steps < 1 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidSweep, s.Steps)
	}
	if s.Mode != ModeAngle && s.Mode != ModeScale {
		return fmt.Errorf("%w: mode %q", ErrInvalidSweep, s.Mode)
	}
	n := t.Node(s.NodeID)
	if n == nil {
		return fmt.Errorf("%w %d", ErrUnknownNode, s.NodeID)
	}
	if n.Load == nil {
		return fmt.Errorf("%w %d", ErrNoLoad, s.NodeID)
	}
	return nil
}

// Run solves every case on a clone of t. The input truss is never
// modified. Unstable cases are recorded as failures; a cancelled context
// stops pending cases and Run returns ctx.Err().
func (s Sweep) Run(ctx context.Context, t *structure.Truss, sol *solver.Solver) (*SweepResult, error) {
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	params := s.Params()
	base := *t.Node(s.NodeID).Load

	res := &SweepResult{
		Params:          params,
		Forces:          make(map[int][]float64, len(t.Members)),
		MaxDisplacement: make([]float64, len(params)),
	}
	for _, m := range t.Members {
		res.Forces[m.ID] = make([]float64, len(params))
	}

	var mu sync.Mutex
	ParallelFor(len(params), 1, s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}

			c := t.Clone()
			c.Node(s.NodeID).SetLoad(s.caseLoad(base, params[i]))

			r, err := sol.Analyze(c)
			if err != nil {
				log.Debug("sweep case failed", zap.Int("case", i), zap.Float64("param", params[i]), zap.Error(err))
				mu.Lock()
				res.Failures = append(res.Failures, Failure{Index: i, Param: params[i], Err: err})
				mu.Unlock()
				res.MaxDisplacement[i] = math.NaN()
				for id := range res.Forces {
					res.Forces[id][i] = math.NaN()
				}
				continue
			}

			_, res.MaxDisplacement[i] = r.MaxDisplacement()
			for id, f := range r.Members {
				res.Forces[id][i] = f.Force
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortFailures(res.Failures)
	log.Info("sweep finished",
		zap.String("mode", string(s.Mode)),
		zap.Int("cases", len(params)),
		zap.Int("failures", len(res.Failures)),
	)
	return res, nil
}

func (s Sweep) caseLoad(base structure.Load, p float64) *structure.Load {
	l := base
	switch s.Mode {
	case ModeAngle:
		l.Angle = p
	case ModeScale:
		l.Magnitude = base.Magnitude * p
	}
	return &l
}

// Envelope returns the smallest and largest finite force of a member
// across the sweep, and ok=false if the member has no solved case.
func (r *SweepResult) Envelope(memberID int) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, f := range r.Forces[memberID] {
		if math.IsNaN(f) {
			continue
		}
		min = math.Min(min, f)
		max = math.Max(max, f)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// Critical returns the parameter at which the member force magnitude peaks.
func (r *SweepResult) Critical(memberID int) (param, force float64, ok bool) {
	for i, f := range r.Forces[memberID] {
		if math.IsNaN(f) {
			continue
		}
		if !ok || math.Abs(f) > math.Abs(force) {
			param, force, ok = r.Params[i], f, true
		}
	}
	return param, force, ok
}

func sortFailures(fs []Failure) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Index < fs[j].Index })
}
