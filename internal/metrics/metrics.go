package metrics

import (
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

// Metric reduces a solved truss to a single number.
type Metric interface {
	Name() string
	Evaluate(t *structure.Truss, r *solver.Result) float64
}

func Defaults() []Metric {
	return []Metric{
		NewEquilibrium(),
		NewMaxDisplacement(),
		NewMaxTension(),
		NewMaxCompression(),
		NewMaxStress(),
		NewStrainEnergy(),
	}
}

func EvaluateAll(t *structure.Truss, r *solver.Result, ms ...Metric) map[string]float64 {
	if len(ms) == 0 {
		ms = Defaults()
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Evaluate(t, r)
	}
	return out
}
