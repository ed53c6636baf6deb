package metrics

import (
	"math"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

type MaxDisplacement struct {
	name string
}

func NewMaxDisplacement() *MaxDisplacement {
	return &MaxDisplacement{name: "max_displacement"}
}

func (m *MaxDisplacement) Name() string { return m.name }

func (m *MaxDisplacement) Evaluate(_ *structure.Truss, r *solver.Result) float64 {
	_, mag := r.MaxDisplacement()
	return mag
}

// MaxTension is the largest positive member force, 0 if none.
type MaxTension struct {
	name string
}

func NewMaxTension() *MaxTension {
	return &MaxTension{name: "max_tension"}
}

func (m *MaxTension) Name() string { return m.name }

func (m *MaxTension) Evaluate(_ *structure.Truss, r *solver.Result) float64 {
	max := 0.0
	for _, f := range r.Members {
		if f.Force > max {
			max = f.Force
		}
	}
	return max
}

// MaxCompression is the magnitude of the most negative member force.
type MaxCompression struct {
	name string
}

func NewMaxCompression() *MaxCompression {
	return &MaxCompression{name: "max_compression"}
}

func (m *MaxCompression) Name() string { return m.name }

func (m *MaxCompression) Evaluate(_ *structure.Truss, r *solver.Result) float64 {
	max := 0.0
	for _, f := range r.Members {
		if -f.Force > max {
			max = -f.Force
		}
	}
	return max
}

type MaxStress struct {
	name string
}

func NewMaxStress() *MaxStress {
	return &MaxStress{name: "max_stress"}
}

func (m *MaxStress) Name() string { return m.name }

func (m *MaxStress) Evaluate(_ *structure.Truss, r *solver.Result) float64 {
	max := 0.0
	for _, f := range r.Members {
		max = math.Max(max, math.Abs(f.Stress))
	}
	return max
}
