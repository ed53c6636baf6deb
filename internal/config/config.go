package config

import (
	"fmt"
	"os"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultElasticModulus    = structure.DefaultElasticModulus
	DefaultArea              = structure.DefaultArea
	DefaultRegularization    = solver.DefaultRegularization
	DefaultReactionTolerance = solver.DefaultReactionTolerance
	DefaultConditionLimit    = solver.DefaultConditionLimit
)

// Config is the on-disk description of a truss.
type Config struct {
	Name        string         `yaml:"name" validate:"required"`
	Description string         `yaml:"description,omitempty"`
	Units       UnitsConfig    `yaml:"units"`
	Defaults    MaterialConfig `yaml:"defaults"`
	Solver      SolverConfig   `yaml:"solver"`
	Nodes       []NodeConfig   `yaml:"nodes" validate:"required,min=1,dive"`
	Members     []MemberConfig `yaml:"members" validate:"required,min=1,dive"`
}

// UnitsConfig labels output. No conversion is performed.
type UnitsConfig struct {
	Length string `yaml:"length"`
	Force  string `yaml:"force"`
}

type MaterialConfig struct {
	ElasticModulus float64 `yaml:"elastic_modulus" validate:"gt=0"`
	Area           float64 `yaml:"area" validate:"gt=0"`
}

type SolverConfig struct {
	Regularization    float64 `yaml:"regularization" validate:"gte=0"`
	ReactionTolerance float64 `yaml:"reaction_tolerance" validate:"gte=0"`
	ConditionLimit    float64 `yaml:"condition_limit" validate:"gte=0,lt=1"`
}

type NodeConfig struct {
	ID      int         `yaml:"id"`
	X       float64     `yaml:"x"`
	Y       float64     `yaml:"y"`
	Support string      `yaml:"support,omitempty" validate:"omitempty,oneof=pin fixed roller roller-x free"`
	Load    *LoadConfig `yaml:"load,omitempty"`
}

type LoadConfig struct {
	Magnitude float64 `yaml:"magnitude"`
	Angle     float64 `yaml:"angle"`
}

// MemberConfig falls back to Config.Defaults for unset material values.
type MemberConfig struct {
	ID             int      `yaml:"id"`
	Start          int      `yaml:"start"`
	End            int      `yaml:"end" validate:"nefield=Start"`
	ElasticModulus *float64 `yaml:"elastic_modulus,omitempty" validate:"omitempty,gt=0"`
	Area           *float64 `yaml:"area,omitempty" validate:"omitempty,gt=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Units: UnitsConfig{Length: "m", Force: "N"},
		Defaults: MaterialConfig{
			ElasticModulus: DefaultElasticModulus,
			Area:           DefaultArea,
		},
		Solver: SolverConfig{
			Regularization:    DefaultRegularization,
			ReactionTolerance: DefaultReactionTolerance,
			ConditionLimit:    DefaultConditionLimit,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML description.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SolverOptions converts the solver section into solver options.
func (c *Config) SolverOptions() []solver.Option {
	return []solver.Option{
		solver.WithRegularization(c.Solver.Regularization),
		solver.WithReactionTolerance(c.Solver.ReactionTolerance),
		solver.WithConditionLimit(c.Solver.ConditionLimit),
	}
}

// Build creates the truss described by c. Node and member order follow
// the file.
func (c *Config) Build() (*structure.Truss, error) {
	t := &structure.Truss{}
	byID := make(map[int]*structure.Node, len(c.Nodes))

	for _, nc := range c.Nodes {
		if _, dup := byID[nc.ID]; dup {
			return nil, fmt.Errorf("%w: %d", structure.ErrDuplicateNode, nc.ID)
		}
		n := structure.NewNode(nc.ID, nc.X, nc.Y)
		if s := supportFor(nc.Support); s != nil {
			n.SetSupport(s)
		}
		if nc.Load != nil {
			n.SetLoad(&structure.Load{Magnitude: nc.Load.Magnitude, Angle: nc.Load.Angle})
		}
		byID[nc.ID] = t.AddNode(n)
	}

	for _, mc := range c.Members {
		start, ok := byID[mc.Start]
		if !ok {
			return nil, fmt.Errorf("%w: member %d start %d", structure.ErrUnknownNode, mc.ID, mc.Start)
		}
		end, ok := byID[mc.End]
		if !ok {
			return nil, fmt.Errorf("%w: member %d end %d", structure.ErrUnknownNode, mc.ID, mc.End)
		}

		e, a := c.Defaults.ElasticModulus, c.Defaults.Area
		if mc.ElasticModulus != nil {
			e = *mc.ElasticModulus
		}
		if mc.Area != nil {
			a = *mc.Area
		}
		t.AddMember(structure.NewMember(mc.ID, start, end, e, a))
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromTruss describes an existing truss. Members whose material matches
// the defaults omit it.
func FromTruss(name string, t *structure.Truss) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	return cfg.Snapshot(t)
}

// Snapshot describes t with the name, description, units, material
// defaults and solver settings of c. Geometry, supports and loads come
// from t.
func (c *Config) Snapshot(t *structure.Truss) *Config {
	cfg := &Config{
		Name:        c.Name,
		Description: c.Description,
		Units:       c.Units,
		Defaults:    c.Defaults,
		Solver:      c.Solver,
	}
	describe(cfg, t)
	return cfg
}

func describe(cfg *Config, t *structure.Truss) {
	for _, n := range t.Nodes {
		nc := NodeConfig{ID: n.ID, X: n.X, Y: n.Y}
		if n.Support != nil {
			nc.Support = n.Support.Kind()
		}
		if n.Load != nil {
			nc.Load = &LoadConfig{Magnitude: n.Load.Magnitude, Angle: n.Load.Angle}
		}
		cfg.Nodes = append(cfg.Nodes, nc)
	}

	for _, m := range t.Members {
		mc := MemberConfig{ID: m.ID, Start: m.Start.ID, End: m.End.ID}
		if m.ElasticModulus != cfg.Defaults.ElasticModulus {
			e := m.ElasticModulus
			mc.ElasticModulus = &e
		}
		if m.Area != cfg.Defaults.Area {
			a := m.Area
			mc.Area = &a
		}
		cfg.Members = append(cfg.Members, mc)
	}
}

func supportFor(kind string) *structure.Support {
	switch kind {
	case "pin", "fixed":
		return structure.Pin()
	case "roller":
		return structure.Roller()
	case "roller-x":
		return structure.RollerX()
	case "free":
		return structure.Free()
	default:
		return nil
	}
}
