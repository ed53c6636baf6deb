package config

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

const triangleYAML = `
name: triangle
defaults:
  elastic_modulus: 2.0e11
  area: 0.01
nodes:
  - {id: 1, x: 0, y: 0, support: pin}
  - {id: 2, x: 10, y: 0, support: roller}
  - {id: 3, x: 5, y: 5, load: {magnitude: 1000, angle: 270}}
members:
  - {id: 1, start: 1, end: 2}
  - {id: 2, start: 2, end: 3}
  - {id: 3, start: 3, end: 1, area: 0.02}
`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Defaults.ElasticModulus != DefaultElasticModulus || cfg.Defaults.Area != DefaultArea {
		t.Error("unexpected default material")
	}
	if cfg.Solver.Regularization != DefaultRegularization {
		t.Errorf("expected regularization %g, got %g", DefaultRegularization, cfg.Solver.Regularization)
	}
	if cfg.Units.Length != "m" || cfg.Units.Force != "N" {
		t.Error("unexpected default units")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(triangleYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Name != "triangle" || len(cfg.Nodes) != 3 || len(cfg.Members) != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Solver.ConditionLimit != DefaultConditionLimit {
		t.Error("solver defaults should survive a file that omits them")
	}

	tr, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if tr.Node(1).Support.Kind() != "pin" || tr.Node(2).Support.Kind() != "roller" {
		t.Error("supports not applied")
	}
	if tr.Node(3).Load == nil || tr.Node(3).Load.Angle != 270 {
		t.Error("load not applied")
	}
	if tr.Member(3).Area != 0.02 || tr.Member(1).Area != 0.01 {
		t.Error("member area override not applied")
	}
	if tr.Member(2).ElasticModulus != 2e11 {
		t.Error("default modulus not applied")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "nodes: [{id: 1}]\nmembers: [{id: 1, start: 1, end: 2}]", "Name is required"},
		{"no members", "name: x\nnodes: [{id: 1}]", "Members"},
		{"bad support", "name: x\nnodes: [{id: 1, support: hinge}, {id: 2, x: 1}]\nmembers: [{id: 1, start: 1, end: 2}]", "one of"},
		{"same endpoints", "name: x\nnodes: [{id: 1}]\nmembers: [{id: 1, start: 1, end: 1}]", "must differ"},
		{"negative area", "name: x\nnodes: [{id: 1}, {id: 2, x: 1}]\nmembers: [{id: 1, start: 1, end: 2, area: -1}]", "greater than"},
		{"bad yaml", "name: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildReferenceErrors(t *testing.T) {
	cfg := Triangle()
	cfg.Members[0].End = 9
	if _, err := cfg.Build(); !errors.Is(err, structure.ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}

	cfg = Triangle()
	cfg.Nodes[1].ID = 1
	if _, err := cfg.Build(); !errors.Is(err, structure.ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}

	cfg = Triangle()
	cfg.Members[2].ID = 1
	if _, err := cfg.Build(); !errors.Is(err, structure.ErrDuplicateMember) {
		t.Errorf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truss.yaml")
	if err := Save(path, Warren(4, 16, 3, 1000)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "warren" || len(cfg.Nodes) != 9 || len(cfg.Members) != 15 {
		t.Errorf("unexpected round trip: %d nodes, %d members", len(cfg.Nodes), len(cfg.Members))
	}
}

func TestFromTruss(t *testing.T) {
	orig := MustBuild("triangle")
	orig.Node(2).SetSupport(structure.RollerX())

	cfg := FromTruss("copy", orig)
	if cfg.Nodes[1].Support != "roller-x" {
		t.Errorf("expected roller-x, got %q", cfg.Nodes[1].Support)
	}
	if cfg.Members[0].Area == nil || *cfg.Members[0].Area != 0.01 {
		t.Error("non-default area should be written")
	}

	tr, err := cfg.Build()
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if len(tr.Nodes) != 3 || tr.Node(3).Load.Magnitude != 1000 {
		t.Error("rebuilt truss differs")
	}
}

func TestSnapshot(t *testing.T) {
	cfg := Triangle()
	cfg.Description = "soft"
	cfg.Units = UnitsConfig{Length: "mm", Force: "kN"}
	cfg.Solver.ReactionTolerance = 1e-3

	tr, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	tr.Node(3).Load.Magnitude = 2000

	snap := cfg.Snapshot(tr)
	if snap.Name != "triangle" || snap.Description != "soft" || snap.Units != cfg.Units {
		t.Errorf("metadata not carried over: %+v", snap)
	}
	if snap.Solver != cfg.Solver {
		t.Errorf("solver settings not carried over: %+v", snap.Solver)
	}
	if snap.Members[0].Area != nil {
		t.Error("area matching the defaults should be omitted")
	}
	if snap.Nodes[2].Load.Magnitude != 2000 {
		t.Error("loads should come from the truss")
	}
}

func TestSolverOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.Regularization = 1e-6
	s := solver.New(cfg.SolverOptions()...)
	if !strings.Contains(s.String(), "eps=1e-06") {
		t.Errorf("regularization not passed through: %s", s)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	if GetPreset("nope") != nil {
		t.Error("expected nil for unknown preset")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("preset does not validate: %v", err)
			}
			tr, err := cfg.Build()
			if err != nil {
				t.Fatalf("preset does not build: %v", err)
			}

			_, err = solver.New(cfg.SolverOptions()...).Analyze(tr)
			if name == "unstable" {
				if !errors.Is(err, solver.ErrUnstableStructure) {
					t.Errorf("expected unstable structure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("preset does not solve: %v", err)
			}
		})
	}
}

func TestTrianglePresetForces(t *testing.T) {
	tr := MustBuild("triangle")
	r, err := solver.Solve(tr)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(r.Reactions[1].Y-500) > 1e-6 || math.Abs(r.Reactions[2].Y-500) > 1e-6 {
		t.Errorf("expected 500 N at each support, got %+v", r.Reactions)
	}
	if tr.Member(2).State() != structure.Compression {
		t.Errorf("expected inclined member in compression, got %s", tr.Member(2).State())
	}
}

func TestPresetIsFresh(t *testing.T) {
	a := GetPreset("triangle")
	a.Nodes[0].X = 42
	if GetPreset("triangle").Nodes[0].X == 42 {
		t.Error("presets should not share state")
	}
}
