package config

import (
	"sort"

	"github.com/san-kum/truss2d/internal/structure"
)

// Presets builds a fresh Config per call so callers may modify the result.
var Presets = map[string]func() *Config{
	"triangle":   Triangle,
	"warren":     func() *Config { return Warren(6, 30, 4, 10e3) },
	"pratt":      func() *Config { return Pratt(6, 24, 4, 10e3) },
	"howe":       func() *Config { return Howe(6, 24, 4, 10e3) },
	"cantilever": func() *Config { return Cantilever(4, 2, 1.5, 5e3) },
	"unstable":   Unstable,
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Triangle is a 10 m span, 5 m high triangle with a 1 kN downward load at
// the apex, pinned at the left and on a roller at the right.
func Triangle() *Config {
	cfg := DefaultConfig()
	cfg.Name = "triangle"
	cfg.Description = "three-member triangle, pin + roller, apex load"
	cfg.Defaults = MaterialConfig{ElasticModulus: 200e9, Area: 0.01}
	cfg.Nodes = []NodeConfig{
		{ID: 1, X: 0, Y: 0, Support: "pin"},
		{ID: 2, X: 10, Y: 0, Support: "roller"},
		{ID: 3, X: 5, Y: 5, Load: &LoadConfig{Magnitude: 1000, Angle: 270}},
	}
	cfg.Members = []MemberConfig{
		{ID: 1, Start: 1, End: 2},
		{ID: 2, Start: 2, End: 3},
		{ID: 3, Start: 3, End: 1},
	}
	return cfg
}

// Warren is a Warren girder: bottom chord of panels bays, apex nodes at
// mid-bay carrying the load.
func Warren(panels int, span, height, load float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = "warren"
	cfg.Description = "warren girder, loads on top chord"

	b := newBuilder(cfg)
	w := span / float64(panels)
	bottom := b.row(panels+1, 0, w, 0)
	top := b.row(panels, w/2, w, height)
	b.support(bottom[0], "pin")
	b.support(bottom[panels], "roller")
	for _, n := range top {
		b.load(n, load, 270)
	}

	for i := 0; i < panels; i++ {
		b.member(bottom[i], bottom[i+1])
		b.member(bottom[i], top[i])
		b.member(top[i], bottom[i+1])
		if i > 0 {
			b.member(top[i-1], top[i])
		}
	}
	return cfg
}

// Pratt has verticals at every panel point and diagonals sloping down
// toward mid-span, loaded on the bottom chord.
func Pratt(panels int, span, height, load float64) *Config {
	return verticalTruss("pratt", "pratt truss, bottom chord loads", panels, span, height, load, true)
}

// Howe mirrors Pratt: diagonals slope up toward mid-span.
func Howe(panels int, span, height, load float64) *Config {
	return verticalTruss("howe", "howe truss, bottom chord loads", panels, span, height, load, false)
}

func verticalTruss(name, desc string, panels int, span, height, load float64, pratt bool) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Description = desc

	b := newBuilder(cfg)
	w := span / float64(panels)
	bottom := b.row(panels+1, 0, w, 0)
	top := b.row(panels+1, 0, w, height)
	b.support(bottom[0], "pin")
	b.support(bottom[panels], "roller")
	for i := 1; i < panels; i++ {
		b.load(bottom[i], load, 270)
	}

	for i := 0; i < panels; i++ {
		b.member(bottom[i], bottom[i+1])
		b.member(top[i], top[i+1])
	}
	for i := 0; i <= panels; i++ {
		b.member(bottom[i], top[i])
	}
	for i := 0; i < panels; i++ {
		leftHalf := 2*i < panels
		if leftHalf == pratt {
			b.member(top[i], bottom[i+1])
		} else {
			b.member(bottom[i], top[i+1])
		}
	}
	return cfg
}

// Cantilever is a wall-mounted bracket: two pinned wall nodes, panels bays
// outward, a tip load.
func Cantilever(panels int, bay, depth, load float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = "cantilever"
	cfg.Description = "cantilever bracket, pinned wall, tip load"

	b := newBuilder(cfg)
	bottom := b.row(panels+1, 0, bay, 0)
	top := b.row(panels, 0, bay, depth)
	b.support(bottom[0], "pin")
	b.support(top[0], "pin")
	b.load(bottom[panels], load, 270)

	for i := 0; i < panels; i++ {
		b.member(bottom[i], bottom[i+1])
		b.member(top[i], bottom[i+1])
		if i > 0 {
			b.member(top[i-1], top[i])
			b.member(bottom[i], top[i])
		}
	}
	return cfg
}

// Unstable is a square without a diagonal: a mechanism.
func Unstable() *Config {
	cfg := DefaultConfig()
	cfg.Name = "unstable"
	cfg.Description = "four-bar mechanism, fails with an unstable structure error"
	cfg.Nodes = []NodeConfig{
		{ID: 1, X: 0, Y: 0, Support: "pin"},
		{ID: 2, X: 4, Y: 0, Support: "roller"},
		{ID: 3, X: 4, Y: 4},
		{ID: 4, X: 0, Y: 4, Load: &LoadConfig{Magnitude: 500, Angle: 0}},
	}
	cfg.Members = []MemberConfig{
		{ID: 1, Start: 1, End: 2},
		{ID: 2, Start: 2, End: 3},
		{ID: 3, Start: 3, End: 4},
		{ID: 4, Start: 4, End: 1},
	}
	return cfg
}

type builder struct {
	cfg    *Config
	nextID int
	nextM  int
}

func newBuilder(cfg *Config) *builder {
	return &builder{cfg: cfg, nextID: 1, nextM: 1}
}

// row appends n nodes at height y starting at x0 with spacing dx and
// returns their indices into cfg.Nodes.
func (b *builder) row(n int, x0, dx, y float64) []int {
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = len(b.cfg.Nodes)
		b.cfg.Nodes = append(b.cfg.Nodes, NodeConfig{ID: b.nextID, X: x0 + float64(i)*dx, Y: y})
		b.nextID++
	}
	return idx
}

func (b *builder) support(i int, kind string) {
	b.cfg.Nodes[i].Support = kind
}

func (b *builder) load(i int, magnitude, angle float64) {
	b.cfg.Nodes[i].Load = &LoadConfig{Magnitude: magnitude, Angle: angle}
}

func (b *builder) member(i, j int) {
	b.cfg.Members = append(b.cfg.Members, MemberConfig{
		ID:    b.nextM,
		Start: b.cfg.Nodes[i].ID,
		End:   b.cfg.Nodes[j].ID,
	})
	b.nextM++
}

// MustBuild builds a preset, panicking on error.
func MustBuild(name string) *structure.Truss {
	cfg := GetPreset(name)
	if cfg == nil {
		panic("config: unknown preset " + name)
	}
	t, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return t
}
