package solver_test

import (
	"github.com/san-kum/truss2d/internal/structure"
)

const (
	steelE = 200e9
	area   = 0.01
)

// triangle is pinned at (0,0), on a roller at (10,0) and loaded at (5,5).
func triangle(load float64, angle float64) *structure.Truss {
	n1 := structure.NewNode(1, 0, 0)
	n2 := structure.NewNode(2, 10, 0)
	n3 := structure.NewNode(3, 5, 5)
	n1.SetSupport(structure.Pin())
	n2.SetSupport(structure.Roller())
	n3.SetLoad(&structure.Load{Magnitude: load, Angle: angle})

	return structure.New(
		[]*structure.Node{n1, n2, n3},
		[]*structure.Member{
			structure.NewMember(1, n1, n2, steelE, area),
			structure.NewMember(2, n2, n3, steelE, area),
			structure.NewMember(3, n3, n1, steelE, area),
		},
	)
}

// warren builds a Warren girder with the given number of bottom panels,
// pinned at the left end and on a roller at the right end, with a downward
// load on every top node.
func warren(panels int, span, height, load float64) *structure.Truss {
	t := &structure.Truss{}
	w := span / float64(panels)
	id := 1

	bottom := make([]*structure.Node, panels+1)
	for i := range bottom {
		bottom[i] = t.AddNode(structure.NewNode(id, float64(i)*w, 0))
		id++
	}
	top := make([]*structure.Node, panels)
	for i := range top {
		top[i] = t.AddNode(structure.NewNode(id, (float64(i)+0.5)*w, height))
		top[i].SetLoad(&structure.Load{Magnitude: load, Angle: 270})
		id++
	}
	bottom[0].SetSupport(structure.Pin())
	bottom[panels].SetSupport(structure.Roller())

	mid := 1
	add := func(a, b *structure.Node) {
		t.AddMember(structure.NewMember(mid, a, b, steelE, area))
		mid++
	}
	for i := 0; i < panels; i++ {
		add(bottom[i], bottom[i+1])
		add(bottom[i], top[i])
		add(top[i], bottom[i+1])
		if i > 0 {
			add(top[i-1], top[i])
		}
	}
	return t
}
