package solver

import "github.com/san-kum/truss2d/internal/structure"

// DOFMap assigns matrix rows to node identifiers. The node at position i
// in the truss owns rows 2i (x) and 2i+1 (y).
type DOFMap struct {
	index map[int]int
	free  []bool
}

func NewDOFMap(t *structure.Truss) *DOFMap {
	d := &DOFMap{
		index: make(map[int]int, len(t.Nodes)),
		free:  make([]bool, t.DOFs()),
	}
	for i, n := range t.Nodes {
		d.index[n.ID] = i
		d.free[2*i] = !n.Restrained(structure.AxisX)
		d.free[2*i+1] = !n.Restrained(structure.AxisY)
	}
	return d
}

// Rows returns the x and y rows of a node.
func (d *DOFMap) Rows(nodeID int) (x, y int) {
	i := d.index[nodeID]
	return 2 * i, 2*i + 1
}

func (d *DOFMap) Size() int { return len(d.free) }

func (d *DOFMap) IsFree(row int) bool { return d.free[row] }

// Free returns the free rows in ascending order.
func (d *DOFMap) Free() []int {
	rows := make([]int, 0, len(d.free))
	for i, f := range d.free {
		if f {
			rows = append(rows, i)
		}
	}
	return rows
}

func (d *DOFMap) NumRestrained() int {
	return d.Size() - len(d.Free())
}
