package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

type ExportNode struct {
	ID           int          `json:"id"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Support      string       `json:"support"`
	Displacement solver.Vec2  `json:"displacement"`
	Reaction     *solver.Vec2 `json:"reaction,omitempty"`
}

type ExportMember struct {
	ID     int     `json:"id"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Length float64 `json:"length"`
	Force  float64 `json:"force"`
	Stress float64 `json:"stress"`
	State  string  `json:"state"`
}

type ExportData struct {
	Name      string             `json:"name"`
	FreeDOFs  int                `json:"free_dofs"`
	Condition float64            `json:"condition"`
	Nodes     []ExportNode       `json:"nodes"`
	Members   []ExportMember     `json:"members"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(name string, t *structure.Truss, r *solver.Result, metrics map[string]float64) ExportData {
	data := ExportData{
		Name:      name,
		FreeDOFs:  r.FreeDOFs,
		Condition: r.Condition,
		Nodes:     make([]ExportNode, 0, len(t.Nodes)),
		Members:   make([]ExportMember, 0, len(t.Members)),
		Metrics:   metrics,
	}

	for _, n := range t.Nodes {
		en := ExportNode{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Support:      n.Support.Kind(),
			Displacement: r.Displacements[n.ID],
		}
		if rc, ok := r.Reactions[n.ID]; ok {
			en.Reaction = &rc
		}
		data.Nodes = append(data.Nodes, en)
	}

	for _, m := range t.Members {
		f := r.Members[m.ID]
		data.Members = append(data.Members, ExportMember{
			ID:     m.ID,
			Start:  m.Start.ID,
			End:    m.End.ID,
			Length: f.Length,
			Force:  f.Force,
			Stress: f.Stress,
			State:  forceState(f.Force).String(),
		})
	}
	return data
}

func ExportJSON(path, name string, t *structure.Truss, r *solver.Result, metrics map[string]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSONTo(file, name, t, r, metrics)
}

func ExportJSONTo(w io.Writer, name string, t *structure.Truss, r *solver.Result, metrics map[string]float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(name, t, r, metrics))
}

// ExportCSVTo writes the member table of a stored run.
func ExportCSVTo(w io.Writer, members []MemberRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(memberHeader); err != nil {
		return err
	}
	for _, m := range members {
		row := []string{
			strconv.Itoa(m.ID),
			strconv.Itoa(m.Start),
			strconv.Itoa(m.End),
			formatFloat(m.Length),
			formatFloat(m.Force),
			formatFloat(m.Stress),
			m.State,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func forceState(f float64) structure.MemberState {
	m := structure.Member{Force: f}
	return m.State()
}
