package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/truss2d/internal/config"
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

const (
	metadataFile  = "metadata.json"
	nodesFile     = "nodes.csv"
	membersFile   = "members.csv"
	structureFile = "structure.yaml"
)

var (
	nodeHeader   = []string{"id", "x", "y", "support", "ux", "uy", "rx", "ry"}
	memberHeader = []string{"id", "start", "end", "length", "force", "stress", "state"}
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Timestamp      time.Time          `json:"timestamp"`
	Nodes          int                `json:"nodes"`
	Members        int                `json:"members"`
	FreeDOFs       int                `json:"free_dofs"`
	RestrainedDOFs int                `json:"restrained_dofs"`
	Condition      float64            `json:"condition"`
	Metrics        map[string]float64 `json:"metrics"`
}

type NodeRecord struct {
	ID            int
	X, Y          float64
	Support       string
	DisplacementX float64
	DisplacementY float64
	ReactionX     float64
	ReactionY     float64
}

type MemberRecord struct {
	ID         int
	Start, End int
	Length     float64
	Force      float64
	Stress     float64
	State      string
}

// Save writes a solved truss under a new run directory and returns its id.
// The truss must already carry the result (see solver.Result.Apply). cfg
// supplies the run name, units and solver settings stored with it.
func (s *Store) Save(cfg *config.Config, t *structure.Truss, r *solver.Result, metrics map[string]float64) (string, error) {
	name := cfg.Name
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Name:           name,
		Timestamp:      time.Now(),
		Nodes:          len(t.Nodes),
		Members:        len(t.Members),
		FreeDOFs:       r.FreeDOFs,
		RestrainedDOFs: r.RestrainedDOFs,
		Condition:      r.Condition,
		Metrics:        metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, nodesFile), nodeHeader, nodeRows(t)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, membersFile), memberHeader, memberRows(t)); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, structureFile), cfg.Snapshot(t)); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStructure reads back the structure description stored with a run.
func (s *Store) LoadStructure(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, structureFile))
}

func (s *Store) LoadNodes(runID string) ([]NodeRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, nodesFile))
	if err != nil {
		return nil, err
	}

	nodes := make([]NodeRecord, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(nodeHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", nodesFile, i+2, len(nodeHeader), len(rec))
		}
		p := parser{}
		n := NodeRecord{
			ID:            p.int(rec[0]),
			X:             p.float(rec[1]),
			Y:             p.float(rec[2]),
			Support:       rec[3],
			DisplacementX: p.float(rec[4]),
			DisplacementY: p.float(rec[5]),
			ReactionX:     p.float(rec[6]),
			ReactionY:     p.float(rec[7]),
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s line %d: %w", nodesFile, i+2, p.err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (s *Store) LoadMembers(runID string) ([]MemberRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, membersFile))
	if err != nil {
		return nil, err
	}

	members := make([]MemberRecord, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(memberHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", membersFile, i+2, len(memberHeader), len(rec))
		}
		p := parser{}
		m := MemberRecord{
			ID:     p.int(rec[0]),
			Start:  p.int(rec[1]),
			End:    p.int(rec[2]),
			Length: p.float(rec[3]),
			Force:  p.float(rec[4]),
			Stress: p.float(rec[5]),
			State:  rec[6],
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s line %d: %w", membersFile, i+2, p.err)
		}
		members = append(members, m)
	}
	return members, nil
}

func nodeRows(t *structure.Truss) [][]string {
	rows := make([][]string, 0, len(t.Nodes))
	for _, n := range t.Nodes {
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			formatFloat(n.X),
			formatFloat(n.Y),
			n.Support.Kind(),
			formatFloat(n.DisplacementX),
			formatFloat(n.DisplacementY),
			formatFloat(n.ReactionX),
			formatFloat(n.ReactionY),
		})
	}
	return rows
}

func memberRows(t *structure.Truss) [][]string {
	rows := make([][]string, 0, len(t.Members))
	for _, m := range t.Members {
		rows = append(rows, []string{
			strconv.Itoa(m.ID),
			strconv.Itoa(m.Start.ID),
			strconv.Itoa(m.End.ID),
			formatFloat(m.Length()),
			formatFloat(m.Force),
			formatFloat(m.Stress),
			m.State().String(),
		})
	}
	return rows
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// readCSV returns the data rows, header dropped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// parser keeps the first conversion error so a row can be parsed in one
// expression.
type parser struct {
	err error
}

func (p *parser) float(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) int(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
