package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/mkrv/lqnash/internal/solver"
)

// Store persists solve runs under a base directory, one subdirectory
// per run: metadata.json, iterates.json and the final accepted
// trajectory as CSV.
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
	ID         string             `json:"id"`
	Problem    string             `json:"problem"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Horizon    float64            `json:"horizon"`
	Players    int                `json:"players"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	FinalCosts []float64          `json:"final_costs"`
	Metrics    map[string]float64 `json:"metrics"`
}

// IterateRecord is one row of the per-iteration history.
type IterateRecord struct {
	Iteration      int       `json:"iteration"`
	StepSize       float64   `json:"step_size"`
	Accepted       bool      `json:"accepted"`
	TotalCosts     []float64 `json:"total_costs"`
	MaxFeedforward float64   `json:"max_feedforward"`
}

func (s *Store) Save(problem string, dt, horizon float64, converged bool, log *solver.Log, metricVals map[string]float64) (string, error) {
	last := log.Last()
	if last == nil {
		return "", fmt.Errorf("store: empty iterate log")
	}

	runID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Problem:    problem,
		Timestamp:  time.Now(),
		Dt:         dt,
		Horizon:    horizon,
		Players:    len(last.TotalCosts),
		Iterations: log.Len(),
		Converged:  converged,
		FinalCosts: last.TotalCosts,
		Metrics:    metricVals,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	records := make([]IterateRecord, 0, log.Len())
	for _, e := range log.Entries() {
		records = append(records, IterateRecord{
			Iteration:      e.Iteration,
			StepSize:       e.StepSize,
			Accepted:       e.Accepted,
			TotalCosts:     e.TotalCosts,
			MaxFeedforward: e.MaxFeedforward,
		})
	}
	if err := writeJSON(filepath.Join(runDir, "iterates.json"), records); err != nil {
		return "", err
	}

	if err := s.writeTrajectory(filepath.Join(runDir, "trajectory.csv"), dt, last.OperatingPoint); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeTrajectory(path string, dt float64, op *solver.OperatingPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	xdim := op.Xs[0].Len()
	header := []string{"step", "time"}
	for i := 0; i < xdim; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for p, us := range op.Us[0] {
		for i := 0; i < us.Len(); i++ {
			header = append(header, fmt.Sprintf("u%d_%d", p, i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, x := range op.Xs {
		row := []string{
			strconv.Itoa(k),
			strconv.FormatFloat(float64(k)*dt, 'f', 4, 64),
		}
		for i := 0; i < x.Len(); i++ {
			row = append(row, strconv.FormatFloat(x.AtVec(i), 'g', 8, 64))
		}
		if k < len(op.Us) {
			for _, u := range op.Us[k] {
				for i := 0; i < u.Len(); i++ {
					row = append(row, strconv.FormatFloat(u.AtVec(i), 'g', 8, 64))
				}
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns all saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
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

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadIterates(runID string) ([]IterateRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "iterates.json"))
	if err != nil {
		return nil, err
	}
	var records []IterateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
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
