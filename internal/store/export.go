package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mkrv/lqnash/internal/solver"
)

// ExportData is the flat JSON form of a solved run: the full iterate
// history plus the final trajectory, for external tooling.
type ExportData struct {
	Problem    string          `json:"problem"`
	Dt         float64         `json:"dt"`
	Horizon    float64         `json:"horizon"`
	Iterations int             `json:"iterations"`
	Iterates   []IterateRecord `json:"iterates"`
	States     [][]float64     `json:"states"`
	Controls   [][][]float64   `json:"controls"`
}

func BuildExport(problem string, dt, horizon float64, log *solver.Log) *ExportData {
	data := &ExportData{
		Problem:    problem,
		Dt:         dt,
		Horizon:    horizon,
		Iterations: log.Len(),
	}

	for _, e := range log.Entries() {
		data.Iterates = append(data.Iterates, IterateRecord{
			Iteration:      e.Iteration,
			StepSize:       e.StepSize,
			Accepted:       e.Accepted,
			TotalCosts:     e.TotalCosts,
			MaxFeedforward: e.MaxFeedforward,
		})
	}

	last := log.Last()
	if last == nil {
		return data
	}

	op := last.OperatingPoint
	data.States = make([][]float64, len(op.Xs))
	for k, x := range op.Xs {
		row := make([]float64, x.Len())
		for i := range row {
			row[i] = x.AtVec(i)
		}
		data.States[k] = row
	}

	data.Controls = make([][][]float64, len(op.Us))
	for k, us := range op.Us {
		data.Controls[k] = make([][]float64, len(us))
		for p, u := range us {
			row := make([]float64, u.Len())
			for i := range row {
				row[i] = u.AtVec(i)
			}
			data.Controls[k][p] = row
		}
	}
	return data
}

func ExportJSON(path string, data *ExportData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONStdout(data *ExportData) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintJSON pretty-prints any value as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
