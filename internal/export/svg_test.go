package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/solver"
)

func twoPlayerOp() *solver.OperatingPoint {
	return &solver.OperatingPoint{
		Xs: []*mat.VecDense{
			mat.NewVecDense(6, []float64{0, 0, 0, 4, 4, 0}),
			mat.NewVecDense(6, []float64{1, 0.5, 0, 3, 3.5, 0}),
			mat.NewVecDense(6, []float64{2, 1, 0, 2, 3, 0}),
		},
	}
}

func TestTrajectorySVG(t *testing.T) {
	svg := TrajectorySVG(twoPlayerOp(), [][2]int{{0, 1}, {3, 4}}, DefaultSVGOptions())

	if !strings.HasPrefix(svg, "<svg") {
		t.Error("missing svg root element")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("missing closing tag")
	}
	if n := strings.Count(svg, "<polyline"); n != 2 {
		t.Errorf("expected 2 polylines, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 start markers, got %d", n)
	}
	if !strings.Contains(svg, ">P1<") || !strings.Contains(svg, ">P2<") {
		t.Error("missing player labels")
	}
}

func TestTrajectorySVGDegenerateExtent(t *testing.T) {
	// A stationary trajectory must not divide by a zero extent.
	op := &solver.OperatingPoint{
		Xs: []*mat.VecDense{
			mat.NewVecDense(2, []float64{1, 1}),
			mat.NewVecDense(2, []float64{1, 1}),
		},
	}
	svg := TrajectorySVG(op, [][2]int{{0, 1}}, DefaultSVGOptions())
	if strings.Contains(svg, "NaN") {
		t.Error("degenerate extent produced NaN coordinates")
	}
}

func TestWriteTrajectorySVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteTrajectorySVG(path, twoPlayerOp(), [][2]int{{0, 1}}, DefaultSVGOptions()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("svg file missing or empty: %v", err)
	}
}
