package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	gs := NewGridSearch(
		[]string{"a", "b"},
		[][]float64{{-1, 0, 1, 2}, {0.5, 1.0, 2.0}},
	)

	best, bestVal, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		// Minimum at a=1, b=0.5.
		return (p["a"]-1)*(p["a"]-1) + p["b"], nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if best["a"] != 1 || best["b"] != 0.5 {
		t.Errorf("unexpected best params: %v", best)
	}
	if math.Abs(bestVal-0.5) > 1e-12 {
		t.Errorf("unexpected best value: %f", bestVal)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	gs := NewGridSearch([]string{"a"}, [][]float64{{1, 2, 3}})

	best, bestVal, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["a"] == 1 {
			return 0, errors.New("boom")
		}
		return p["a"], nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["a"] != 2 || bestVal != 2 {
		t.Errorf("failed point not skipped: %v -> %f", best, bestVal)
	}
}

func TestGridSearchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch([]string{"a"}, [][]float64{{1, 2, 3}})
	evals := 0
	_, _, err := gs.Search(ctx, func(_ context.Context, p map[string]float64) (float64, error) {
		evals++
		return p["a"], nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if evals != 0 {
		t.Errorf("expected no evaluations after cancellation, got %d", evals)
	}
}
