package domain

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/louisbranch/riskodds/internal/odds"
	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
)

func TestSimulateHandlerUsesPinnedSeed(t *testing.T) {
	handler := SimulateHandler(odds.New(), func() (int64, error) {
		t.Fatal("seed source should not be called when a seed is pinned")
		return 0, nil
	})
	seed := int64(42)
	input := SimulateInput{Attackers: 6, Defenders: 4, Trials: 500, Seed: &seed}

	_, first, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	_, second, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("simulate again: %v", err)
	}
	if first != second {
		t.Fatalf("pinned seed results differ: %+v vs %+v", first, second)
	}
	if first.SeedUsed != 42 || first.Trials != 500 {
		t.Fatalf("result = %+v", first)
	}
	if math.Abs(first.ExactWinOdds-odds.New().WinOdds(6, 4)) > tolerance {
		t.Fatalf("exact win odds = %v", first.ExactWinOdds)
	}
}

func TestSimulateHandlerDrawsSeed(t *testing.T) {
	calls := 0
	handler := SimulateHandler(odds.New(), func() (int64, error) {
		calls++
		return 7, nil
	})
	_, result, err := handler(context.Background(), nil, SimulateInput{Attackers: 4, Defenders: 2, Trials: 10})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if calls != 1 || result.SeedUsed != 7 {
		t.Fatalf("calls = %d, seed used = %d", calls, result.SeedUsed)
	}
}

func TestSimulateHandlerPropagatesSeedError(t *testing.T) {
	seedErr := errors.New("entropy unavailable")
	handler := SimulateHandler(odds.New(), func() (int64, error) { return 0, seedErr })
	_, _, err := handler(context.Background(), nil, SimulateInput{Attackers: 4, Defenders: 2, Trials: 10})
	if !errors.Is(err, seedErr) {
		t.Fatalf("expected seed error, got %v", err)
	}
}

func TestSimulateHandlerRejectsTrials(t *testing.T) {
	handler := SimulateHandler(odds.New(), func() (int64, error) { return 1, nil })
	for _, trials := range []int{0, -5, MaxTrials + 1} {
		_, _, err := handler(context.Background(), nil, SimulateInput{Attackers: 4, Defenders: 2, Trials: trials})
		if apperrors.CodeOf(err) != apperrors.CodeInvalidSimulation {
			t.Fatalf("trials %d: expected invalid simulation, got %v", trials, err)
		}
	}
}

func TestSimulateHandlerReportsConsistency(t *testing.T) {
	handler := SimulateHandler(odds.New(), nil)
	seed := int64(5)
	_, result, err := handler(context.Background(), nil, SimulateInput{Attackers: 8, Defenders: 6, Trials: 4000, Seed: &seed})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !result.Consistent {
		t.Fatalf("expected the exact odds within five standard errors: %+v", result)
	}

	// A battle decided before any roll matches the exact values with no spread.
	_, settled, err := handler(context.Background(), nil, SimulateInput{Attackers: 5, Defenders: 0, Trials: 20, Seed: &seed})
	if err != nil {
		t.Fatalf("simulate settled battle: %v", err)
	}
	if !settled.Consistent || settled.WinRate != 1 || settled.MeanSurvivors != 5 {
		t.Fatalf("settled result = %+v", settled)
	}
}
