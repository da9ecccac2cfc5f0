// Package dice rolls seeded dice pools.
package dice

import (
	"math/rand"

	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Roll captures the results for a single dice spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result captures the results from rolling multiple dice.
type Result struct {
	Rolls []Roll
	Total int
}

// RollWithRng rolls dice from rng, so a caller can draw many rolls from one
// seeded stream.
//
// Specs are processed in slice order and the resulting Roll entries appear in
// the same order. At least one Spec must be provided, otherwise
// ErrMissingDice is returned; each Spec must have Sides > 0 and Count > 0,
// otherwise ErrInvalidDiceSpec is returned.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	result, err := RollWithRng(rng, []Spec{
//	    {Sides: 6, Count: 3}, // attacking dice
//	    {Sides: 6, Count: 2}, // defending dice
//	})
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0

	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := 0; i < spec.Count; i++ {
			value := rollDie(rng, spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, Roll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
