package odds

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/louisbranch/riskodds/internal/dice"
	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
	"gonum.org/v1/gonum/stat"
)

// SimulationRequest describes a Monte-Carlo run of whole campaigns.
type SimulationRequest struct {
	Attackers int
	Defenders int
	Trials    int
	Seed      int64
}

// SimulationResult summarizes simulated campaigns.
type SimulationResult struct {
	Trials  int
	Wins    int
	WinRate float64
	// MeanSurvivors averages the attacking army left per trial, counting a
	// failed campaign as zero, so it estimates ExpectedValue.
	MeanSurvivors float64
	// Standard errors of the two estimates; zero for fewer than two trials.
	WinRateStdErr       float64
	MeanSurvivorsStdErr float64
}

// WithinStdErrs reports whether the exact values fall within k standard
// errors of the simulated estimates.
func (r SimulationResult) WithinStdErrs(winOdds, expectedValue, k float64) bool {
	return math.Abs(r.WinRate-winOdds) <= k*r.WinRateStdErr &&
		math.Abs(r.MeanSurvivors-expectedValue) <= k*r.MeanSurvivorsStdErr
}

// Simulate plays Trials campaigns with seeded dice under the same capping and
// tie rules as the exact solver. It is deterministic for a given request.
func Simulate(request SimulationRequest) (SimulationResult, error) {
	if request.Trials <= 0 {
		return SimulationResult{}, apperrors.WithMetadata(
			apperrors.CodeInvalidSimulation,
			fmt.Sprintf("trials must be positive, got %d", request.Trials),
			map[string]string{"trials": strconv.Itoa(request.Trials)},
		)
	}

	rng := rand.New(rand.NewSource(request.Seed))
	wins := 0
	survivors := 0
	winSamples := make([]float64, request.Trials)
	survivorSamples := make([]float64, request.Trials)
	for i := 0; i < request.Trials; i++ {
		final, err := playCampaign(rng, State{Attackers: request.Attackers, Defenders: request.Defenders})
		if err != nil {
			return SimulationResult{}, err
		}
		if final.Attackers > 1 && final.Defenders <= 0 {
			wins++
			survivors += final.Attackers
			winSamples[i] = 1
			survivorSamples[i] = float64(final.Attackers)
		}
	}

	result := SimulationResult{
		Trials:        request.Trials,
		Wins:          wins,
		WinRate:       float64(wins) / float64(request.Trials),
		MeanSurvivors: float64(survivors) / float64(request.Trials),
	}
	if request.Trials > 1 {
		n := float64(request.Trials)
		result.WinRateStdErr = stat.StdErr(stat.StdDev(winSamples, nil), n)
		result.MeanSurvivorsStdErr = stat.StdErr(stat.StdDev(survivorSamples, nil), n)
	}
	return result, nil
}

// playCampaign rolls rounds until the attacker cannot attack or the defender
// is eliminated, and returns the final state.
func playCampaign(rng *rand.Rand, state State) (State, error) {
	for state.Attackers > 1 && state.Defenders > 0 {
		attackDice, defenseDice, err := DiceForArmies(state.Attackers, state.Defenders)
		if err != nil {
			return State{}, err
		}
		roll, err := dice.RollWithRng(rng, []dice.Spec{
			{Sides: Faces, Count: attackDice},
			{Sides: Faces, Count: defenseDice},
		})
		if err != nil {
			return State{}, err
		}
		loss, err := Classify(Outcome{Attack: roll.Rolls[0].Results, Defense: roll.Rolls[1].Results})
		if err != nil {
			return State{}, err
		}
		state.Attackers -= loss.Attacker
		state.Defenders -= loss.Defender
	}
	return state, nil
}
