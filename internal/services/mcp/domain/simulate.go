package domain

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/riskodds/internal/odds"
	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
	"github.com/louisbranch/riskodds/internal/random"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
)

// MaxTrials bounds the campaigns one simulation call may play.
const MaxTrials = 1_000_000

// consistencyStdErrs is how many standard errors the estimates may stray from
// the exact values and still count as consistent.
const consistencyStdErrs = 5

// SimulateInput represents the MCP tool input for a Monte-Carlo run.
type SimulateInput struct {
	Attackers int    `json:"attackers" jsonschema:"attacking army size"`
	Defenders int    `json:"defenders" jsonschema:"defending army size"`
	Trials    int    `json:"trials" jsonschema:"number of campaigns to play"`
	Seed      *int64 `json:"seed,omitempty" jsonschema:"optional seed for deterministic runs"`
}

// SimulateResult represents the MCP tool output for a Monte-Carlo run.
type SimulateResult struct {
	Trials              int     `json:"trials" jsonschema:"campaigns played"`
	Wins                int     `json:"wins" jsonschema:"campaigns won by the attacker"`
	WinRate             float64 `json:"win_rate" jsonschema:"observed win rate"`
	MeanSurvivors       float64 `json:"mean_survivors" jsonschema:"mean attacking army left, zero on defeat"`
	WinRateStdErr       float64 `json:"win_rate_std_err" jsonschema:"standard error of the win rate"`
	MeanSurvivorsStdErr float64 `json:"mean_survivors_std_err" jsonschema:"standard error of the mean survivors"`
	SeedUsed            int64   `json:"seed_used" jsonschema:"seed value used for the run"`
	ExactWinOdds        float64 `json:"exact_win_odds" jsonschema:"exact win odds for comparison"`
	ExactExpectedValue  float64 `json:"exact_expected_value" jsonschema:"exact expected value for comparison"`
	Consistent          bool    `json:"consistent" jsonschema:"whether both exact values lie within five standard errors of the estimates"`
}

// SeedFunc supplies a seed when the caller does not pin one.
type SeedFunc func() (int64, error)

// SimulateTool defines the MCP tool schema for Monte-Carlo runs.
func SimulateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "risk_simulate",
		Description: "Plays seeded Risk battles and compares the observed odds with the exact ones",
	}
}

// SimulateHandler runs a seeded simulation next to the exact solution.
func SimulateHandler(engine *odds.Engine, seeds SeedFunc) mcp.ToolHandlerFor[SimulateInput, SimulateResult] {
	if seeds == nil {
		seeds = random.NewSeed
	}
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SimulateInput) (_ *mcp.CallToolResult, _ SimulateResult, err error) {
		_, span := startSpan(ctx, "risk_simulate",
			attribute.Int("risk.attackers", input.Attackers),
			attribute.Int("risk.defenders", input.Defenders),
			attribute.Int("risk.trials", input.Trials),
		)
		defer func() { endSpan(span, err) }()

		if engine == nil {
			return nil, SimulateResult{}, fmt.Errorf("odds engine is not configured")
		}
		if err := checkArmies(input.Attackers, input.Defenders); err != nil {
			return nil, SimulateResult{}, err
		}
		if input.Trials > MaxTrials {
			return nil, SimulateResult{}, apperrors.WithMetadata(
				apperrors.CodeInvalidSimulation,
				fmt.Sprintf("trials must be at most %d, got %d", MaxTrials, input.Trials),
				map[string]string{"trials": strconv.Itoa(input.Trials)},
			)
		}

		var seed int64
		if input.Seed != nil {
			seed = *input.Seed
		} else {
			seed, err = seeds()
			if err != nil {
				return nil, SimulateResult{}, fmt.Errorf("generate seed: %w", err)
			}
		}
		span.SetAttributes(attribute.Int64("risk.seed", seed))

		simulated, err := odds.Simulate(odds.SimulationRequest{
			Attackers: input.Attackers,
			Defenders: input.Defenders,
			Trials:    input.Trials,
			Seed:      seed,
		})
		if err != nil {
			return nil, SimulateResult{}, err
		}

		exact := engine.Campaign(input.Attackers, input.Defenders)
		return nil, SimulateResult{
			Trials:              simulated.Trials,
			Wins:                simulated.Wins,
			WinRate:             simulated.WinRate,
			MeanSurvivors:       simulated.MeanSurvivors,
			WinRateStdErr:       simulated.WinRateStdErr,
			MeanSurvivorsStdErr: simulated.MeanSurvivorsStdErr,
			SeedUsed:            seed,
			ExactWinOdds:        exact.WinOdds,
			ExactExpectedValue:  exact.ExpectedValue,
			Consistent:          simulated.WithinStdErrs(exact.WinOdds, exact.ExpectedValue, consistencyStdErrs),
		}, nil
	}
}
