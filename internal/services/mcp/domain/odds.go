package domain

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/riskodds/internal/odds"
	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
)

// MaxArmySize bounds army sizes accepted over MCP so a single call cannot grow
// the campaign caches without limit.
const MaxArmySize = 1000

// RoundOddsInput represents the MCP tool input for single-round odds.
type RoundOddsInput struct {
	AttackDice  int `json:"attack_dice" jsonschema:"attacking dice rolled, 1 to 3"`
	DefenseDice int `json:"defense_dice" jsonschema:"defending dice rolled, 1 to 2"`
}

// LossOutcome represents one reachable loss pair of a round.
type LossOutcome struct {
	AttackerLosses int     `json:"attacker_losses" jsonschema:"units lost by the attacker"`
	DefenderLosses int     `json:"defender_losses" jsonschema:"units lost by the defender"`
	Count          int     `json:"count" jsonschema:"number of dice outcomes producing this pair"`
	Probability    float64 `json:"probability" jsonschema:"probability of this pair"`
}

// RoundOddsResult represents the MCP tool output for single-round odds.
type RoundOddsResult struct {
	AttackDice           int           `json:"attack_dice" jsonschema:"attacking dice rolled"`
	DefenseDice          int           `json:"defense_dice" jsonschema:"defending dice rolled"`
	TotalOutcomes        int           `json:"total_outcomes" jsonschema:"number of equally likely dice outcomes"`
	AttackerExpectedLoss float64       `json:"attacker_expected_loss" jsonschema:"expected units lost by the attacker"`
	DefenderExpectedLoss float64       `json:"defender_expected_loss" jsonschema:"expected units lost by the defender"`
	AttackerLossOdds     []float64     `json:"attacker_loss_odds" jsonschema:"probability the attacker loses exactly i units, indexed by i"`
	DefenderLossOdds     []float64     `json:"defender_loss_odds" jsonschema:"probability the defender loses exactly i units, indexed by i"`
	Outcomes             []LossOutcome `json:"outcomes" jsonschema:"reachable loss pairs"`
}

// CampaignOddsInput represents the MCP tool input for campaign odds.
type CampaignOddsInput struct {
	Attackers int `json:"attackers" jsonschema:"attacking army size"`
	Defenders int `json:"defenders" jsonschema:"defending army size"`
}

// CampaignOddsResult represents the MCP tool output for campaign odds.
type CampaignOddsResult struct {
	Attackers     int     `json:"attackers" jsonschema:"attacking army size"`
	Defenders     int     `json:"defenders" jsonschema:"defending army size"`
	WinOdds       float64 `json:"win_odds" jsonschema:"probability the attacker eliminates the defender"`
	ExpectedValue float64 `json:"expected_value" jsonschema:"expected attacking army left, zero on defeat"`
	Terminal      bool    `json:"terminal" jsonschema:"whether no round can be fought"`
	AttackDice    int     `json:"attack_dice,omitempty" jsonschema:"dice the attacker rolls in the first round"`
	DefenseDice   int     `json:"defense_dice,omitempty" jsonschema:"dice the defender rolls in the first round"`
}

// RoundOddsTool defines the MCP tool schema for single-round odds.
func RoundOddsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "risk_round_odds",
		Description: "Computes the loss distribution and expected losses of one Risk dice round",
	}
}

// CampaignOddsTool defines the MCP tool schema for campaign odds.
func CampaignOddsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "risk_campaign_odds",
		Description: "Computes win odds and expected surviving attackers for a whole Risk battle",
	}
}

// RoundOddsHandler answers single-round queries from the engine's round table.
func RoundOddsHandler(engine *odds.Engine) mcp.ToolHandlerFor[RoundOddsInput, RoundOddsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RoundOddsInput) (_ *mcp.CallToolResult, _ RoundOddsResult, err error) {
		_, span := startSpan(ctx, "risk_round_odds",
			attribute.Int("risk.attack_dice", input.AttackDice),
			attribute.Int("risk.defense_dice", input.DefenseDice),
		)
		defer func() { endSpan(span, err) }()

		if engine == nil {
			return nil, RoundOddsResult{}, fmt.Errorf("odds engine is not configured")
		}
		if input.AttackDice < 1 || input.DefenseDice < 1 {
			return nil, RoundOddsResult{}, apperrors.WithMetadata(
				apperrors.CodeInvalidDiceCount,
				fmt.Sprintf("each side must roll at least one die, got %d attacking and %d defending", input.AttackDice, input.DefenseDice),
				map[string]string{
					"attack_dice":  strconv.Itoa(input.AttackDice),
					"defense_dice": strconv.Itoa(input.DefenseDice),
				},
			)
		}

		distribution, err := engine.Distribution(input.AttackDice, input.DefenseDice)
		if err != nil {
			return nil, RoundOddsResult{}, err
		}
		attackerLoss, err := engine.AttackerExpectedLoss(input.AttackDice, input.DefenseDice)
		if err != nil {
			return nil, RoundOddsResult{}, err
		}
		defenderLoss, err := engine.DefenderExpectedLoss(input.AttackDice, input.DefenseDice)
		if err != nil {
			return nil, RoundOddsResult{}, err
		}

		attackerLossOdds := make([]float64, odds.MaxLoss+1)
		defenderLossOdds := make([]float64, odds.MaxLoss+1)
		for loss := 0; loss <= odds.MaxLoss; loss++ {
			if attackerLossOdds[loss], err = engine.AttackerLossOdds(input.AttackDice, input.DefenseDice, loss); err != nil {
				return nil, RoundOddsResult{}, err
			}
			if defenderLossOdds[loss], err = engine.DefenderLossOdds(input.AttackDice, input.DefenseDice, loss); err != nil {
				return nil, RoundOddsResult{}, err
			}
		}

		outcomes := make([]LossOutcome, 0, len(distribution))
		for _, entry := range distribution {
			outcomes = append(outcomes, LossOutcome{
				AttackerLosses: entry.Pair.Attacker,
				DefenderLosses: entry.Pair.Defender,
				Count:          entry.Outcomes,
				Probability:    entry.Probability,
			})
		}

		return nil, RoundOddsResult{
			AttackDice:           input.AttackDice,
			DefenseDice:          input.DefenseDice,
			TotalOutcomes:        odds.TotalOutcomes(input.AttackDice, input.DefenseDice),
			AttackerExpectedLoss: attackerLoss,
			DefenderExpectedLoss: defenderLoss,
			AttackerLossOdds:     attackerLossOdds,
			DefenderLossOdds:     defenderLossOdds,
			Outcomes:             outcomes,
		}, nil
	}
}

// CampaignOddsHandler solves win odds and expected value for a battle.
func CampaignOddsHandler(engine *odds.Engine) mcp.ToolHandlerFor[CampaignOddsInput, CampaignOddsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignOddsInput) (_ *mcp.CallToolResult, _ CampaignOddsResult, err error) {
		_, span := startSpan(ctx, "risk_campaign_odds",
			attribute.Int("risk.attackers", input.Attackers),
			attribute.Int("risk.defenders", input.Defenders),
		)
		defer func() { endSpan(span, err) }()

		if engine == nil {
			return nil, CampaignOddsResult{}, fmt.Errorf("odds engine is not configured")
		}
		if err := checkArmies(input.Attackers, input.Defenders); err != nil {
			return nil, CampaignOddsResult{}, err
		}

		campaign := engine.Campaign(input.Attackers, input.Defenders)
		result := CampaignOddsResult{
			Attackers:     campaign.Attackers,
			Defenders:     campaign.Defenders,
			WinOdds:       campaign.WinOdds,
			ExpectedValue: campaign.ExpectedValue,
		}
		attackDice, defenseDice, diceErr := odds.DiceForArmies(input.Attackers, input.Defenders)
		if diceErr != nil {
			result.Terminal = true
		} else {
			result.AttackDice = attackDice
			result.DefenseDice = defenseDice
		}
		return nil, result, nil
	}
}

// checkArmies rejects negative sizes and sizes above MaxArmySize.
func checkArmies(attackers, defenders int) error {
	for _, army := range []struct {
		side string
		size int
	}{
		{side: "attacking", size: attackers},
		{side: "defending", size: defenders},
	} {
		if army.size < 0 || army.size > MaxArmySize {
			return apperrors.WithMetadata(
				apperrors.CodeInvalidArmySize,
				fmt.Sprintf("%s army size %d is outside 0..%d", army.side, army.size, MaxArmySize),
				map[string]string{
					"side": army.side,
					"size": strconv.Itoa(army.size),
				},
			)
		}
	}
	return nil
}
