package report

import (
	"io"
	"math/big"

	"github.com/louisbranch/riskodds/internal/odds"
	"gopkg.in/yaml.v3"
)

// RoundTableDocument is the machine-readable round table.
type RoundTableDocument struct {
	Pairings []PairingDocument `yaml:"pairings"`
}

// PairingDocument describes one dice pairing.
type PairingDocument struct {
	AttackDice           int               `yaml:"attack_dice"`
	DefenseDice          int               `yaml:"defense_dice"`
	TotalOutcomes        int               `yaml:"total_outcomes"`
	AttackerExpectedLoss float64           `yaml:"attacker_expected_loss"`
	DefenderExpectedLoss float64           `yaml:"defender_expected_loss"`
	Outcomes             []OutcomeDocument `yaml:"outcomes"`
}

// OutcomeDocument describes one reachable loss pair.
type OutcomeDocument struct {
	AttackerLosses int     `yaml:"attacker_losses"`
	DefenderLosses int     `yaml:"defender_losses"`
	Count          int     `yaml:"count"`
	Fraction       string  `yaml:"fraction"`
	Probability    float64 `yaml:"probability"`
}

// CampaignDocument is the machine-readable campaign summary.
type CampaignDocument struct {
	Attackers     int                 `yaml:"attackers"`
	Defenders     int                 `yaml:"defenders"`
	WinOdds       float64             `yaml:"win_odds"`
	ExpectedValue float64             `yaml:"expected_value"`
	Simulation    *SimulationDocument `yaml:"simulation,omitempty"`
}

// SimulationDocument is the machine-readable Monte-Carlo estimate.
type SimulationDocument struct {
	Seed                int64   `yaml:"seed"`
	Trials              int     `yaml:"trials"`
	Wins                int     `yaml:"wins"`
	WinRate             float64 `yaml:"win_rate"`
	WinRateStdErr       float64 `yaml:"win_rate_std_err"`
	MeanSurvivors       float64 `yaml:"mean_survivors"`
	MeanSurvivorsStdErr float64 `yaml:"mean_survivors_std_err"`
}

// NewRoundTableDocument collects every pairing, defending dice outermost.
func NewRoundTableDocument(engine *odds.Engine) (RoundTableDocument, error) {
	var doc RoundTableDocument
	for _, pairing := range odds.Pairings() {
		attackLoss, err := engine.AttackerExpectedLoss(pairing.AttackDice, pairing.DefenseDice)
		if err != nil {
			return RoundTableDocument{}, err
		}
		defenseLoss, err := engine.DefenderExpectedLoss(pairing.AttackDice, pairing.DefenseDice)
		if err != nil {
			return RoundTableDocument{}, err
		}
		distribution, err := engine.Distribution(pairing.AttackDice, pairing.DefenseDice)
		if err != nil {
			return RoundTableDocument{}, err
		}

		total := odds.TotalOutcomes(pairing.AttackDice, pairing.DefenseDice)
		entry := PairingDocument{
			AttackDice:           pairing.AttackDice,
			DefenseDice:          pairing.DefenseDice,
			TotalOutcomes:        total,
			AttackerExpectedLoss: attackLoss,
			DefenderExpectedLoss: defenseLoss,
		}
		for _, outcome := range distribution {
			entry.Outcomes = append(entry.Outcomes, OutcomeDocument{
				AttackerLosses: outcome.Pair.Attacker,
				DefenderLosses: outcome.Pair.Defender,
				Count:          outcome.Outcomes,
				Fraction:       big.NewRat(int64(outcome.Outcomes), int64(total)).String(),
				Probability:    outcome.Probability,
			})
		}
		doc.Pairings = append(doc.Pairings, entry)
	}
	return doc, nil
}

// NewCampaignDocument describes one battle. A nil simulation is omitted.
func NewCampaignDocument(campaign odds.CampaignOdds, simulation *odds.SimulationResult, seed int64) CampaignDocument {
	doc := CampaignDocument{
		Attackers:     campaign.Attackers,
		Defenders:     campaign.Defenders,
		WinOdds:       campaign.WinOdds,
		ExpectedValue: campaign.ExpectedValue,
	}
	if simulation != nil {
		doc.Simulation = &SimulationDocument{
			Seed:                seed,
			Trials:              simulation.Trials,
			Wins:                simulation.Wins,
			WinRate:             simulation.WinRate,
			WinRateStdErr:       simulation.WinRateStdErr,
			MeanSurvivors:       simulation.MeanSurvivors,
			MeanSurvivorsStdErr: simulation.MeanSurvivorsStdErr,
		}
	}
	return doc
}

// WriteYAML encodes doc as a single YAML document with two-space indents.
func WriteYAML(w io.Writer, doc any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
