// Package report formats engine results for the console.
package report

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/louisbranch/riskodds/internal/odds"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter writes round tables, campaign summaries, and simulation results.
type Reporter struct {
	printer *message.Printer
}

// New returns a reporter whose army sizes are formatted for tag.
func New(tag language.Tag) *Reporter {
	return &Reporter{printer: message.NewPrinter(tag)}
}

// RoundTable lists every valid dice pairing, defending dice outermost. Each
// header carries the expected net change per side rounded to 4 places; each
// possible loss pair follows as a percentage rounded to 2 places and a
// reduced fraction.
func (r *Reporter) RoundTable(w io.Writer, engine *odds.Engine) error {
	for _, pairing := range odds.Pairings() {
		if err := r.pairing(w, engine, pairing.AttackDice, pairing.DefenseDice); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) pairing(w io.Writer, engine *odds.Engine, attackDice, defenseDice int) error {
	attackLoss, err := engine.AttackerExpectedLoss(attackDice, defenseDice)
	if err != nil {
		return err
	}
	defenseLoss, err := engine.DefenderExpectedLoss(attackDice, defenseDice)
	if err != nil {
		return err
	}
	distribution, err := engine.Distribution(attackDice, defenseDice)
	if err != nil {
		return err
	}
	total := odds.TotalOutcomes(attackDice, defenseDice)

	if _, err := fmt.Fprintf(w, " %d attacking %s vs. %d defending %s:   (%s, %s)\n",
		attackDice, dieWord(attackDice),
		defenseDice, dieWord(defenseDice),
		formatRounded(-attackLoss, 4), formatRounded(-defenseLoss, 4),
	); err != nil {
		return err
	}

	for _, entry := range distribution {
		percent := math.Round(entry.Probability*10000) / 100
		fraction := big.NewRat(int64(entry.Outcomes), int64(total))
		if _, err := fmt.Fprintf(w, "\t %s: %05.2f%% %s\n", entry.Pair, percent, fraction.String()); err != nil {
			return err
		}
	}
	return nil
}

// Campaign writes win odds and expected value for one battle.
func (r *Reporter) Campaign(w io.Writer, campaign odds.CampaignOdds) error {
	_, err := io.WriteString(w, r.printer.Sprintf(" %d attacking %d\n", campaign.Attackers, campaign.Defenders)+
		"\tOdds of Winning: "+formatFloat(campaign.WinOdds)+"\n"+
		"\tExpected  Value: "+formatFloat(campaign.ExpectedValue)+"\n")
	return err
}

// Simulation writes a Monte-Carlo estimate next to the seed that produced it.
func (r *Reporter) Simulation(w io.Writer, result odds.SimulationResult, seed int64) error {
	_, err := io.WriteString(w, r.printer.Sprintf("\tSimulated %d campaigns (seed %s)\n", result.Trials, strconv.FormatInt(seed, 10))+
		"\t\tWin rate: "+formatFloat(result.WinRate)+" ± "+formatRounded(result.WinRateStdErr, 4)+"\n"+
		"\t\tMean survivors: "+formatFloat(result.MeanSurvivors)+" ± "+formatRounded(result.MeanSurvivorsStdErr, 4)+"\n")
	return err
}

func dieWord(count int) string {
	if count == 1 {
		return "die "
	}
	return "dice"
}

func formatRounded(value float64, places int) string {
	scale := math.Pow(10, float64(places))
	return formatFloat(math.Round(value*scale) / scale)
}

// formatFloat prints the shortest decimal that round-trips, keeping a
// trailing ".0" on whole numbers.
func formatFloat(value float64) string {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if value == math.Trunc(value) && !math.IsInf(value, 0) {
		text += ".0"
	}
	return text
}
