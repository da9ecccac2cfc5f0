package odds

// Quantity selects one of the engine's campaign caches.
type Quantity int

const (
	QuantityWinOdds Quantity = iota
	QuantityExpectedValue
)

func (q Quantity) String() string {
	switch q {
	case QuantityWinOdds:
		return WinOdds.Name
	case QuantityExpectedValue:
		return ExpectedValue.Name
	default:
		return "unknown"
	}
}

// Engine answers round and campaign queries. Round tables are shared across
// engines; each engine owns its campaign caches. An Engine is safe for
// concurrent use.
type Engine struct {
	table         *RoundTable
	winOdds       *memo
	expectedValue *memo
}

// New returns an engine backed by the process-wide round table.
func New() *Engine {
	table := SharedRoundTable()
	return &Engine{
		table:         table,
		winOdds:       newMemo(table, WinOdds),
		expectedValue: newMemo(table, ExpectedValue),
	}
}

// RoundOdds returns the probability that one round with the given dice ends
// with exactly the given losses. Losses outside 0..2 have zero probability.
func (e *Engine) RoundOdds(attackDice, defenseDice, attackerLoss, defenderLoss int) (float64, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return 0, err
	}
	if !validLoss(attackerLoss) || !validLoss(defenderLoss) {
		return 0, nil
	}
	return e.table.probability(attackDice, defenseDice, attackerLoss, defenderLoss), nil
}

// AttackerLossOdds returns the probability that the attacker loses exactly
// loss units in one round.
func (e *Engine) AttackerLossOdds(attackDice, defenseDice, loss int) (float64, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return 0, err
	}
	if !validLoss(loss) {
		return 0, nil
	}
	total := 0.0
	for defenderLoss := 0; defenderLoss < tableSize; defenderLoss++ {
		total += e.table.prob[attackDice][defenseDice][loss][defenderLoss]
	}
	return total, nil
}

// DefenderLossOdds returns the probability that the defender loses exactly
// loss units in one round.
func (e *Engine) DefenderLossOdds(attackDice, defenseDice, loss int) (float64, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return 0, err
	}
	if !validLoss(loss) {
		return 0, nil
	}
	total := 0.0
	for attackerLoss := 0; attackerLoss < tableSize; attackerLoss++ {
		total += e.table.prob[attackDice][defenseDice][attackerLoss][loss]
	}
	return total, nil
}

// AttackerExpectedLoss returns the expected number of units the attacker
// loses in one round.
func (e *Engine) AttackerExpectedLoss(attackDice, defenseDice int) (float64, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return 0, err
	}
	return e.table.attackExpected[attackDice][defenseDice], nil
}

// DefenderExpectedLoss returns the expected number of units the defender
// loses in one round.
func (e *Engine) DefenderExpectedLoss(attackDice, defenseDice int) (float64, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return 0, err
	}
	return e.table.defenseExpected[attackDice][defenseDice], nil
}

// LossCounts returns the raw outcome counts for a pairing together with the
// number of equally likely outcomes they were drawn from. Pairings with zero
// dice return an empty matrix and a zero total.
func (e *Engine) LossCounts(attackDice, defenseDice int) (LossMatrix, int, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return LossMatrix{}, 0, err
	}
	return e.table.counts[attackDice][defenseDice], e.table.totals[attackDice][defenseDice], nil
}

// LossOdds is one possible loss pair of a pairing with its outcome count and
// probability.
type LossOdds struct {
	Pair        LossPair
	Outcomes    int
	Probability float64
}

// Distribution lists the reachable loss pairs of a pairing, attacker losses
// ascending then defender losses ascending.
func (e *Engine) Distribution(attackDice, defenseDice int) ([]LossOdds, error) {
	counts, _, err := e.LossCounts(attackDice, defenseDice)
	if err != nil {
		return nil, err
	}
	var result []LossOdds
	for attackerLoss := 0; attackerLoss <= MaxLoss; attackerLoss++ {
		for defenderLoss := 0; defenderLoss <= MaxLoss; defenderLoss++ {
			count := counts[attackerLoss][defenderLoss]
			if count == 0 {
				continue
			}
			result = append(result, LossOdds{
				Pair:        LossPair{Attacker: attackerLoss, Defender: defenderLoss},
				Outcomes:    count,
				Probability: e.table.probability(attackDice, defenseDice, attackerLoss, defenderLoss),
			})
		}
	}
	return result, nil
}

// WinOdds returns the probability that attackers eventually eliminate
// defenders. An attacker with one unit or fewer cannot attack and never wins.
func (e *Engine) WinOdds(attackers, defenders int) float64 {
	return e.winOdds.solve(State{Attackers: attackers, Defenders: defenders})
}

// ExpectedValue returns the expected attacking army left when the campaign
// ends, counting a failed campaign as zero.
func (e *Engine) ExpectedValue(attackers, defenders int) float64 {
	return e.expectedValue.solve(State{Attackers: attackers, Defenders: defenders})
}

// CampaignOdds holds both campaign quantities for one starting state.
type CampaignOdds struct {
	Attackers     int
	Defenders     int
	WinOdds       float64
	ExpectedValue float64
}

// Campaign solves win odds and expected value for one starting state.
func (e *Engine) Campaign(attackers, defenders int) CampaignOdds {
	return CampaignOdds{
		Attackers:     attackers,
		Defenders:     defenders,
		WinOdds:       e.WinOdds(attackers, defenders),
		ExpectedValue: e.ExpectedValue(attackers, defenders),
	}
}

// CachedStates reports how many campaign states the given cache holds.
func (e *Engine) CachedStates(q Quantity) int {
	switch q {
	case QuantityWinOdds:
		return e.winOdds.size()
	case QuantityExpectedValue:
		return e.expectedValue.size()
	default:
		return 0
	}
}

func validLoss(loss int) bool {
	return loss >= 0 && loss <= MaxLoss
}
