package odds

import "sync"

// tableSize bounds every axis of the round table. Index 0 and index 3 of the
// loss axes stay zero-filled.
const tableSize = 4

// RoundTable holds the per-round loss distribution and expected losses for
// every valid dice pairing. It is immutable once built.
type RoundTable struct {
	counts          [tableSize][tableSize]LossMatrix
	totals          [tableSize][tableSize]int
	prob            [tableSize][tableSize][tableSize][tableSize]float64
	attackExpected  [tableSize][tableSize]float64
	defenseExpected [tableSize][tableSize]float64
}

// Pairing is one valid combination of attacking and defending dice.
type Pairing struct {
	AttackDice  int
	DefenseDice int
}

// Pairings lists the six valid pairings, defending dice outermost.
func Pairings() []Pairing {
	pairings := make([]Pairing, 0, MaxAttackDice*MaxDefenseDice)
	for defenseDice := 1; defenseDice <= MaxDefenseDice; defenseDice++ {
		for attackDice := 1; attackDice <= MaxAttackDice; attackDice++ {
			pairings = append(pairings, Pairing{AttackDice: attackDice, DefenseDice: defenseDice})
		}
	}
	return pairings
}

var (
	sharedTable     *RoundTable
	sharedTableOnce sync.Once
)

// SharedRoundTable returns the process-wide round table, building it on first
// use.
func SharedRoundTable() *RoundTable {
	sharedTableOnce.Do(func() {
		table, err := BuildRoundTable()
		if err != nil {
			// This should be unreachable: the pairings enumerated are hardcoded and valid.
			panic(err)
		}
		sharedTable = table
	})
	return sharedTable
}

// BuildRoundTable enumerates all six valid pairings and normalizes their loss
// counts into probabilities. Expected losses are stored as positive
// magnitudes.
func BuildRoundTable() (*RoundTable, error) {
	table := &RoundTable{}
	for _, pairing := range Pairings() {
		attackDice, defenseDice := pairing.AttackDice, pairing.DefenseDice
		matrix, err := CountLosses(attackDice, defenseDice)
		if err != nil {
			return nil, err
		}
		total := TotalOutcomes(attackDice, defenseDice)
		table.counts[attackDice][defenseDice] = matrix
		table.totals[attackDice][defenseDice] = total

		attackExpected := 0.0
		defenseExpected := 0.0
		for attackerLoss := 0; attackerLoss <= MaxLoss; attackerLoss++ {
			for defenderLoss := 0; defenderLoss <= MaxLoss; defenderLoss++ {
				p := float64(matrix[attackerLoss][defenderLoss]) / float64(total)
				table.prob[attackDice][defenseDice][attackerLoss][defenderLoss] = p
				attackExpected += float64(attackerLoss) * p
				defenseExpected += float64(defenderLoss) * p
			}
		}
		table.attackExpected[attackDice][defenseDice] = attackExpected
		table.defenseExpected[attackDice][defenseDice] = defenseExpected
	}
	return table, nil
}

// probability is an unchecked lookup for solver use.
func (t *RoundTable) probability(attackDice, defenseDice, attackerLoss, defenderLoss int) float64 {
	return t.prob[attackDice][defenseDice][attackerLoss][defenderLoss]
}
