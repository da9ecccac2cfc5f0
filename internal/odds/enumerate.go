package odds

import "sort"

// Outcome holds one assignment of face values to the attacking and defending
// dice of a round.
type Outcome struct {
	Attack  []int
	Defense []int
}

// Odometer walks every face assignment for a fixed pairing of dice exactly
// once. The last defending die is the least significant digit; rolling over
// the defending dice carries into the attacking dice.
type Odometer struct {
	outcome Outcome
	started bool
	done    bool
}

// NewOdometer returns an odometer positioned before the first assignment.
func NewOdometer(attackDice, defenseDice int) (*Odometer, error) {
	if attackDice <= 0 || defenseDice <= 0 {
		return nil, invalidDice(attackDice, defenseDice)
	}
	return &Odometer{
		outcome: Outcome{
			Attack:  make([]int, attackDice),
			Defense: make([]int, defenseDice),
		},
	}, nil
}

// Next advances to the following assignment. The first call sets every die
// to 1. It returns false once the most significant attacking die would roll
// past the last face.
func (o *Odometer) Next() bool {
	if o.done {
		return false
	}
	if !o.started {
		o.started = true
		fill(o.outcome.Attack, 1)
		fill(o.outcome.Defense, 1)
		return true
	}
	if advance(o.outcome.Defense) {
		return true
	}
	if advance(o.outcome.Attack) {
		fill(o.outcome.Defense, 1)
		return true
	}
	o.done = true
	return false
}

// Outcome returns the current assignment. The slices are reused between
// calls to Next.
func (o *Odometer) Outcome() Outcome {
	return o.outcome
}

// advance increments digits as a base-Faces counter, least significant last.
// It reports false, leaving digits untouched, when every digit is maxed.
func advance(digits []int) bool {
	i := len(digits) - 1
	for i >= 0 && digits[i] == Faces {
		i--
	}
	if i < 0 {
		return false
	}
	digits[i]++
	fill(digits[i+1:], 1)
	return true
}

func fill(digits []int, value int) {
	for i := range digits {
		digits[i] = value
	}
}

// Classify resolves one round. Both sides are sorted descending and the top
// min(attack, defense) dice are compared pairwise; the defender loses a unit
// when the attacking die is strictly higher, otherwise the attacker does.
func Classify(outcome Outcome) (LossPair, error) {
	if len(outcome.Attack) == 0 || len(outcome.Defense) == 0 {
		return LossPair{}, invalidDice(len(outcome.Attack), len(outcome.Defense))
	}
	attack := sortedDescending(outcome.Attack)
	defense := sortedDescending(outcome.Defense)

	pairs := min(len(attack), len(defense))
	var loss LossPair
	for i := 0; i < pairs; i++ {
		if attack[i] > defense[i] {
			loss.Defender++
		} else {
			loss.Attacker++
		}
	}
	return loss, nil
}

func sortedDescending(dice []int) []int {
	sorted := make([]int, len(dice))
	copy(sorted, dice)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return sorted
}

// TotalOutcomes returns Faces^(attackDice+defenseDice).
func TotalOutcomes(attackDice, defenseDice int) int {
	total := 1
	for i := 0; i < attackDice+defenseDice; i++ {
		total *= Faces
	}
	return total
}

// CountLosses enumerates every assignment for the pairing and counts the loss
// pair each one produces.
func CountLosses(attackDice, defenseDice int) (LossMatrix, error) {
	if err := checkDice(attackDice, defenseDice); err != nil {
		return LossMatrix{}, err
	}
	odometer, err := NewOdometer(attackDice, defenseDice)
	if err != nil {
		return LossMatrix{}, err
	}

	var matrix LossMatrix
	for odometer.Next() {
		loss, err := Classify(odometer.Outcome())
		if err != nil {
			return LossMatrix{}, err
		}
		matrix[loss.Attacker][loss.Defender]++
	}
	return matrix, nil
}
