package odds

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
)

const (
	// Faces is the number of faces on every die.
	Faces = 6
	// MaxAttackDice is the most dice an attacker may roll in one round.
	MaxAttackDice = 3
	// MaxDefenseDice is the most dice a defender may roll in one round.
	MaxDefenseDice = 2
	// MaxLoss is the most units either side can lose in one round.
	MaxLoss = 2
)

// ErrInvalidDiceCount indicates a dice count outside the supported ranges, or
// an empty dice slice handed to the enumerator.
var ErrInvalidDiceCount = apperrors.New(apperrors.CodeInvalidDiceCount, "invalid dice count")

// ErrInvalidArmySize indicates an army size reached dice capping without
// being caught as a terminal state.
var ErrInvalidArmySize = apperrors.New(apperrors.CodeInvalidArmySize, "invalid army size")

// LossPair is the classification of a single round: how many units each side
// lost.
type LossPair struct {
	Attacker int
	Defender int
}

func (p LossPair) String() string {
	return fmt.Sprintf("(%d,%d)", p.Attacker, p.Defender)
}

// LossMatrix counts outcomes per loss pair, indexed [attacker][defender].
type LossMatrix [MaxLoss + 1][MaxLoss + 1]int

// Total returns the number of outcomes recorded in the matrix.
func (m LossMatrix) Total() int {
	total := 0
	for _, row := range m {
		for _, count := range row {
			total += count
		}
	}
	return total
}

// State is a campaign position keyed by army sizes. It is a plain value so it
// can be used directly as a map key.
type State struct {
	Attackers int
	Defenders int
}

func (s State) String() string {
	return fmt.Sprintf("%d vs %d", s.Attackers, s.Defenders)
}

// checkDice validates dice counts for table lookups. Zero dice are accepted
// and read back as zero-filled entries.
func checkDice(attackDice, defenseDice int) error {
	if attackDice < 0 || attackDice > MaxAttackDice || defenseDice < 0 || defenseDice > MaxDefenseDice {
		return invalidDice(attackDice, defenseDice)
	}
	return nil
}

func invalidDice(attackDice, defenseDice int) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidDiceCount,
		fmt.Sprintf("invalid dice: %d attacking, %d defending", attackDice, defenseDice),
		map[string]string{
			"attack_dice":  strconv.Itoa(attackDice),
			"defense_dice": strconv.Itoa(defenseDice),
		},
	)
}

// DiceForArmies applies the capping rule to a non-terminal campaign state:
// the attacker rolls one die fewer than its army (leaving one unit behind)
// up to three, and the defender rolls up to two.
func DiceForArmies(attackers, defenders int) (attackDice, defenseDice int, err error) {
	switch {
	case attackers >= 4:
		attackDice = 3
	case attackers == 3:
		attackDice = 2
	case attackers == 2:
		attackDice = 1
	default:
		return 0, 0, invalidArmy("attacking", attackers)
	}

	switch {
	case defenders >= 2:
		defenseDice = 2
	case defenders == 1:
		defenseDice = 1
	default:
		return 0, 0, invalidArmy("defending", defenders)
	}
	return attackDice, defenseDice, nil
}

func invalidArmy(side string, size int) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidArmySize,
		fmt.Sprintf("bad %s army size %d", side, size),
		map[string]string{
			"side": side,
			"size": strconv.Itoa(size),
		},
	)
}
