package odds

import "sync"

// Reduction describes one campaign quantity computed over the state graph.
// Every reduction shares the same transitions; only the terminal values
// differ.
type Reduction struct {
	Name string
	// Eliminated values a state whose attacker has one unit or fewer and can
	// no longer attack.
	Eliminated func(State) float64
	// Conquered values a state whose defender has no units left.
	Conquered func(State) float64
}

// WinOdds is the probability that the attacker eliminates the defender.
var WinOdds = Reduction{
	Name:       "win_odds",
	Eliminated: func(State) float64 { return 0 },
	Conquered:  func(State) float64 { return 1 },
}

// ExpectedValue is the expected attacking army left at the end of the
// campaign, counting a failed campaign as zero.
var ExpectedValue = Reduction{
	Name:       "expected_value",
	Eliminated: func(State) float64 { return 0 },
	Conquered:  func(s State) float64 { return float64(s.Attackers) },
}

type transition struct {
	probability float64
	next        State
}

// memo solves one reduction over the round table, caching every non-terminal
// state it settles. Entries are never evicted.
type memo struct {
	reduction Reduction
	table     *RoundTable

	mu     sync.Mutex
	values map[State]float64
}

func newMemo(table *RoundTable, reduction Reduction) *memo {
	return &memo{
		reduction: reduction,
		table:     table,
		values:    make(map[State]float64),
	}
}

// solve settles start bottom-up with an explicit stack: a state is computed
// only once all of its successors are known, so depth does not grow with
// army size.
func (m *memo) solve(start State) float64 {
	if value, ok := m.terminal(start); ok {
		return value
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if value, ok := m.values[start]; ok {
		return value
	}

	stack := []State{start}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := m.values[top]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		transitions := m.transitions(top)
		pending := false
		for _, t := range transitions {
			if _, ok := m.lookup(t.next); !ok {
				stack = append(stack, t.next)
				pending = true
			}
		}
		if pending {
			continue
		}

		value := 0.0
		for _, t := range transitions {
			next, _ := m.lookup(t.next)
			value += t.probability * next
		}
		m.values[top] = value
		stack = stack[:len(stack)-1]
	}
	return m.values[start]
}

func (m *memo) terminal(s State) (float64, bool) {
	if s.Attackers <= 1 {
		return m.reduction.Eliminated(s), true
	}
	if s.Defenders <= 0 {
		return m.reduction.Conquered(s), true
	}
	return 0, false
}

// lookup must be called with mu held.
func (m *memo) lookup(s State) (float64, bool) {
	if value, ok := m.terminal(s); ok {
		return value, true
	}
	value, ok := m.values[s]
	return value, ok
}

// transitions lists the states one round can lead to, skipping loss pairs
// that cannot occur.
func (m *memo) transitions(s State) []transition {
	attackDice, defenseDice, err := DiceForArmies(s.Attackers, s.Defenders)
	if err != nil {
		// This should be unreachable: terminal states never get here.
		panic(err)
	}

	out := make([]transition, 0, MaxLoss+1)
	for defenderLoss := 0; defenderLoss <= MaxLoss; defenderLoss++ {
		for attackerLoss := 0; attackerLoss <= MaxLoss; attackerLoss++ {
			p := m.table.probability(attackDice, defenseDice, attackerLoss, defenderLoss)
			if p == 0 {
				continue
			}
			out = append(out, transition{
				probability: p,
				next:        State{Attackers: s.Attackers - attackerLoss, Defenders: s.Defenders - defenderLoss},
			})
		}
	}
	return out
}

func (m *memo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
