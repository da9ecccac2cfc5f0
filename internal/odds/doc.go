// Package odds computes exact combat odds for the classic Risk dice rule:
// up to three attacking dice against up to two defending dice, highest die
// against highest die, ties to the defender.
//
// The package is organized leaf first:
//   - the enumerator walks every face assignment for a dice pairing and
//     classifies each one into a loss pair;
//   - the round table normalizes those counts into per-round probabilities
//     and expected losses, once per process;
//   - the campaign solver reduces a whole battle round by round over
//     memoized (attackers, defenders) states;
//   - Engine is the read-only query surface over all three.
package odds
