// Package errors provides structured error handling for the odds engine and
// its callers.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice/mechanics errors
	CodeInvalidDiceCount Code = "INVALID_DICE_COUNT"
	CodeInvalidArmySize  Code = "INVALID_ARMY_SIZE"
	CodeDiceMissing      Code = "DICE_MISSING"
	CodeDiceInvalidSpec  Code = "DICE_INVALID_SPEC"

	// Simulation errors
	CodeInvalidSimulation Code = "INVALID_SIMULATION"

	// Command errors
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// IsInvalidInput reports whether the code describes a rejected caller input
// rather than an internal failure.
func (c Code) IsInvalidInput() bool {
	switch c {
	case CodeInvalidDiceCount,
		CodeInvalidArmySize,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeInvalidSimulation,
		CodeInvalidConfig:
		return true
	default:
		return false
	}
}
