package ruleerrors

import (
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrChainAlreadyExists indicates that a chain with the same id
	// was already created.
	ErrChainAlreadyExists = newRuleError("ErrChainAlreadyExists")

	// ErrInvalidExecutionStatusTransition indicates an execution status
	// report for a block that is not waiting for execution, or a report
	// of a status an execution cannot end in.
	ErrInvalidExecutionStatusTransition = newRuleError("ErrInvalidExecutionStatusTransition")

	// ErrBestChainAlreadySet indicates that the best chain pointer
	// already points at the given height and hash.
	ErrBestChainAlreadySet = newRuleError("ErrBestChainAlreadySet")

	// ErrIrreversibleBlockNotOnLongestChain indicates that the block
	// proposed as irreversible is unknown, or is not an ancestor of
	// the longest chain tip.
	ErrIrreversibleBlockNotOnLongestChain = newRuleError("ErrIrreversibleBlockNotOnLongestChain")

	// ErrIrreversibleHeightNotIncreasing indicates that the block
	// proposed as irreversible is not above the current last
	// irreversible block.
	ErrIrreversibleHeightNotIncreasing = newRuleError("ErrIrreversibleHeightNotIncreasing")
)

// RuleError identifies an operation that is not valid in the current
// state of a chain. The caller can use errors.As to determine if a
// failure was specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// IsInvalidOperation returns whether err is, or wraps, a RuleError.
func IsInvalidOperation(err error) bool {
	var ruleErr RuleError
	return errors.As(err, &ruleErr)
}
