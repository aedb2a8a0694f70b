package ruleerrors

import (
	"testing"

	"github.com/pkg/errors"
)

func TestWrappedRuleError(t *testing.T) {
	outer := errors.Wrapf(ErrIrreversibleHeightNotIncreasing, "height %d is not above %d", 3, 5)
	expectedOuterErr := "height 3 is not above 5: ErrIrreversibleHeightNotIncreasing"
	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestWrappedRuleError: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
	if !errors.Is(outer, ErrIrreversibleHeightNotIncreasing) {
		t.Fatal("TestWrappedRuleError: Outer should be ErrIrreversibleHeightNotIncreasing")
	}
	if errors.Is(outer, ErrIrreversibleBlockNotOnLongestChain) {
		t.Fatal("TestWrappedRuleError: Outer should not be ErrIrreversibleBlockNotOnLongestChain")
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestWrappedRuleError: Outer should contain RuleError in it")
	}
	if rule.message != "ErrIrreversibleHeightNotIncreasing" {
		t.Fatalf("TestWrappedRuleError: Expected message = 'ErrIrreversibleHeightNotIncreasing', found: '%s'",
			rule.message)
	}
}

func TestIsInvalidOperation(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{err: ErrChainAlreadyExists, expected: true},
		{err: errors.WithStack(ErrBestChainAlreadySet), expected: true},
		{err: errors.Wrap(ErrInvalidExecutionStatusTransition, "block abc"), expected: true},
		{err: errors.New("disk on fire"), expected: false},
		{err: nil, expected: false},
	}
	for i, test := range tests {
		if IsInvalidOperation(test.err) != test.expected {
			t.Errorf("TestIsInvalidOperation: test #%d: IsInvalidOperation(%v) = %t, want %t",
				i, test.err, !test.expected, test.expected)
		}
	}
}
