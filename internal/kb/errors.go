package kb

import (
	"errors"
	"fmt"
)

// TrivialRuleError is returned by AddRule when both sides of a relation
// are the same word. Such a relation carries no information and the
// rule set is left unchanged.
type TrivialRuleError struct {
	Word string
}

// Error implements the error interface.
func (e *TrivialRuleError) Error() string {
	return fmt.Sprintf("relation is trivial: both sides equal %q", e.Word)
}

// IsTrivialRuleError reports whether err is a TrivialRuleError.
// Uses errors.As to handle wrapped errors.
func IsTrivialRuleError(err error) bool {
	var te *TrivialRuleError
	return errors.As(err, &te)
}
