package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// Sentinels for errors.Is. Every concrete error below unwraps to one
// of them.
var (
	ErrPermission    = errors.New("permission denied")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("approval route cannot be resolved")
)

// PermissionError means the actor may not perform the action in the
// document's current state.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrPermission }

// ValidationError rejects malformed input. Field names the offending
// input when one can be singled out.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// WeightMismatchError is returned when the detail activity weights of a
// major activity do not add up to its declared weight.
type WeightMismatchError struct {
	Activity string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *WeightMismatchError) Error() string {
	return fmt.Sprintf("detail activity weights of %q sum to %s, expected %s",
		e.Activity, e.Actual.StringFixed(2), e.Expected.StringFixed(2))
}

func (e *WeightMismatchError) Unwrap() error { return ErrValidation }

// BudgetExceededError is returned when detail budgets exceed the budget of
// their major activity.
type BudgetExceededError struct {
	Activity  string
	Budget    decimal.Decimal
	Allocated decimal.Decimal
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("detail activity budgets of %q total %s, exceeding the budget of %s",
		e.Activity, e.Allocated.StringFixed(2), e.Budget.StringFixed(2))
}

func (e *BudgetExceededError) Unwrap() error { return ErrValidation }

// ConfigurationError means the organization data cannot produce a
// reviewer, typically a department without a pillar. It matches both
// ErrConfiguration and ErrValidation.
type ConfigurationError struct {
	Level  model.Role
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no reviewer for %s plans: %s", e.Level, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func (e *ConfigurationError) Is(target error) bool { return target == ErrValidation }
