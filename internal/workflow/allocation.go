package workflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// DefaultWeightTolerance is the largest accepted gap between a major
// activity's weight and the sum of its detail weights.
var DefaultWeightTolerance = decimal.New(1, -2)

// AllocationValidator checks that detail activities distribute exactly
// the weight, and at most the budget, of their major activity.
type AllocationValidator struct {
	tolerance     decimal.Decimal
	enforceBudget bool
}

func NewAllocationValidator(tolerance decimal.Decimal, enforceBudget bool) *AllocationValidator {
	if tolerance.IsNegative() || tolerance.IsZero() {
		tolerance = DefaultWeightTolerance
	}
	return &AllocationValidator{tolerance: tolerance, enforceBudget: enforceBudget}
}

// ValidateMajorActivity checks a single major activity with its details.
func (v *AllocationValidator) ValidateMajorActivity(ma *model.MajorActivity) error {
	if ma.Weight.IsNegative() {
		return &ValidationError{Field: fieldName(ma, "weight"), Message: "must not be negative"}
	}
	if ma.Budget.IsNegative() {
		return &ValidationError{Field: fieldName(ma, "budget"), Message: "must not be negative"}
	}
	for i := range ma.Details {
		d := &ma.Details[i]
		if d.Weight.IsNegative() || d.Budget.IsNegative() {
			return &ValidationError{
				Field:   fieldName(ma, fmt.Sprintf("details[%d]", i)),
				Message: "weight and budget must not be negative",
			}
		}
	}

	actual := ma.ChildWeight()
	if actual.Sub(ma.Weight).Abs().GreaterThan(v.tolerance) {
		return &WeightMismatchError{Activity: ma.Name, Expected: ma.Weight, Actual: actual}
	}
	if v.enforceBudget {
		if allocated := ma.ChildBudget(); allocated.GreaterThan(ma.Budget) {
			return &BudgetExceededError{Activity: ma.Name, Budget: ma.Budget, Allocated: allocated}
		}
	}
	return nil
}

// ValidateActivities checks every major activity and returns the first
// failure.
func (v *AllocationValidator) ValidateActivities(activities []model.MajorActivity) error {
	for i := range activities {
		if err := v.ValidateMajorActivity(&activities[i]); err != nil {
			return err
		}
	}
	return nil
}

func fieldName(ma *model.MajorActivity, attr string) string {
	return fmt.Sprintf("major_activities[%s].%s", ma.Name, attr)
}
