package workflow

import (
	"fmt"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// ValidatePeriod checks that exactly the period selector required by the
// plan type is set and within range.
func ValidatePeriod(p *model.Plan) error {
	if !p.PlanType.Valid() {
		return &ValidationError{Field: "plan_type", Message: fmt.Sprintf("unknown plan type %q", p.PlanType)}
	}
	if p.Year < 1900 || p.Year > 9999 {
		return &ValidationError{Field: "year", Message: "must be a four digit year"}
	}

	checks := []struct {
		field    string
		value    *int
		required bool
		max      int
	}{
		{"week_number", p.WeekNumber, p.PlanType == model.PlanTypeWeekly, 4},
		{"month", p.Month, p.PlanType == model.PlanTypeMonthly, 12},
		{"quarter_number", p.QuarterNumber, p.PlanType == model.PlanTypeQuarterly, 4},
	}
	for _, c := range checks {
		switch {
		case c.required && c.value == nil:
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("required for %s plans", p.PlanType)}
		case !c.required && c.value != nil:
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("not allowed for %s plans", p.PlanType)}
		case c.value != nil && (*c.value < 1 || *c.value > c.max):
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("must be between 1 and %d", c.max)}
		}
	}
	return nil
}
