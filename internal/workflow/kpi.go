package workflow

import (
	"fmt"
	"math"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// QuarterlyTargetPolicy decides how the quarterly targets of a yearly KPI
// relate to its annual target.
type QuarterlyTargetPolicy string

const (
	// PolicyProgressive treats quarterly targets as running totals: they
	// never decrease and Q4 equals the annual target.
	PolicyProgressive QuarterlyTargetPolicy = "progressive"
	// PolicyCumulative treats them as per-quarter amounts summing to the
	// annual target.
	PolicyCumulative QuarterlyTargetPolicy = "cumulative"
)

const kpiTargetTolerance = 0.001

func (p QuarterlyTargetPolicy) Valid() bool {
	return p == PolicyProgressive || p == PolicyCumulative
}

// QuarterlyTargets is the authored Q1..Q4 input. Nil means not provided.
type QuarterlyTargets struct {
	Q1, Q2, Q3, Q4 *float64
}

// ApplyTargets stores q on the KPI and validates it against the policy.
// Quarterly targets exist only on yearly plans; any other plan type has
// them zeroed.
func (p QuarterlyTargetPolicy) ApplyTargets(planType model.PlanType, k *model.KPI, q QuarterlyTargets) error {
	if planType != model.PlanTypeYearly {
		k.TargetQ1, k.TargetQ2, k.TargetQ3, k.TargetQ4 = 0, 0, 0, 0
		return nil
	}
	if q.Q1 == nil || q.Q2 == nil || q.Q3 == nil || q.Q4 == nil {
		return &ValidationError{
			Field:   kpiField(k, "quarterly_targets"),
			Message: "all four quarterly targets are required for yearly plans",
		}
	}
	candidate := *k
	candidate.TargetQ1, candidate.TargetQ2, candidate.TargetQ3, candidate.TargetQ4 = *q.Q1, *q.Q2, *q.Q3, *q.Q4
	if err := p.ValidateYearly(&candidate); err != nil {
		return err
	}
	*k = candidate
	return nil
}

// ValidateYearly checks the stored quarterly targets of a yearly KPI.
func (p QuarterlyTargetPolicy) ValidateYearly(k *model.KPI) error {
	switch p {
	case PolicyCumulative:
		sum := k.TargetQ1 + k.TargetQ2 + k.TargetQ3 + k.TargetQ4
		if math.Abs(k.Target-sum) > kpiTargetTolerance {
			return &ValidationError{
				Field:   kpiField(k, "target"),
				Message: fmt.Sprintf("quarterly targets sum to %g, annual target is %g", sum, k.Target),
			}
		}
	case PolicyProgressive, "":
		if k.TargetQ1 > k.TargetQ2 || k.TargetQ2 > k.TargetQ3 || k.TargetQ3 > k.TargetQ4 {
			return &ValidationError{
				Field:   kpiField(k, "quarterly_targets"),
				Message: "quarterly targets must not decrease from Q1 to Q4",
			}
		}
		if math.Abs(k.Target-k.TargetQ4) > kpiTargetTolerance {
			return &ValidationError{
				Field:   kpiField(k, "target"),
				Message: fmt.Sprintf("Q4 target %g must equal the annual target %g", k.TargetQ4, k.Target),
			}
		}
	default:
		return fmt.Errorf("unknown quarterly target policy %q", p)
	}
	return nil
}

// ResolveTarget returns the target a report on plan is measured against.
func ResolveTarget(k *model.KPI, plan *model.Plan) float64 {
	if plan.PlanType == model.PlanTypeQuarterly && plan.QuarterNumber != nil {
		return k.QuarterTarget(*plan.QuarterNumber)
	}
	return k.Target
}

// AchievementPercent is actual/target as a percentage rounded to two
// decimals. It is zero without an actual value or a positive target.
func AchievementPercent(actual *float64, target float64) float64 {
	if actual == nil || target <= 0 {
		return 0
	}
	return math.Round(*actual/target*100*100) / 100
}

func kpiField(k *model.KPI, attr string) string {
	return fmt.Sprintf("kpis[%s].%s", k.Name, attr)
}
