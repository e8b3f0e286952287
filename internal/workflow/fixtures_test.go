package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// ── test fixtures ──

func rolePtr(r model.Role) *model.Role { return &r }
func strPtr(s string) *string           { return &s }
func intPtr(i int) *int                 { return &i }
func f64(v float64) *float64            { return &v }

func dept(id string, pillar *model.Role) *model.Department {
	return &model.Department{DepartmentID: id, Name: "dept " + id, Pillar: pillar}
}

func user(id string, role model.Role, d *model.Department) *model.User {
	u := &model.User{UserID: id, Username: id, Role: role, Department: d}
	if d != nil {
		u.DepartmentID = strPtr(d.DepartmentID)
	}
	return u
}

// planBy builds a draft yearly plan authored by owner at owner's level.
func planBy(owner *model.User) *model.Plan {
	return &model.Plan{
		PlanID:   "plan-1",
		UserID:   owner.UserID,
		Owner:    owner,
		Level:    owner.Role,
		PlanType: model.PlanTypeYearly,
		Year:     2025,
		Pillar:   owner.Pillar(),
		Status:   model.StatusDraft,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func detail(weight, budget string) model.DetailActivity {
	return model.DetailActivity{Description: "task", Weight: dec(weight), Budget: dec(budget)}
}
