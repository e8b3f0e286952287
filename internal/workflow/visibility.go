package workflow

import (
	"github.com/rehabib/plan-report-tourism/internal/model"
)

// CanViewPlan decides whether actor may read plan. plan.Owner and its
// Department must be preloaded for the department and pillar rules.
func CanViewPlan(plan *model.Plan, actor *model.User) bool {
	if plan == nil || actor == nil {
		return false
	}
	if plan.UserID == actor.UserID {
		return true
	}
	if plan.Status.InReview() && plan.CurrentReviewerRole != nil && *plan.CurrentReviewerRole == actor.Role {
		return true
	}

	switch actor.Role {
	case model.RoleDesk:
		return plan.Level == model.RoleIndividual && actor.SameDepartment(plan.Owner)
	case model.RoleDepartment:
		return (plan.Level == model.RoleDesk || plan.Level == model.RoleIndividual) && actor.SameDepartment(plan.Owner)
	case model.RoleCorporate, model.RoleStateMinisterDestination, model.RoleStateMinisterPromotion:
		if plan.Level != model.RoleDepartment {
			return false
		}
		pillar := plan.EffectivePillar()
		return pillar != nil && *pillar == actor.Role
	case model.RoleStrategicTeam:
		return plan.Level.IsPillar()
	case model.RoleMinister:
		return plan.Level == model.RoleStrategicTeam
	}
	return false
}

// CanViewReport decides whether actor may read report. Drafts are private
// to their author; otherwise visibility follows the parent plan, which
// must be preloaded.
func CanViewReport(report *model.Report, actor *model.User) bool {
	if report == nil || actor == nil {
		return false
	}
	if report.UserID == actor.UserID {
		return true
	}
	if report.Status == model.StatusDraft {
		return false
	}
	return CanViewPlan(report.Plan, actor)
}

// VisibleLevels returns the plan levels actor may see beyond their own
// plans and those they review. Repositories use it to narrow queries
// before CanViewPlan makes the final decision.
func VisibleLevels(actor *model.User) []model.Role {
	switch actor.Role {
	case model.RoleDesk:
		return []model.Role{model.RoleIndividual}
	case model.RoleDepartment:
		return []model.Role{model.RoleDesk, model.RoleIndividual}
	case model.RoleCorporate, model.RoleStateMinisterDestination, model.RoleStateMinisterPromotion:
		return []model.Role{model.RoleDepartment}
	case model.RoleStrategicTeam:
		return append([]model.Role(nil), model.Pillars...)
	case model.RoleMinister:
		return []model.Role{model.RoleStrategicTeam}
	}
	return nil
}
