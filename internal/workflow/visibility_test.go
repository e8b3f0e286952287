package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

func TestCanViewPlan(t *testing.T) {
	corp := dept("d1", rolePtr(model.RoleCorporate))
	promo := dept("d2", rolePtr(model.RoleStateMinisterPromotion))

	individual := user("ind", model.RoleIndividual, corp)
	deskSame := user("desk1", model.RoleDesk, corp)
	deskOther := user("desk2", model.RoleDesk, promo)
	headSame := user("head1", model.RoleDepartment, corp)
	headOther := user("head2", model.RoleDepartment, promo)
	corporate := user("corp", model.RoleCorporate, nil)
	promotion := user("promo", model.RoleStateMinisterPromotion, nil)
	strategic := user("st", model.RoleStrategicTeam, nil)
	minister := user("min", model.RoleMinister, nil)

	individualPlan := planBy(individual)
	deskPlan := planBy(deskSame)
	deptPlan := planBy(headSame)
	corpPlan := planBy(corporate)
	stPlan := planBy(strategic)

	tests := []struct {
		name  string
		plan  *model.Plan
		actor *model.User
		want  bool
	}{
		{"owner", individualPlan, individual, true},
		{"desk same department", individualPlan, deskSame, true},
		{"desk other department", individualPlan, deskOther, false},
		{"department sees desk plan", deskPlan, headSame, true},
		{"department sees individual plan", individualPlan, headSame, true},
		{"department other department", deskPlan, headOther, false},
		{"matching pillar", deptPlan, corporate, true},
		{"other pillar", deptPlan, promotion, false},
		{"pillar cannot see individual plans", individualPlan, corporate, false},
		{"strategic team sees pillar plans", corpPlan, strategic, true},
		{"strategic team cannot see department plans", deptPlan, strategic, false},
		{"minister sees strategic plans", stPlan, minister, true},
		{"minister cannot see pillar plans", corpPlan, minister, false},
		{"individual cannot see peers", deskPlan, individual, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewPlan(tt.plan, tt.actor))
		})
	}
}

func TestCanViewPlan_CurrentReviewer(t *testing.T) {
	author := user("u1", model.RoleIndividual, nil)
	p := planBy(author)
	reviewer := user("u2", model.RoleDepartment, dept("other", nil))
	p.Status = model.StatusInReview
	p.CurrentReviewerRole = rolePtr(model.RoleDepartment)

	assert.True(t, CanViewPlan(p, reviewer))

	p.Status = model.StatusApproved
	assert.False(t, CanViewPlan(p, reviewer))
}

func TestCanViewPlan_PillarFallsBackToOwnerDepartment(t *testing.T) {
	head := user("h", model.RoleDepartment, dept("d1", rolePtr(model.RoleStateMinisterDestination)))
	p := planBy(head)
	p.Pillar = nil

	assert.True(t, CanViewPlan(p, user("dest", model.RoleStateMinisterDestination, nil)))
}

func TestCanViewReport(t *testing.T) {
	d := dept("d1", rolePtr(model.RoleCorporate))
	author := user("u1", model.RoleIndividual, d)
	desk := user("u2", model.RoleDesk, d)
	p := planBy(author)
	p.Status = model.StatusApproved
	r := &model.Report{ReportID: "r1", PlanID: p.PlanID, Plan: p, UserID: author.UserID, Status: model.StatusDraft}

	assert.True(t, CanViewReport(r, author))
	assert.False(t, CanViewReport(r, desk), "drafts are private")

	r.Status = model.StatusSubmitted
	assert.True(t, CanViewReport(r, desk))
	assert.False(t, CanViewReport(r, user("x", model.RoleIndividual, d)))
}

func TestVisibleLevels(t *testing.T) {
	assert.Empty(t, VisibleLevels(user("a", model.RoleIndividual, nil)))
	assert.ElementsMatch(t, model.Pillars, VisibleLevels(user("b", model.RoleStrategicTeam, nil)))
	assert.Equal(t, []model.Role{model.RoleDepartment}, VisibleLevels(user("c", model.RoleCorporate, nil)))
}
