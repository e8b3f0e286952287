package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
)

// testEnv wires the services over mock repositories and seeds one
// department under the corporate pillar with a user at every level.
type testEnv struct {
	repo    *repository.Repository
	users   *mockUserRepo
	depts   *mockDeptRepo
	plans   *mockPlanRepo
	reports *mockReportRepo
	logs    *mockApprovalLogRepo

	plan   PlanService
	report ReportService
	export ExportService
}

func newTestEnv(t *testing.T, wf config.WorkflowConfig) *testEnv {
	t.Helper()
	depts := newMockDeptRepo()
	users := newMockUserRepo(depts)
	plans := newMockPlanRepo(users)
	reports := newMockReportRepo(plans, users)
	logs := &mockApprovalLogRepo{}

	repo := &repository.Repository{
		User:        users,
		Department:  depts,
		Plan:        plans,
		Report:      reports,
		ApprovalLog: logs,
	}
	repo.Tx = &mockTx{repo: repo}

	engine, err := NewEngine(&wf)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	logger := zap.NewNop()
	env := &testEnv{
		repo:    repo,
		users:   users,
		depts:   depts,
		plans:   plans,
		reports: reports,
		logs:    logs,
		plan:    NewPlanService(repo, engine, logger),
		report:  NewReportService(repo, engine, logger),
		export:  NewExportService(repo, engine, logger),
	}

	ctx := context.Background()
	corporate := model.RoleCorporate
	_ = depts.Create(ctx, &model.Department{DepartmentID: "dept-dev", Name: "Tourism Development", Pillar: &corporate, IsActive: true})
	_ = depts.Create(ctx, &model.Department{DepartmentID: "dept-mkt", Name: "Marketing", IsActive: true})

	inDept := func(id, dept string, role model.Role) {
		d := dept
		_ = users.Create(ctx, &model.User{UserID: id, Username: id, FullName: id, Role: role, DepartmentID: &d})
	}
	inDept("indiv", "dept-dev", model.RoleIndividual)
	inDept("desk", "dept-dev", model.RoleDesk)
	inDept("head", "dept-dev", model.RoleDepartment)
	inDept("mkt-indiv", "dept-mkt", model.RoleIndividual)
	inDept("mkt-head", "dept-mkt", model.RoleDepartment)
	for id, role := range map[string]model.Role{
		"corp":      model.RoleCorporate,
		"dest":      model.RoleStateMinisterDestination,
		"strategic": model.RoleStrategicTeam,
		"minister":  model.RoleMinister,
	} {
		_ = users.Create(ctx, &model.User{UserID: id, Username: id, FullName: id, Role: role})
	}
	return env
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// weeklyPlan is a valid weekly plan with one KPI and one fully allocated
// major activity.
func weeklyPlan() *dto.PlanRequest {
	return &dto.PlanRequest{
		PlanType:   "weekly",
		Year:       2025,
		WeekNumber: ptr(2),
		Goals:      []dto.GoalInput{{Title: "Grow arrivals"}},
		KPIs: []dto.KPIInput{
			{Name: "Visitors", MeasurementUnit: "people", Target: 200},
		},
		MajorActivities: []dto.MajorActivityInput{
			{
				Name:   "Campaign",
				Weight: dec("40"),
				Budget: dec("1000"),
				Details: []dto.DetailActivityInput{
					{Description: "Design", Weight: dec("15"), Budget: dec("400")},
					{Description: "Launch", Weight: dec("25"), Budget: dec("600")},
				},
			},
		},
	}
}

// approvedPlan drives a fresh weekly plan by author all the way to
// APPROVED and returns its id.
func (e *testEnv) approvedPlan(t *testing.T, author string, reviewers ...string) string {
	t.Helper()
	ctx := context.Background()
	p, err := e.plan.CreatePlan(ctx, author, weeklyPlan())
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if _, err := e.plan.SubmitPlan(ctx, author, p.ID); err != nil {
		t.Fatalf("SubmitPlan: %v", err)
	}
	for _, r := range reviewers {
		if _, err := e.plan.ApprovePlan(ctx, r, p.ID); err != nil {
			t.Fatalf("ApprovePlan by %s: %v", r, err)
		}
	}
	got, err := e.plan.GetPlan(ctx, author, p.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Status != string(model.StatusApproved) {
		t.Fatalf("plan status = %s, want APPROVED", got.Status)
	}
	return p.ID
}
