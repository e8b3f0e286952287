package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

var individualChain = []string{"desk", "head", "corp", "strategic", "minister"}

// ── CreateReport ──

func TestReportService_CreateReport_RequiresApprovedPlan(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	p, _ := env.plan.CreatePlan(ctx, "indiv", weeklyPlan())

	_, _, err := env.report.CreateReport(ctx, "indiv", p.ID)
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected validation error for a draft plan, got %v", err)
	}
	if _, _, err := env.report.CreateReport(ctx, "indiv", "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestReportService_CreateReport_OnlyPlanAuthor(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)

	// desk can read the plan and is its first reviewer, but does not own it
	if _, err := env.plan.GetPlan(ctx, "desk", planID); err != nil {
		t.Fatalf("desk GetPlan: %v", err)
	}
	if _, _, err := env.report.CreateReport(ctx, "desk", planID); !errors.Is(err, workflow.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if n := len(env.reports.reports); n != 0 {
		t.Errorf("reports stored = %d, want 0", n)
	}
}

func TestReportService_CreateReport_GetOrCreate(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)

	first, created, err := env.report.CreateReport(ctx, "indiv", planID)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if !created {
		t.Error("first call should create the report")
	}
	if first.ReportingPeriod != string(model.PlanTypeWeekly) || first.Status != string(model.StatusDraft) {
		t.Errorf("report = %s/%s", first.ReportingPeriod, first.Status)
	}
	if len(first.KPIReports) != 1 || len(first.ActivityReports) != 1 || len(first.ActivityReports[0].Details) != 2 {
		t.Fatalf("scaffold incomplete: %d kpis, %d activities", len(first.KPIReports), len(first.ActivityReports))
	}
	if first.KPIReports[0].Target != 200 {
		t.Errorf("target = %v, want 200", first.KPIReports[0].Target)
	}

	second, created, err := env.report.CreateReport(ctx, "indiv", planID)
	if err != nil {
		t.Fatalf("second CreateReport: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("second call should return the existing report, got created=%v id=%s", created, second.ID)
	}
	if len(env.reports.reports) != 1 {
		t.Errorf("reports stored = %d, want 1", len(env.reports.reports))
	}
}

func TestReportService_CreateReport_LosingRaceReturnsWinner(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)

	env.reports.createHook = func(r *model.Report) error {
		env.reports.createHook = nil
		winner := &model.Report{
			ReportID:        "report-winner",
			PlanID:          r.PlanID,
			UserID:          r.UserID,
			ReportingPeriod: r.ReportingPeriod,
			Status:          model.StatusDraft,
		}
		if err := env.reports.CreateTree(ctx, winner); err != nil {
			t.Fatalf("seed winner: %v", err)
		}
		return gorm.ErrDuplicatedKey
	}

	got, created, err := env.report.CreateReport(ctx, "indiv", planID)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if created || got.ID != "report-winner" {
		t.Errorf("expected the concurrently created report, got created=%v id=%s", created, got.ID)
	}
}

// ── UpdateReport ──

func TestReportService_UpdateReport_ComputesAchievement(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)

	ar := r.ActivityReports[0]
	got, err := env.report.UpdateReport(ctx, "indiv", r.ID, &dto.UpdateReportRequest{
		OverallComment: ptr("on track"),
		KPIReports:     []dto.KPIReportInput{{ID: r.KPIReports[0].ID, ActualValue: ptr(150.0)}},
		ActivityReports: []dto.ActivityReportInput{{
			ID:               ar.ID,
			Progress:         ptr(dec("50")),
			ActualBudgetUsed: ptr(dec("300")),
			Details:          []dto.DetailReportInput{{ID: ar.Details[0].ID, Status: "COMPLETED"}},
		}},
	})
	if err != nil {
		t.Fatalf("UpdateReport: %v", err)
	}
	if got.KPIReports[0].AchievementPercent != 75 {
		t.Errorf("achievement = %v, want 75", got.KPIReports[0].AchievementPercent)
	}
	if !got.OverallProgress.Equal(dec("50")) {
		t.Errorf("overall progress = %s, want 50", got.OverallProgress)
	}
	if got.ActivityReports[0].Details[0].Status != string(model.DetailCompleted) {
		t.Errorf("detail status = %s", got.ActivityReports[0].Details[0].Status)
	}
	if got.Version != r.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, r.Version+1)
	}
}

func TestReportService_UpdateReport_Validation(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)
	arID := r.ActivityReports[0].ID

	tests := []struct {
		name string
		req  *dto.UpdateReportRequest
	}{
		{"progress above 100", &dto.UpdateReportRequest{ActivityReports: []dto.ActivityReportInput{{ID: arID, Progress: ptr(dec("120"))}}}},
		{"negative progress", &dto.UpdateReportRequest{ActivityReports: []dto.ActivityReportInput{{ID: arID, Progress: ptr(dec("-1"))}}}},
		{"negative budget", &dto.UpdateReportRequest{ActivityReports: []dto.ActivityReportInput{{ID: arID, ActualBudgetUsed: ptr(dec("-5"))}}}},
		{"foreign kpi row", &dto.UpdateReportRequest{KPIReports: []dto.KPIReportInput{{ID: "kr-other"}}}},
		{"foreign detail row", &dto.UpdateReportRequest{ActivityReports: []dto.ActivityReportInput{{ID: arID, Details: []dto.DetailReportInput{{ID: "dr-other"}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.report.UpdateReport(ctx, "indiv", r.ID, tt.req)
			if !errors.Is(err, workflow.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := env.report.UpdateReport(ctx, "desk", r.ID, &dto.UpdateReportRequest{}); !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("non-author update: expected permission error, got %v", err)
	}
}

// ── transitions ──

func TestReportService_SubmitApprove(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)

	if _, err := env.report.SubmitReport(ctx, "desk", r.ID); !errors.Is(err, workflow.ErrPermission) {
		t.Fatalf("non-author submit: expected permission error, got %v", err)
	}

	submitted, err := env.report.SubmitReport(ctx, "indiv", r.ID)
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if submitted.Status != string(model.StatusSubmitted) {
		t.Errorf("status = %s, want SUBMITTED", submitted.Status)
	}
	if submitted.ReviewerRole == nil || *submitted.ReviewerRole != string(model.RoleDesk) {
		t.Errorf("reviewer = %v, want desk", submitted.ReviewerRole)
	}

	if _, err := env.report.UpdateReport(ctx, "indiv", r.ID, &dto.UpdateReportRequest{}); !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("submitted report should be read-only, got %v", err)
	}
	if _, err := env.report.ApproveReport(ctx, "head", r.ID); !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("wrong reviewer: expected permission error, got %v", err)
	}

	approved, err := env.report.ApproveReport(ctx, "desk", r.ID)
	if err != nil {
		t.Fatalf("ApproveReport: %v", err)
	}
	if approved.Status != string(model.StatusApproved) {
		t.Errorf("status = %s, want APPROVED", approved.Status)
	}

	history, _ := env.report.History(ctx, "indiv", r.ID)
	if len(history) != 2 {
		t.Errorf("history entries = %d, want 2", len(history))
	}
}

func TestReportService_RejectAndResubmit(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)
	_, _ = env.report.SubmitReport(ctx, "indiv", r.ID)

	rejected, err := env.report.RejectReport(ctx, "desk", r.ID, &dto.ReviewRequest{Comment: ptr("add evidence")})
	if err != nil {
		t.Fatalf("RejectReport: %v", err)
	}
	if rejected.Status != string(model.StatusRejected) || rejected.ReviewerComment == nil {
		t.Fatalf("after reject: %s / %v", rejected.Status, rejected.ReviewerComment)
	}
	if _, err := env.report.UpdateReport(ctx, "indiv", r.ID, &dto.UpdateReportRequest{OverallComment: ptr("evidence added")}); err != nil {
		t.Fatalf("UpdateReport after reject: %v", err)
	}
	resubmitted, err := env.report.SubmitReport(ctx, "indiv", r.ID)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.Status != string(model.StatusResubmitted) {
		t.Errorf("status = %s, want RESUBMITTED", resubmitted.Status)
	}
}

func TestReportService_MinisterReportApprovedOnSubmit(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "minister")
	r, _, err := env.report.CreateReport(ctx, "minister", planID)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	got, err := env.report.SubmitReport(ctx, "minister", r.ID)
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if got.Status != string(model.StatusApproved) {
		t.Errorf("status = %s, want APPROVED", got.Status)
	}
}

// ── visibility ──

func TestReportService_DraftIsPrivate(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)

	if _, err := env.report.GetReport(ctx, "desk", r.ID); !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("draft should be hidden from the desk, got %v", err)
	}
	list, total, _ := env.report.ListReports(ctx, "desk", &dto.ReportListQuery{})
	if total != 0 || len(list) != 0 {
		t.Errorf("desk list = %d, want 0", total)
	}

	_, _ = env.report.SubmitReport(ctx, "indiv", r.ID)

	if _, err := env.report.GetReport(ctx, "desk", r.ID); err != nil {
		t.Errorf("submitted report should be visible to the desk: %v", err)
	}
	list, total, _ = env.report.ListReports(ctx, "desk", &dto.ReportListQuery{})
	if total != 1 || !list[0].CanApprove {
		t.Errorf("desk should list and be able to approve the report, got %+v", list)
	}
	if _, err := env.report.GetReport(ctx, "mkt-head", r.ID); !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("other department should not see the report, got %v", err)
	}
}
