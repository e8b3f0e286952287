package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

func TestExportService_ExportPlan(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	p, _ := env.plan.CreatePlan(ctx, "indiv", weeklyPlan())

	buf, filename, err := env.export.ExportPlan(ctx, "indiv", p.ID)
	if err != nil {
		t.Fatalf("ExportPlan: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "weekly") {
		t.Errorf("filename = %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Plan", "Goals", "KPIs", "Activities"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	rows, err := f.GetRows("Activities")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// header + one major activity + two details
	if len(rows) != 4 {
		t.Errorf("activity rows = %d, want 4", len(rows))
	}
	if rows[1][0] != "Campaign" {
		t.Errorf("first activity = %q", rows[1][0])
	}
}

func TestExportService_ExportPlan_Forbidden(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	p, _ := env.plan.CreatePlan(ctx, "indiv", weeklyPlan())

	_, _, err := env.export.ExportPlan(ctx, "mkt-head", p.ID)
	if !errors.Is(err, workflow.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
	if _, _, err := env.export.ExportPlan(ctx, "indiv", "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestExportService_ExportReport(t *testing.T) {
	env := newTestEnv(t, config.WorkflowConfig{})
	ctx := context.Background()
	planID := env.approvedPlan(t, "indiv", individualChain...)
	r, _, _ := env.report.CreateReport(ctx, "indiv", planID)
	_, err := env.report.UpdateReport(ctx, "indiv", r.ID, &dto.UpdateReportRequest{
		KPIReports: []dto.KPIReportInput{{ID: r.KPIReports[0].ID, ActualValue: ptr(100.0)}},
	})
	if err != nil {
		t.Fatalf("UpdateReport: %v", err)
	}

	buf, _, err := env.export.ExportReport(ctx, "indiv", r.ID)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	achievement, err := f.GetCellValue("KPIs", "E2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if achievement != "50" {
		t.Errorf("achievement cell = %q, want 50", achievement)
	}
}
