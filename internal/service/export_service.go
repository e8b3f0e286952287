package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

var ErrExportGenerateFail = errors.New("failed to generate Excel file")

// ExportService renders plans and reports as Excel workbooks. The
// workbook is returned as a buffer; the handler sets the response
// headers and writes it out.
type ExportService interface {
	ExportPlan(ctx context.Context, actorID, planID string) (*bytes.Buffer, string, error)
	ExportReport(ctx context.Context, actorID, reportID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	engine *Engine
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, engine *Engine, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, engine: engine, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPlan
// ═══════════════════════════════════════════════════════════
//
// Sheets:
//   - "Plan": header fields and the approval route
//   - "Goals"
//   - "KPIs": one row per KPI, quarterly targets for yearly plans
//   - "Activities": major activities followed by their details

func (s *exportService) ExportPlan(ctx context.Context, actorID, planID string) (*bytes.Buffer, string, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, "", err
	}
	plan, err := s.repo.Plan.GetTree(ctx, planID)
	if err != nil {
		err = notFound(err, ErrPlanNotFound)
		if !isExpected(err) {
			s.logger.Error("failed to load plan for export", zap.Error(err))
		}
		return nil, "", err
	}
	if !workflow.CanViewPlan(plan, actor) {
		return nil, "", &workflow.PermissionError{Action: "export plan", Reason: "plan is not visible to you"}
	}

	f := excelize.NewFile()
	defer f.Close()

	w := newSheetWriter(f)
	w.sheet("Plan", true)
	route, _ := s.engine.Graph.Chain(plan.Level, plan.EffectivePillar())
	owner := ""
	if plan.Owner != nil {
		owner = plan.Owner.FullName
	}
	w.pairs([][2]interface{}{
		{"Plan ID", plan.PlanID},
		{"Owner", owner},
		{"Level", string(plan.Level)},
		{"Type", string(plan.PlanType)},
		{"Period", periodLabel(plan)},
		{"Status", string(plan.Status)},
		{"Current reviewer", derefRole(plan.CurrentReviewerRole)},
		{"Approval route", joinRoles(route)},
		{"Version", plan.Version},
	})

	w.sheet("Goals", false)
	w.header("#", "Title")
	for i, g := range plan.Goals {
		w.row(i+1, g.Title)
	}

	w.sheet("KPIs", false)
	w.header("Name", "Unit", "Baseline", "Target", "Q1", "Q2", "Q3", "Q4")
	for _, k := range plan.KPIs {
		w.row(k.Name, k.MeasurementUnit, k.Baseline, k.Target, k.TargetQ1, k.TargetQ2, k.TargetQ3, k.TargetQ4)
	}

	w.sheet("Activities", false)
	w.header("Major activity", "Detail", "Weight", "Budget", "Status")
	for _, ma := range plan.MajorActivities {
		w.row(ma.Name, "", ma.Weight.InexactFloat64(), ma.Budget.InexactFloat64(), "")
		for _, d := range ma.Details {
			w.row("", d.Description, d.Weight.InexactFloat64(), d.Budget.InexactFloat64(), string(d.Status))
		}
	}

	buf, err := w.finish()
	if err != nil {
		s.logger.Error("failed to write plan workbook", zap.String("plan_id", planID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("plan_%s_%s_%d.xlsx", plan.Level, plan.PlanType, plan.Year)
	s.logger.Info("plan exported", zap.String("plan_id", planID), zap.String("actor_id", actor.UserID))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportReport
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportReport(ctx context.Context, actorID, reportID string) (*bytes.Buffer, string, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, "", err
	}
	report, err := s.repo.Report.GetTree(ctx, reportID)
	if err != nil {
		err = notFound(err, ErrReportNotFound)
		if !isExpected(err) {
			s.logger.Error("failed to load report for export", zap.Error(err))
		}
		return nil, "", err
	}
	if !workflow.CanViewReport(report, actor) {
		return nil, "", &workflow.PermissionError{Action: "export report", Reason: "report is not visible to you"}
	}

	f := excelize.NewFile()
	defer f.Close()

	w := newSheetWriter(f)
	w.sheet("Report", true)
	owner := ""
	if report.Owner != nil {
		owner = report.Owner.FullName
	}
	w.pairs([][2]interface{}{
		{"Report ID", report.ReportID},
		{"Plan ID", report.PlanID},
		{"Owner", owner},
		{"Reporting period", string(report.ReportingPeriod)},
		{"Submission date", report.SubmissionDate.Format("2006-01-02")},
		{"Status", string(report.Status)},
		{"Overall progress (%)", report.OverallProgress().InexactFloat64()},
		{"Overall comment", derefString(report.OverallComment)},
		{"Reviewer comment", derefString(report.ReviewerComment)},
	})

	w.sheet("KPIs", false)
	w.header("KPI", "Unit", "Target", "Actual", "Achievement (%)", "Remark")
	for _, kr := range report.KPIReports {
		name, unit, target := "", "", 0.0
		if kr.KPI != nil {
			name, unit = kr.KPI.Name, kr.KPI.MeasurementUnit
			if report.Plan != nil {
				target = workflow.ResolveTarget(kr.KPI, report.Plan)
			}
		}
		var actual interface{} = ""
		if kr.ActualValue != nil {
			actual = *kr.ActualValue
		}
		w.row(name, unit, target, actual, kr.AchievementPercent, derefString(kr.Remark))
	}

	w.sheet("Activities", false)
	w.header("Major activity", "Detail", "Progress (%)", "Budget used", "Status", "Challenge", "Mitigation")
	for _, ar := range report.ActivityReports {
		name := ""
		if ar.MajorActivity != nil {
			name = ar.MajorActivity.Name
		}
		var progress interface{} = ""
		if ar.Progress.Valid {
			progress = ar.Progress.Decimal.InexactFloat64()
		}
		w.row(name, "", progress, ar.ActualBudgetUsed.InexactFloat64(), "", derefString(ar.Challenge), derefString(ar.Mitigation))
		for _, dr := range ar.DetailReports {
			desc := ""
			if dr.DetailActivity != nil {
				desc = dr.DetailActivity.Description
			}
			w.row("", desc, "", "", string(dr.Status), derefString(dr.Comment), "")
		}
	}

	buf, err := w.finish()
	if err != nil {
		s.logger.Error("failed to write report workbook", zap.String("report_id", reportID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("report_%s_%s.xlsx", report.ReportingPeriod, report.SubmissionDate.Format("20060102"))
	s.logger.Info("report exported", zap.String("report_id", reportID), zap.String("actor_id", actor.UserID))
	return buf, filename, nil
}

// ── workbook helpers ──

// sheetWriter appends rows to the current sheet and remembers the first
// error so callers can write without checking every cell.
type sheetWriter struct {
	f       *excelize.File
	name    string
	rowNum  int
	bold    int
	err     error
	created bool
}

func newSheetWriter(f *excelize.File) *sheetWriter {
	w := &sheetWriter{f: f}
	w.bold, w.err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	return w
}

func (w *sheetWriter) sheet(name string, active bool) {
	if w.err != nil {
		return
	}
	idx, err := w.f.NewSheet(name)
	if err != nil {
		w.err = err
		return
	}
	if active {
		w.f.SetActiveSheet(idx)
	}
	if !w.created {
		w.created = true
		if err := w.f.DeleteSheet("Sheet1"); err != nil {
			w.err = err
			return
		}
	}
	w.name = name
	w.rowNum = 0
}

func (w *sheetWriter) header(cols ...interface{}) {
	w.row(cols...)
	if w.err != nil {
		return
	}
	end, err := excelize.CoordinatesToCellName(len(cols), w.rowNum)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.name, "A"+fmt.Sprint(w.rowNum), end, w.bold)
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.rowNum++
	cell, err := excelize.CoordinatesToCellName(1, w.rowNum)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.name, cell, &values)
}

func (w *sheetWriter) pairs(kv [][2]interface{}) {
	for _, p := range kv {
		w.row(p[0], p[1])
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(w.name, "A", "A", 24)
	}
}

func (w *sheetWriter) finish() (*bytes.Buffer, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.f.WriteToBuffer()
}

func periodLabel(p *model.Plan) string {
	switch {
	case p.WeekNumber != nil:
		return fmt.Sprintf("%d week %d", p.Year, *p.WeekNumber)
	case p.Month != nil:
		return fmt.Sprintf("%d month %d", p.Year, *p.Month)
	case p.QuarterNumber != nil:
		return fmt.Sprintf("%d Q%d", p.Year, *p.QuarterNumber)
	}
	return fmt.Sprint(p.Year)
}

func joinRoles(roles []model.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " > "
		}
		out += string(r)
	}
	return out
}

func derefRole(r *model.Role) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
