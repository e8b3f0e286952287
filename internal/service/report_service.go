package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

var maxProgress = decimal.NewFromInt(100)

// ReportService manages progress reports filed against approved plans.
type ReportService interface {
	// CreateReport returns the actor's report for the plan's reporting
	// period, creating it on first use. created is false when the report
	// already existed.
	CreateReport(ctx context.Context, actorID, planID string) (resp *dto.ReportResponse, created bool, err error)
	GetReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error)
	UpdateReport(ctx context.Context, actorID, reportID string, req *dto.UpdateReportRequest) (*dto.ReportResponse, error)

	SubmitReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error)
	ApproveReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error)
	RejectReport(ctx context.Context, actorID, reportID string, req *dto.ReviewRequest) (*dto.ReportResponse, error)

	ListReports(ctx context.Context, actorID string, query *dto.ReportListQuery) ([]dto.ReportResponse, int64, error)
	History(ctx context.Context, actorID, reportID string) ([]dto.ApprovalLogResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	engine *Engine
	logger *zap.Logger
	now    func() time.Time
}

func NewReportService(repo *repository.Repository, engine *Engine, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, engine: engine, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// CreateReport: get-or-create on (plan, user, period)
// ═══════════════════════════════════════════════════════════
//
// Concurrent first calls race on the unique key; the loser reads back the
// winner's row instead of failing.

func (s *reportService) CreateReport(ctx context.Context, actorID, planID string) (*dto.ReportResponse, bool, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, false, s.fail("load actor", err)
	}
	plan, err := s.repo.Plan.GetTree(ctx, planID)
	if err != nil {
		return nil, false, s.fail("load plan", notFound(err, ErrPlanNotFound))
	}
	if err := s.engine.Reports.CheckCreate(plan, actor); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.Report.FindByKey(ctx, plan.PlanID, actor.UserID, plan.PlanType)
	switch {
	case err == nil:
		resp, err := s.GetReport(ctx, actorID, existing.ReportID)
		return resp, false, err
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, s.fail("find report", err)
	}

	report := s.scaffold(plan, actor)
	if err := s.repo.Report.CreateTree(ctx, report); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, s.fail("create report", err)
		}
		winner, ferr := s.repo.Report.FindByKey(ctx, plan.PlanID, actor.UserID, plan.PlanType)
		if ferr != nil {
			return nil, false, s.fail("find report", ferr)
		}
		resp, err := s.GetReport(ctx, actorID, winner.ReportID)
		return resp, false, err
	}

	s.logger.Info("report created",
		zap.String("report_id", report.ReportID),
		zap.String("plan_id", plan.PlanID),
		zap.String("user_id", actor.UserID))
	resp, err := s.GetReport(ctx, actorID, report.ReportID)
	return resp, true, err
}

// scaffold builds an empty report with one row per KPI, major activity
// and detail activity of the plan.
func (s *reportService) scaffold(plan *model.Plan, actor *model.User) *model.Report {
	report := &model.Report{
		PlanID:          plan.PlanID,
		UserID:          actor.UserID,
		ReportingPeriod: plan.PlanType,
		SubmissionDate:  s.today(),
		Status:          model.StatusDraft,
	}
	report.CreatedBy = &actor.UserID
	report.UpdatedBy = &actor.UserID

	for _, k := range plan.KPIs {
		report.KPIReports = append(report.KPIReports, model.KPIReport{KPIID: k.KPIID})
	}
	for _, ma := range plan.MajorActivities {
		ar := model.MajorActivityReport{MajorActivityID: ma.MajorActivityID}
		for _, d := range ma.Details {
			ar.DetailReports = append(ar.DetailReports, model.DetailActivityReport{
				DetailActivityID: d.DetailActivityID,
				Status:           model.DetailNotStarted,
			})
		}
		report.ActivityReports = append(report.ActivityReports, ar)
	}
	return report
}

func (s *reportService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *reportService) GetReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}
	report, err := s.repo.Report.GetTree(ctx, reportID)
	if err != nil {
		return nil, s.fail("load report", notFound(err, ErrReportNotFound))
	}
	if !workflow.CanViewReport(report, actor) {
		return nil, &workflow.PermissionError{Action: "view report", Reason: "report is not visible to you"}
	}
	return s.toResponse(report, actor, true), nil
}

// ═══════════════════════════════════════════════════════════
// UpdateReport
// ═══════════════════════════════════════════════════════════

func (s *reportService) UpdateReport(ctx context.Context, actorID, reportID string, req *dto.UpdateReportRequest) (*dto.ReportResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}
	report, err := s.repo.Report.GetTree(ctx, reportID)
	if err != nil {
		return nil, s.fail("load report", notFound(err, ErrReportNotFound))
	}
	if report.UserID != actor.UserID {
		return nil, &workflow.PermissionError{Action: "update report", Reason: "only the author can change a report"}
	}
	if !s.engine.Reports.CanEdit(report, actor) {
		return nil, &workflow.PermissionError{Action: "update report", Reason: "report is " + string(report.Status)}
	}

	if err := applyReportEdits(report, req); err != nil {
		return nil, err
	}
	report.SubmissionDate = s.today()
	report.UpdatedBy = &actor.UserID

	if err := s.repo.Report.UpdateContent(ctx, report); err != nil {
		return nil, s.fail("update report", lockConflict(err, "update report"))
	}
	s.logger.Info("report updated", zap.String("report_id", report.ReportID), zap.Int("version", report.Version))
	return s.toResponse(report, actor, true), nil
}

// applyReportEdits copies the request onto the loaded report tree and
// recomputes KPI achievement. The report is left partially edited on
// error, so callers must discard it.
func applyReportEdits(report *model.Report, req *dto.UpdateReportRequest) error {
	if req.OverallComment != nil {
		report.OverallComment = req.OverallComment
	}

	kpis := make(map[string]*model.KPIReport, len(report.KPIReports))
	for i := range report.KPIReports {
		kpis[report.KPIReports[i].KPIReportID] = &report.KPIReports[i]
	}
	for _, in := range req.KPIReports {
		kr, ok := kpis[in.ID]
		if !ok {
			return &workflow.ValidationError{Field: "kpi_reports[" + in.ID + "]", Message: "does not belong to this report"}
		}
		kr.ActualValue = in.ActualValue
		if in.Remark != nil {
			kr.Remark = in.Remark
		}
	}
	for i := range report.KPIReports {
		kr := &report.KPIReports[i]
		target := 0.0
		if kr.KPI != nil && report.Plan != nil {
			target = workflow.ResolveTarget(kr.KPI, report.Plan)
		}
		kr.AchievementPercent = workflow.AchievementPercent(kr.ActualValue, target)
	}

	activities := make(map[string]*model.MajorActivityReport, len(report.ActivityReports))
	for i := range report.ActivityReports {
		activities[report.ActivityReports[i].ActivityReportID] = &report.ActivityReports[i]
	}
	for _, in := range req.ActivityReports {
		ar, ok := activities[in.ID]
		if !ok {
			return &workflow.ValidationError{Field: "activity_reports[" + in.ID + "]", Message: "does not belong to this report"}
		}
		if in.Progress != nil {
			if in.Progress.IsNegative() || in.Progress.GreaterThan(maxProgress) {
				return &workflow.ValidationError{Field: "activity_reports[" + in.ID + "].progress", Message: "must be between 0 and 100"}
			}
			ar.Progress = decimal.NewNullDecimal(*in.Progress)
		}
		if in.ActualBudgetUsed != nil {
			if in.ActualBudgetUsed.IsNegative() {
				return &workflow.ValidationError{Field: "activity_reports[" + in.ID + "].actual_budget_used", Message: "must not be negative"}
			}
			ar.ActualBudgetUsed = *in.ActualBudgetUsed
		}
		if in.Challenge != nil {
			ar.Challenge = in.Challenge
		}
		if in.Mitigation != nil {
			ar.Mitigation = in.Mitigation
		}

		details := make(map[string]*model.DetailActivityReport, len(ar.DetailReports))
		for j := range ar.DetailReports {
			details[ar.DetailReports[j].DetailReportID] = &ar.DetailReports[j]
		}
		for _, d := range in.Details {
			dr, ok := details[d.ID]
			if !ok {
				return &workflow.ValidationError{Field: "activity_reports[" + in.ID + "].details[" + d.ID + "]", Message: "does not belong to this activity"}
			}
			if d.Status != "" {
				st := model.DetailReportStatus(d.Status)
				if !st.Valid() {
					return &workflow.ValidationError{Field: "activity_reports[" + in.ID + "].details[" + d.ID + "].status", Message: "unknown status " + d.Status}
				}
				dr.Status = st
			}
			if d.Comment != nil {
				dr.Comment = d.Comment
			}
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// Workflow transitions
// ═══════════════════════════════════════════════════════════

func (s *reportService) SubmitReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error) {
	return s.transition(ctx, actorID, reportID, "submit report", s.engine.Reports.Submit)
}

func (s *reportService) ApproveReport(ctx context.Context, actorID, reportID string) (*dto.ReportResponse, error) {
	return s.transition(ctx, actorID, reportID, "approve report", s.engine.Reports.Approve)
}

func (s *reportService) RejectReport(ctx context.Context, actorID, reportID string, req *dto.ReviewRequest) (*dto.ReportResponse, error) {
	var comment *string
	if req != nil {
		comment = req.Comment
	}
	return s.transition(ctx, actorID, reportID, "reject report", func(r *model.Report, u *model.User) (*workflow.Transition, error) {
		return s.engine.Reports.Reject(r, u, comment)
	})
}

func (s *reportService) transition(
	ctx context.Context,
	actorID, reportID, action string,
	apply func(*model.Report, *model.User) (*workflow.Transition, error),
) (*dto.ReportResponse, error) {
	var (
		report *model.Report
		actor  *model.User
		tr     *workflow.Transition
	)
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		var err error
		if actor, err = loadActor(ctx, tx, actorID); err != nil {
			return err
		}
		if report, err = tx.Report.GetByID(ctx, reportID); err != nil {
			return notFound(err, ErrReportNotFound)
		}
		if tr, err = apply(report, actor); err != nil {
			return err
		}
		report.UpdatedBy = &actor.UserID
		if err := tx.Report.UpdateStatus(ctx, report); err != nil {
			return lockConflict(err, action)
		}
		return recordTransition(ctx, tx, model.SubjectReport, report.ReportID, actor, tr, map[string]interface{}{
			"plan_id":          report.PlanID,
			"reporting_period": string(report.ReportingPeriod),
			"version":          report.Version,
		})
	})
	if err != nil {
		return nil, s.fail(action, err)
	}

	fields := []zap.Field{
		zap.String("report_id", report.ReportID),
		zap.String("action", string(tr.Action)),
		zap.String("actor_id", actor.UserID),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
	}
	if tr.ReviewerRole != nil {
		fields = append(fields, zap.String("reviewer_role", string(*tr.ReviewerRole)))
	}
	s.logger.Info("report transition", fields...)

	if full, err := s.repo.Report.GetTree(ctx, report.ReportID); err == nil {
		return s.toResponse(full, actor, true), nil
	}
	return s.toResponse(report, actor, false), nil
}

// ═══════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════

func (s *reportService) ListReports(ctx context.Context, actorID string, query *dto.ReportListQuery) ([]dto.ReportResponse, int64, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, 0, s.fail("load actor", err)
	}

	var filter repository.ReportFilter
	if query.PlanID != "" {
		id := query.PlanID
		filter.PlanID = &id
	}
	if query.Status != "" {
		st := model.Status(query.Status)
		filter.Status = &st
	}

	scope := repository.Visibility{UserID: actor.UserID, Role: actor.Role, Levels: workflow.VisibleLevels(actor)}
	candidates, err := s.repo.Report.ListVisible(ctx, scope, filter)
	if err != nil {
		return nil, 0, s.fail("list reports", err)
	}

	visible := make([]dto.ReportResponse, 0, len(candidates))
	for i := range candidates {
		if workflow.CanViewReport(&candidates[i], actor) {
			visible = append(visible, *s.toResponse(&candidates[i], actor, false))
		}
	}

	query.Normalize()
	start, end := query.Window(len(visible))
	return visible[start:end], int64(len(visible)), nil
}

func (s *reportService) History(ctx context.Context, actorID, reportID string) ([]dto.ApprovalLogResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}
	report, err := s.repo.Report.GetByID(ctx, reportID)
	if err != nil {
		return nil, s.fail("load report", notFound(err, ErrReportNotFound))
	}
	if !workflow.CanViewReport(report, actor) {
		return nil, &workflow.PermissionError{Action: "view report history", Reason: "report is not visible to you"}
	}
	logs, err := s.repo.ApprovalLog.ListBySubject(ctx, model.SubjectReport, reportID)
	if err != nil {
		return nil, s.fail("list approval logs", err)
	}
	return toLogResponses(logs), nil
}

// ── mapping ──

func (s *reportService) toResponse(report *model.Report, actor *model.User, withTree bool) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		ID:              report.ReportID,
		PlanID:          report.PlanID,
		Owner:           toUserBrief(report.Owner),
		ReportingPeriod: string(report.ReportingPeriod),
		SubmissionDate:  report.SubmissionDate.Format("2006-01-02"),
		OverallComment:  report.OverallComment,
		Status:          string(report.Status),
		ReviewerComment: report.ReviewerComment,
		OverallProgress: report.OverallProgress(),
		CanEdit:         s.engine.Reports.CanEdit(report, actor),
		CanApprove:      s.engine.Reports.CanApprove(report, actor),
		Version:         report.Version,
		CreatedAt:       report.CreatedAt.Format(timeLayout),
	}
	if report.Status.InReview() {
		if role, err := s.engine.Reports.ReviewerRole(report.Plan); err == nil {
			resp.ReviewerRole = roleString(role)
		}
	}
	if !withTree {
		return resp
	}

	for _, kr := range report.KPIReports {
		out := dto.KPIReportResponse{
			ID:                 kr.KPIReportID,
			KPIID:              kr.KPIID,
			ActualValue:        kr.ActualValue,
			AchievementPercent: kr.AchievementPercent,
			Remark:             kr.Remark,
		}
		if kr.KPI != nil {
			out.KPIName = kr.KPI.Name
			out.MeasurementUnit = kr.KPI.MeasurementUnit
			if report.Plan != nil {
				out.Target = workflow.ResolveTarget(kr.KPI, report.Plan)
			}
		}
		resp.KPIReports = append(resp.KPIReports, out)
	}
	for _, ar := range report.ActivityReports {
		out := dto.ActivityReportResponse{
			ID:               ar.ActivityReportID,
			MajorActivityID:  ar.MajorActivityID,
			Progress:         ar.Progress,
			ActualBudgetUsed: ar.ActualBudgetUsed,
			Challenge:        ar.Challenge,
			Mitigation:       ar.Mitigation,
			Details:          make([]dto.DetailReportResponse, 0, len(ar.DetailReports)),
		}
		if ar.MajorActivity != nil {
			out.Name = ar.MajorActivity.Name
			out.Weight = ar.MajorActivity.Weight
			out.Budget = ar.MajorActivity.Budget
		}
		for _, dr := range ar.DetailReports {
			d := dto.DetailReportResponse{
				ID:               dr.DetailReportID,
				DetailActivityID: dr.DetailActivityID,
				Status:           string(dr.Status),
				Comment:          dr.Comment,
			}
			if dr.DetailActivity != nil {
				d.Description = dr.DetailActivity.Description
			}
			out.Details = append(out.Details, d)
		}
		resp.ActivityReports = append(resp.ActivityReports, out)
	}
	return resp
}

func (s *reportService) fail(op string, err error) error {
	if !isExpected(err) {
		s.logger.Error("report service: "+op+" failed", zap.Error(err))
	}
	return err
}
