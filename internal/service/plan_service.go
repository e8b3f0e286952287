package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

// PlanService manages plans and drives them through the approval chain.
// Every method takes the id of the acting user; authorization is decided
// here, not by the caller.
type PlanService interface {
	CreatePlan(ctx context.Context, actorID string, req *dto.PlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error)
	// UpdatePlan replaces the whole content of a draft or rejected plan.
	UpdatePlan(ctx context.Context, actorID, planID string, req *dto.PlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, actorID, planID string) error

	SubmitPlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error)
	ApprovePlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error)
	RejectPlan(ctx context.Context, actorID, planID string, req *dto.ReviewRequest) (*dto.PlanResponse, error)

	ListPlans(ctx context.Context, actorID string, query *dto.PlanListQuery) ([]dto.PlanResponse, int64, error)
	History(ctx context.Context, actorID, planID string) ([]dto.ApprovalLogResponse, error)
}

type planService struct {
	repo   *repository.Repository
	engine *Engine
	logger *zap.Logger
}

func NewPlanService(repo *repository.Repository, engine *Engine, logger *zap.Logger) PlanService {
	return &planService{repo: repo, engine: engine, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Authoring
// ═══════════════════════════════════════════════════════════

func (s *planService) CreatePlan(ctx context.Context, actorID string, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}

	plan, err := s.buildPlan(actor, req)
	if err != nil {
		return nil, err
	}
	plan.CreatedBy = &actor.UserID
	plan.UpdatedBy = &actor.UserID

	if err := s.repo.Plan.CreateTree(ctx, plan); err != nil {
		return nil, s.fail("create plan", err)
	}

	s.logger.Info("plan created",
		zap.String("plan_id", plan.PlanID),
		zap.String("user_id", actor.UserID),
		zap.String("plan_type", string(plan.PlanType)))
	return s.toResponse(plan, actor, true), nil
}

func (s *planService) GetPlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}
	plan, err := s.repo.Plan.GetTree(ctx, planID)
	if err != nil {
		return nil, s.fail("load plan", notFound(err, ErrPlanNotFound))
	}
	if !workflow.CanViewPlan(plan, actor) {
		return nil, &workflow.PermissionError{Action: "view plan", Reason: "plan is not visible to you"}
	}
	return s.toResponse(plan, actor, true), nil
}

func (s *planService) UpdatePlan(ctx context.Context, actorID, planID string, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}

	// validate before any write so a rejected tree leaves the stored one intact
	next, err := s.buildPlan(actor, req)
	if err != nil {
		return nil, err
	}

	var updated *model.Plan
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		current, err := tx.Plan.GetByID(ctx, planID)
		if err != nil {
			return notFound(err, ErrPlanNotFound)
		}
		if err := s.engine.Plans.CheckEdit(current, actor, "update plan"); err != nil {
			return err
		}

		next.PlanID = current.PlanID
		next.Status = current.Status
		next.CurrentReviewerRole = current.CurrentReviewerRole
		next.ReviewComments = current.ReviewComments
		next.Version = current.Version
		next.CreatedAt = current.CreatedAt
		next.CreatedBy = current.CreatedBy
		next.UpdatedBy = &actor.UserID
		if err := tx.Plan.ReplaceTree(ctx, next); err != nil {
			return lockConflict(err, "update plan")
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail("update plan", err)
	}

	s.logger.Info("plan updated", zap.String("plan_id", planID), zap.Int("version", updated.Version))
	return s.toResponse(updated, actor, true), nil
}

func (s *planService) DeletePlan(ctx context.Context, actorID, planID string) error {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return s.fail("load actor", err)
	}
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		plan, err := tx.Plan.GetByID(ctx, planID)
		if err != nil {
			return notFound(err, ErrPlanNotFound)
		}
		if err := s.engine.Plans.CheckEdit(plan, actor, "delete plan"); err != nil {
			return err
		}
		return notFound(tx.Plan.Delete(ctx, planID), ErrPlanNotFound)
	})
	if err != nil {
		return s.fail("delete plan", err)
	}
	s.logger.Info("plan deleted", zap.String("plan_id", planID), zap.String("user_id", actor.UserID))
	return nil
}

// ═══════════════════════════════════════════════════════════
// Workflow transitions
// ═══════════════════════════════════════════════════════════

func (s *planService) SubmitPlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error) {
	return s.transition(ctx, actorID, planID, "submit plan", s.engine.Plans.Submit)
}

func (s *planService) ApprovePlan(ctx context.Context, actorID, planID string) (*dto.PlanResponse, error) {
	return s.transition(ctx, actorID, planID, "approve plan", s.engine.Plans.Approve)
}

func (s *planService) RejectPlan(ctx context.Context, actorID, planID string, req *dto.ReviewRequest) (*dto.PlanResponse, error) {
	var comment *string
	if req != nil {
		comment = req.Comment
	}
	return s.transition(ctx, actorID, planID, "reject plan", func(p *model.Plan, u *model.User) (*workflow.Transition, error) {
		return s.engine.Plans.Reject(p, u, comment)
	})
}

// transition loads the plan, applies one workflow step and persists it
// with its approval log entry in a single transaction.
func (s *planService) transition(
	ctx context.Context,
	actorID, planID, action string,
	apply func(*model.Plan, *model.User) (*workflow.Transition, error),
) (*dto.PlanResponse, error) {
	var (
		plan  *model.Plan
		actor *model.User
		tr    *workflow.Transition
	)
	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		var err error
		if actor, err = loadActor(ctx, tx, actorID); err != nil {
			return err
		}
		if plan, err = tx.Plan.GetByID(ctx, planID); err != nil {
			return notFound(err, ErrPlanNotFound)
		}
		if tr, err = apply(plan, actor); err != nil {
			return err
		}
		plan.UpdatedBy = &actor.UserID
		if err := tx.Plan.UpdateStatus(ctx, plan); err != nil {
			return lockConflict(err, action)
		}
		return recordTransition(ctx, tx, model.SubjectPlan, plan.PlanID, actor, tr, map[string]interface{}{
			"level":     string(plan.Level),
			"plan_type": string(plan.PlanType),
			"version":   plan.Version,
		})
	})
	if err != nil {
		return nil, s.fail(action, err)
	}

	fields := []zap.Field{
		zap.String("plan_id", plan.PlanID),
		zap.String("action", string(tr.Action)),
		zap.String("actor_id", actor.UserID),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
	}
	if tr.ReviewerRole != nil {
		fields = append(fields, zap.String("reviewer_role", string(*tr.ReviewerRole)))
	}
	s.logger.Info("plan transition", fields...)
	return s.toResponse(plan, actor, false), nil
}

// ═══════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════

func (s *planService) ListPlans(ctx context.Context, actorID string, query *dto.PlanListQuery) ([]dto.PlanResponse, int64, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, 0, s.fail("load actor", err)
	}
	filter, err := planFilter(query)
	if err != nil {
		return nil, 0, err
	}

	scope := repository.Visibility{UserID: actor.UserID, Role: actor.Role, Levels: workflow.VisibleLevels(actor)}
	candidates, err := s.repo.Plan.ListVisible(ctx, scope, filter)
	if err != nil {
		return nil, 0, s.fail("list plans", err)
	}

	visible := make([]dto.PlanResponse, 0, len(candidates))
	for i := range candidates {
		if workflow.CanViewPlan(&candidates[i], actor) {
			visible = append(visible, *s.toResponse(&candidates[i], actor, false))
		}
	}

	query.Normalize()
	start, end := query.Window(len(visible))
	return visible[start:end], int64(len(visible)), nil
}

func (s *planService) History(ctx context.Context, actorID, planID string) ([]dto.ApprovalLogResponse, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, s.fail("load actor", err)
	}
	plan, err := s.repo.Plan.GetByID(ctx, planID)
	if err != nil {
		return nil, s.fail("load plan", notFound(err, ErrPlanNotFound))
	}
	if !workflow.CanViewPlan(plan, actor) {
		return nil, &workflow.PermissionError{Action: "view plan history", Reason: "plan is not visible to you"}
	}
	logs, err := s.repo.ApprovalLog.ListBySubject(ctx, model.SubjectPlan, planID)
	if err != nil {
		return nil, s.fail("list approval logs", err)
	}
	return toLogResponses(logs), nil
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

// buildPlan turns the request into a validated plan tree authored by
// actor. Nothing is written.
func (s *planService) buildPlan(actor *model.User, req *dto.PlanRequest) (*model.Plan, error) {
	plan := &model.Plan{
		UserID:        actor.UserID,
		Level:         actor.Role,
		PlanType:      model.PlanType(req.PlanType),
		Year:          req.Year,
		WeekNumber:    req.WeekNumber,
		Month:         req.Month,
		QuarterNumber: req.QuarterNumber,
		Pillar:        actor.Pillar(),
		Status:        model.StatusDraft,
		Owner:         actor,
	}
	if err := workflow.ValidatePeriod(plan); err != nil {
		return nil, err
	}

	for _, g := range req.Goals {
		plan.Goals = append(plan.Goals, model.StrategicGoal{Title: g.Title})
	}

	for _, in := range req.KPIs {
		k := model.KPI{
			Name:            in.Name,
			MeasurementUnit: in.MeasurementUnit,
			Baseline:        in.Baseline,
			Target:          in.Target,
		}
		if in.Target < 0 {
			return nil, &workflow.ValidationError{Field: fmt.Sprintf("kpis[%s].target", in.Name), Message: "must not be negative"}
		}
		targets := workflow.QuarterlyTargets{Q1: in.TargetQ1, Q2: in.TargetQ2, Q3: in.TargetQ3, Q4: in.TargetQ4}
		if err := s.engine.TargetPolicy.ApplyTargets(plan.PlanType, &k, targets); err != nil {
			return nil, err
		}
		plan.KPIs = append(plan.KPIs, k)
	}

	for _, in := range req.MajorActivities {
		ma := model.MajorActivity{
			Name:          in.Name,
			ResponsibleID: in.ResponsibleID,
			Weight:        in.Weight,
			Budget:        in.Budget,
		}
		for _, d := range in.Details {
			status := model.ActivityStatus(d.Status)
			if status == "" {
				status = model.ActivityPending
			}
			ma.Details = append(ma.Details, model.DetailActivity{
				Description:   d.Description,
				Weight:        d.Weight,
				Budget:        d.Budget,
				ResponsibleID: d.ResponsibleID,
				Status:        status,
			})
		}
		plan.MajorActivities = append(plan.MajorActivities, ma)
	}
	if err := s.engine.Allocation.ValidateActivities(plan.MajorActivities); err != nil {
		return nil, err
	}
	return plan, nil
}

func planFilter(q *dto.PlanListQuery) (repository.PlanFilter, error) {
	var f repository.PlanFilter
	if q.Status != "" {
		st := model.Status(q.Status)
		f.Status = &st
	}
	if q.PlanType != "" {
		pt := model.PlanType(q.PlanType)
		if !pt.Valid() {
			return f, &workflow.ValidationError{Field: "plan_type", Message: "unknown plan type " + q.PlanType}
		}
		f.PlanType = &pt
	}
	if q.Level != "" {
		lv := model.Role(q.Level)
		if !lv.Valid() {
			return f, &workflow.ValidationError{Field: "level", Message: "unknown role " + q.Level}
		}
		f.Level = &lv
	}
	if q.Year > 0 {
		y := q.Year
		f.Year = &y
	}
	return f, nil
}

func (s *planService) toResponse(plan *model.Plan, actor *model.User, withTree bool) *dto.PlanResponse {
	resp := &dto.PlanResponse{
		ID:                  plan.PlanID,
		Owner:               toUserBrief(plan.Owner),
		Level:               string(plan.Level),
		PlanType:            string(plan.PlanType),
		Year:                plan.Year,
		WeekNumber:          plan.WeekNumber,
		Month:               plan.Month,
		QuarterNumber:       plan.QuarterNumber,
		Pillar:              roleString(plan.Pillar),
		Status:              string(plan.Status),
		CurrentReviewerRole: roleString(plan.CurrentReviewerRole),
		ReviewComments:      plan.ReviewComments,
		CanEdit:             s.engine.Plans.CanEdit(plan, actor),
		CanApprove:          s.engine.Plans.CanApprove(plan, actor),
		Version:             plan.Version,
		CreatedAt:           plan.CreatedAt.Format(timeLayout),
		UpdatedAt:           plan.UpdatedAt.Format(timeLayout),
	}
	// a partial route is still useful when the pillar is missing
	route, _ := s.engine.Graph.Chain(plan.Level, plan.EffectivePillar())
	for _, r := range route {
		resp.ApprovalRoute = append(resp.ApprovalRoute, string(r))
	}
	if !withTree {
		return resp
	}

	for _, g := range plan.Goals {
		resp.Goals = append(resp.Goals, dto.GoalResponse{ID: g.GoalID, Title: g.Title})
	}
	for _, k := range plan.KPIs {
		resp.KPIs = append(resp.KPIs, dto.KPIResponse{
			ID:              k.KPIID,
			Name:            k.Name,
			MeasurementUnit: k.MeasurementUnit,
			Baseline:        k.Baseline,
			Target:          k.Target,
			TargetQ1:        k.TargetQ1,
			TargetQ2:        k.TargetQ2,
			TargetQ3:        k.TargetQ3,
			TargetQ4:        k.TargetQ4,
		})
	}
	for i := range plan.MajorActivities {
		ma := &plan.MajorActivities[i]
		out := dto.MajorActivityResponse{
			ID:            ma.MajorActivityID,
			Name:          ma.Name,
			ResponsibleID: ma.ResponsibleID,
			Weight:        ma.Weight,
			ChildWeight:   ma.ChildWeight(),
			Budget:        ma.Budget,
			Details:       make([]dto.DetailActivityResponse, 0, len(ma.Details)),
		}
		for _, d := range ma.Details {
			out.Details = append(out.Details, dto.DetailActivityResponse{
				ID:            d.DetailActivityID,
				Description:   d.Description,
				Weight:        d.Weight,
				Budget:        d.Budget,
				ResponsibleID: d.ResponsibleID,
				Status:        string(d.Status),
			})
		}
		resp.MajorActivities = append(resp.MajorActivities, out)
	}
	return resp
}

// fail logs unexpected errors and passes every error through unchanged.
func (s *planService) fail(op string, err error) error {
	if !isExpected(err) {
		s.logger.Error("plan service: "+op+" failed", zap.Error(err))
	}
	return err
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func toLogResponses(logs []model.ApprovalLog) []dto.ApprovalLogResponse {
	out := make([]dto.ApprovalLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ApprovalLogResponse{
			ID:           l.ApprovalLogID,
			Action:       l.Action,
			ActorID:      l.ActorID,
			ActorRole:    string(l.ActorRole),
			FromStatus:   string(l.FromStatus),
			ToStatus:     string(l.ToStatus),
			ReviewerRole: roleString(l.ReviewerRole),
			Comment:      l.Comment,
			Details:      l.Details,
			CreatedAt:    l.CreatedAt.Format(timeLayout),
		})
	}
	return out
}
