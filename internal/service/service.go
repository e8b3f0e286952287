package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
	pkgerrors "github.com/rehabib/plan-report-tourism/pkg/errors"
	"github.com/rehabib/plan-report-tourism/pkg/jwt"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrPlanNotFound   = errors.New("plan not found")
	ErrReportNotFound = errors.New("report not found")
)

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service is the aggregate of every service.
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Plan       PlanService
	Report     ReportService
	Export     ExportService
}

// NewService builds the services. blacklist may be nil when Redis is
// disabled; logout then only affects the client.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) (*Service, error) {
	engine, err := NewEngine(&cfg.Workflow)
	if err != nil {
		return nil, err
	}
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:       NewUserService(repo, logger),
		Department: NewDepartmentService(repo, logger),
		Plan:       NewPlanService(repo, engine, logger),
		Report:     NewReportService(repo, engine, logger),
		Export:     NewExportService(repo, engine, logger),
	}, nil
}

// Engine bundles the workflow components configured for one deployment.
type Engine struct {
	Graph        *workflow.RoleGraph
	Plans        *workflow.PlanWorkflow
	Reports      *workflow.ReportWorkflow
	Allocation   *workflow.AllocationValidator
	TargetPolicy workflow.QuarterlyTargetPolicy
}

// NewEngine builds the workflow components from configuration.
func NewEngine(cfg *config.WorkflowConfig) (*Engine, error) {
	graph, err := workflow.NewRoleGraph(cfg.FinalApproverRoles())
	if err != nil {
		return nil, err
	}
	tolerance := workflow.DefaultWeightTolerance
	if cfg.WeightTolerance > 0 {
		tolerance = decimal.NewFromFloat(cfg.WeightTolerance)
	}
	policy := workflow.QuarterlyTargetPolicy(cfg.QuarterlyTargetPolicy)
	if policy == "" {
		policy = workflow.PolicyProgressive
	}
	return &Engine{
		Graph:        graph,
		Plans:        workflow.NewPlanWorkflow(graph),
		Reports:      workflow.NewReportWorkflow(graph),
		Allocation:   workflow.NewAllocationValidator(tolerance, cfg.EnforceDetailBudget),
		TargetPolicy: policy,
	}, nil
}

// ── shared helpers ──

func loadActor(ctx context.Context, repo *repository.Repository, userID string) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, &workflow.PermissionError{Action: "access", Reason: "account is disabled"}
	}
	return user, nil
}

// lockConflict turns a lost optimistic-lock race into a permission error
// so the caller reloads the document.
func lockConflict(err error, action string) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return &workflow.PermissionError{Action: action, Reason: "document was modified concurrently, reload and retry"}
	}
	return err
}

// isExpected reports whether err is a business outcome rather than a fault.
func isExpected(err error) bool {
	return errors.Is(err, workflow.ErrPermission) ||
		errors.Is(err, workflow.ErrValidation) ||
		errors.Is(err, workflow.ErrConfiguration) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrReportNotFound)
}

func recordTransition(
	ctx context.Context,
	repo *repository.Repository,
	subjectType, subjectID string,
	actor *model.User,
	tr *workflow.Transition,
	details map[string]interface{},
) error {
	return repo.ApprovalLog.Create(ctx, &model.ApprovalLog{
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		Action:       string(tr.Action),
		ActorID:      actor.UserID,
		ActorRole:    actor.Role,
		FromStatus:   tr.From,
		ToStatus:     tr.To,
		ReviewerRole: tr.ReviewerRole,
		Comment:      tr.Comment,
		Details:      details,
		CreatedAt:    time.Now(),
	})
}

func roleString(r *model.Role) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

const timeLayout = time.RFC3339
