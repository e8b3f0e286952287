package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// Handler is the aggregate of every HTTP handler.
type Handler struct {
	Auth   *AuthHandler
	Plan   *PlanHandler
	Report *ReportHandler
	Export *ExportHandler
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Plan:   NewPlanHandler(svc.Plan),
		Report: NewReportHandler(svc.Report),
		Export: NewExportHandler(svc.Export),
	}
}

// handleWorkflowError maps service and workflow errors to responses.
// Configuration errors also match ErrValidation, so they are tested first.
func handleWorkflowError(c *gin.Context, err error) {
	var (
		weight *workflow.WeightMismatchError
		budget *workflow.BudgetExceededError
		verr   *workflow.ValidationError
	)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 10002, "unknown user")
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 12004, "plan not found")
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 13004, "report not found")
	case errors.Is(err, workflow.ErrPermission):
		response.Forbidden(c, 40301, err.Error())
	case errors.Is(err, workflow.ErrConfiguration):
		response.Unprocessable(c, 42204, "approval route is misconfigured", err.Error())
	case errors.As(err, &weight):
		response.Unprocessable(c, 42202, "detail weights do not match", err.Error())
	case errors.As(err, &budget):
		response.Unprocessable(c, 42203, "detail budgets exceed the activity budget", err.Error())
	case errors.As(err, &verr):
		response.Unprocessable(c, 42201, "validation failed", err.Error())
	case errors.Is(err, workflow.ErrValidation):
		response.Unprocessable(c, 42201, "validation failed", err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
