package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// PlanHandler serves plan authoring and review.
type PlanHandler struct {
	planSvc service.PlanService
}

func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListPlans returns the plans visible to the caller.
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.PlanListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}
	q.Normalize()

	list, total, err := h.planSvc.ListPlans(c.Request.Context(), userID, &q)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// CreatePlan
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "invalid request body")
		return
	}

	plan, err := h.planSvc.CreatePlan(c.Request.Context(), userID, &req)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.Created(c, plan)
}

// GetPlan
// GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	plan, err := h.planSvc.GetPlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, plan)
}

// UpdatePlan
// PUT /api/v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "invalid request body")
		return
	}

	plan, err := h.planSvc.UpdatePlan(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, plan)
}

// DeletePlan
// DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.planSvc.DeletePlan(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, nil)
}

// SubmitPlan
// POST /api/v1/plans/:id/submit
func (h *PlanHandler) SubmitPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	plan, err := h.planSvc.SubmitPlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, plan)
}

// ApprovePlan
// POST /api/v1/plans/:id/approve
func (h *PlanHandler) ApprovePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	plan, err := h.planSvc.ApprovePlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, plan)
}

// RejectPlan accepts an optional {"comment": "..."} body.
// POST /api/v1/plans/:id/reject
func (h *PlanHandler) RejectPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 12001, "invalid request body")
			return
		}
	}

	plan, err := h.planSvc.RejectPlan(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, plan)
}

// History lists the approval log of a plan.
// GET /api/v1/plans/:id/history
func (h *PlanHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	logs, err := h.planSvc.History(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, gin.H{"list": logs})
}
