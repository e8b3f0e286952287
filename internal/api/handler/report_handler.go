package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// ReportHandler serves progress reports.
type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// CreateReport returns 201 when the report was created and 200 when the
// caller already had one for the plan's period.
// POST /api/v1/plans/:id/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	report, created, err := h.reportSvc.CreateReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	if created {
		response.Created(c, report)
		return
	}
	response.OK(c, report)
}

// ListReports
// GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.ReportListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}
	q.Normalize()

	list, total, err := h.reportSvc.ListReports(c.Request.Context(), userID, &q)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// GetReport
// GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	report, err := h.reportSvc.GetReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, report)
}

// UpdateReport
// PUT /api/v1/reports/:id
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "invalid request body")
		return
	}

	report, err := h.reportSvc.UpdateReport(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, report)
}

// SubmitReport
// POST /api/v1/reports/:id/submit
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	report, err := h.reportSvc.SubmitReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, report)
}

// ApproveReport
// POST /api/v1/reports/:id/approve
func (h *ReportHandler) ApproveReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	report, err := h.reportSvc.ApproveReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, report)
}

// RejectReport
// POST /api/v1/reports/:id/reject
func (h *ReportHandler) RejectReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 13001, "invalid request body")
			return
		}
	}

	report, err := h.reportSvc.RejectReport(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, report)
}

// History
// GET /api/v1/reports/:id/history
func (h *ReportHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	logs, err := h.reportSvc.History(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, gin.H{"list": logs})
}
