package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves Excel downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPlan
// GET /api/v1/export/plans/:id
func (h *ExportHandler) ExportPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportPlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeWorkbook(c, buf, filename)
}

// ExportReport
// GET /api/v1/export/reports/:id
func (h *ExportHandler) ExportReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	writeWorkbook(c, buf, filename)
}

func writeWorkbook(c *gin.Context, buf *bytes.Buffer, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	handleWorkflowError(c, err)
}
