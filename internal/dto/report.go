package dto

import (
	"github.com/shopspring/decimal"
)

// ── report requests ──

// UpdateReportRequest edits a draft or rejected report. Rows are matched
// by id; rows not listed keep their values.
type UpdateReportRequest struct {
	OverallComment  *string               `json:"overall_comment"`
	KPIReports      []KPIReportInput      `json:"kpi_reports"      binding:"dive"`
	ActivityReports []ActivityReportInput `json:"activity_reports" binding:"dive"`
}

type KPIReportInput struct {
	ID          string   `json:"id"           binding:"required"`
	ActualValue *float64 `json:"actual_value"`
	Remark      *string  `json:"remark"`
}

type ActivityReportInput struct {
	ID               string              `json:"id"                 binding:"required"`
	Progress         *decimal.Decimal    `json:"progress"`
	ActualBudgetUsed *decimal.Decimal    `json:"actual_budget_used"`
	Challenge        *string             `json:"challenge"`
	Mitigation       *string             `json:"mitigation"`
	Details          []DetailReportInput `json:"details"            binding:"dive"`
}

type DetailReportInput struct {
	ID      string  `json:"id"      binding:"required"`
	Status  string  `json:"status"  binding:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	Comment *string `json:"comment"`
}

// ReportListQuery filters GET /reports.
type ReportListQuery struct {
	PageQuery
	PlanID string `form:"plan_id"`
	Status string `form:"status"`
}

// ── report responses ──

type ReportResponse struct {
	ID              string                   `json:"id"`
	PlanID          string                   `json:"plan_id"`
	Owner           *UserBrief               `json:"owner,omitempty"`
	ReportingPeriod string                   `json:"reporting_period"`
	SubmissionDate  string                   `json:"submission_date"`
	OverallComment  *string                  `json:"overall_comment,omitempty"`
	Status          string                   `json:"status"`
	ReviewerComment *string                  `json:"reviewer_comment,omitempty"`
	ReviewerRole    *string                  `json:"reviewer_role,omitempty"`
	OverallProgress decimal.Decimal          `json:"overall_progress"`
	CanEdit         bool                     `json:"can_edit"`
	CanApprove      bool                     `json:"can_approve"`
	Version         int                      `json:"version"`
	CreatedAt       string                   `json:"created_at"`
	KPIReports      []KPIReportResponse      `json:"kpi_reports,omitempty"`
	ActivityReports []ActivityReportResponse `json:"activity_reports,omitempty"`
}

type KPIReportResponse struct {
	ID                 string   `json:"id"`
	KPIID              string   `json:"kpi_id"`
	KPIName            string   `json:"kpi_name"`
	MeasurementUnit    string   `json:"measurement_unit"`
	Target             float64  `json:"target"`
	ActualValue        *float64 `json:"actual_value,omitempty"`
	AchievementPercent float64  `json:"achievement_percent"`
	Remark             *string  `json:"remark,omitempty"`
}

type ActivityReportResponse struct {
	ID               string                 `json:"id"`
	MajorActivityID  string                 `json:"major_activity_id"`
	Name             string                 `json:"name"`
	Weight           decimal.Decimal        `json:"weight"`
	Budget           decimal.Decimal        `json:"budget"`
	Progress         decimal.NullDecimal    `json:"progress"`
	ActualBudgetUsed decimal.Decimal        `json:"actual_budget_used"`
	Challenge        *string                `json:"challenge,omitempty"`
	Mitigation       *string                `json:"mitigation,omitempty"`
	Details          []DetailReportResponse `json:"details"`
}

type DetailReportResponse struct {
	ID               string  `json:"id"`
	DetailActivityID string  `json:"detail_activity_id"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Comment          *string `json:"comment,omitempty"`
}
