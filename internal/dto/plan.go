package dto

import (
	"github.com/shopspring/decimal"
)

// ── plan requests ──

// PlanRequest creates a plan or replaces the content of an editable one.
type PlanRequest struct {
	PlanType        string               `json:"plan_type"        binding:"required,oneof=weekly monthly quarterly yearly"`
	Year            int                  `json:"year"             binding:"required"`
	WeekNumber      *int                 `json:"week_number"`
	Month           *int                 `json:"month"`
	QuarterNumber   *int                 `json:"quarter_number"`
	Goals           []GoalInput          `json:"goals"            binding:"dive"`
	KPIs            []KPIInput           `json:"kpis"             binding:"dive"`
	MajorActivities []MajorActivityInput `json:"major_activities" binding:"dive"`
}

type GoalInput struct {
	Title string `json:"title" binding:"required,max=500"`
}

// KPIInput carries the quarterly targets of yearly plans. They are ignored
// for other plan types.
type KPIInput struct {
	Name            string   `json:"name"             binding:"required,max=300"`
	MeasurementUnit string   `json:"measurement_unit" binding:"max=50"`
	Baseline        float64  `json:"baseline"`
	Target          float64  `json:"target"`
	TargetQ1        *float64 `json:"target_q1"`
	TargetQ2        *float64 `json:"target_q2"`
	TargetQ3        *float64 `json:"target_q3"`
	TargetQ4        *float64 `json:"target_q4"`
}

type MajorActivityInput struct {
	Name          string                `json:"name"           binding:"required,max=300"`
	ResponsibleID *string               `json:"responsible_id"`
	Weight        decimal.Decimal       `json:"weight"`
	Budget        decimal.Decimal       `json:"budget"`
	Details       []DetailActivityInput `json:"details"        binding:"dive"`
}

type DetailActivityInput struct {
	Description   string          `json:"description"    binding:"required"`
	Weight        decimal.Decimal `json:"weight"`
	Budget        decimal.Decimal `json:"budget"`
	ResponsibleID *string         `json:"responsible_id"`
	Status        string          `json:"status"         binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// PlanListQuery filters GET /plans.
type PlanListQuery struct {
	PageQuery
	Status   string `form:"status"`
	PlanType string `form:"plan_type"`
	Level    string `form:"level"`
	Year     int    `form:"year"`
}

// ── plan responses ──

// PlanResponse is a plan as seen by the requesting user.
type PlanResponse struct {
	ID                  string                  `json:"id"`
	Owner               *UserBrief              `json:"owner,omitempty"`
	Level               string                  `json:"level"`
	PlanType            string                  `json:"plan_type"`
	Year                int                     `json:"year"`
	WeekNumber          *int                    `json:"week_number,omitempty"`
	Month               *int                    `json:"month,omitempty"`
	QuarterNumber       *int                    `json:"quarter_number,omitempty"`
	Pillar              *string                 `json:"pillar,omitempty"`
	Status              string                  `json:"status"`
	CurrentReviewerRole *string                 `json:"current_reviewer_role,omitempty"`
	ReviewComments      *string                 `json:"review_comments,omitempty"`
	ApprovalRoute       []string                `json:"approval_route,omitempty"`
	CanEdit             bool                    `json:"can_edit"`
	CanApprove          bool                    `json:"can_approve"`
	Version             int                     `json:"version"`
	CreatedAt           string                  `json:"created_at"`
	UpdatedAt           string                  `json:"updated_at"`
	Goals               []GoalResponse          `json:"goals,omitempty"`
	KPIs                []KPIResponse           `json:"kpis,omitempty"`
	MajorActivities     []MajorActivityResponse `json:"major_activities,omitempty"`
}

type GoalResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type KPIResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Baseline        float64 `json:"baseline"`
	Target          float64 `json:"target"`
	TargetQ1        float64 `json:"target_q1"`
	TargetQ2        float64 `json:"target_q2"`
	TargetQ3        float64 `json:"target_q3"`
	TargetQ4        float64 `json:"target_q4"`
}

type MajorActivityResponse struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	ResponsibleID *string                  `json:"responsible_id,omitempty"`
	Weight        decimal.Decimal          `json:"weight"`
	ChildWeight   decimal.Decimal          `json:"child_weight"`
	Budget        decimal.Decimal          `json:"budget"`
	Details       []DetailActivityResponse `json:"details"`
}

type DetailActivityResponse struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Weight        decimal.Decimal `json:"weight"`
	Budget        decimal.Decimal `json:"budget"`
	ResponsibleID *string         `json:"responsible_id,omitempty"`
	Status        string          `json:"status"`
}
