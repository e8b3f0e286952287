package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report maps to reports. One report exists per
// (plan, user, reporting period).
type Report struct {
	ReportID        string    `gorm:"type:uuid;primaryKey"                                  json:"report_id"`
	PlanID          string    `gorm:"type:uuid;not null;uniqueIndex:uq_report_key"          json:"plan_id"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex:uq_report_key;index"    json:"user_id"`
	ReportingPeriod PlanType  `gorm:"type:varchar(20);not null;uniqueIndex:uq_report_key"   json:"reporting_period"`
	SubmissionDate  time.Time `gorm:"type:date;not null"                                    json:"submission_date"`
	OverallComment  *string   `gorm:"type:text"                                             json:"overall_comment,omitempty"`
	Status          Status    `gorm:"type:varchar(20);not null;default:'DRAFT';index"       json:"status"`
	ReviewerComment *string   `gorm:"type:text"                                             json:"reviewer_comment,omitempty"`
	VersionedModel

	Plan            *Plan                 `gorm:"foreignKey:PlanID;references:PlanID" json:"plan,omitempty"`
	Owner           *User                 `gorm:"foreignKey:UserID;references:UserID" json:"owner,omitempty"`
	KPIReports      []KPIReport           `gorm:"foreignKey:ReportID"                 json:"kpi_reports,omitempty"`
	ActivityReports []MajorActivityReport `gorm:"foreignKey:ReportID"                 json:"activity_reports,omitempty"`
}

// TableName returns the table name.
func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(*gorm.DB) error {
	assignID(&r.ReportID)
	initVersion(&r.VersionedModel)
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return nil
}

// OverallProgress is the mean of the reported activity progress values,
// zero when nothing has been reported yet.
func (r *Report) OverallProgress() decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for i := range r.ActivityReports {
		if p := r.ActivityReports[i].Progress; p.Valid {
			sum = sum.Add(p.Decimal)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// KPIReport maps to kpi_reports.
type KPIReport struct {
	KPIReportID        string   `gorm:"column:kpi_report_id;type:uuid;primaryKey" json:"kpi_report_id"`
	ReportID           string   `gorm:"type:uuid;not null;index"                  json:"report_id"`
	KPIID              string   `gorm:"column:kpi_id;type:uuid;not null"          json:"kpi_id"`
	ActualValue        *float64 `gorm:""                                          json:"actual_value,omitempty"`
	AchievementPercent float64  `gorm:"not null;default:0"                        json:"achievement_percent"`
	Remark             *string  `gorm:"type:text"                                 json:"remark,omitempty"`
	BaseModel

	KPI *KPI `gorm:"foreignKey:KPIID;references:KPIID" json:"kpi,omitempty"`
}

func (KPIReport) TableName() string { return "kpi_reports" }

func (k *KPIReport) BeforeCreate(*gorm.DB) error {
	assignID(&k.KPIReportID)
	return nil
}

// MajorActivityReport maps to major_activity_reports.
type MajorActivityReport struct {
	ActivityReportID string              `gorm:"type:uuid;primaryKey"                  json:"activity_report_id"`
	ReportID         string              `gorm:"type:uuid;not null;index"              json:"report_id"`
	MajorActivityID  string              `gorm:"type:uuid;not null"                    json:"major_activity_id"`
	Progress         decimal.NullDecimal `gorm:"type:numeric(5,2)"                     json:"progress"`
	ActualBudgetUsed decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"actual_budget_used"`
	Challenge        *string             `gorm:"type:text"                             json:"challenge,omitempty"`
	Mitigation       *string             `gorm:"type:text"                             json:"mitigation,omitempty"`
	BaseModel

	MajorActivity *MajorActivity         `gorm:"foreignKey:MajorActivityID;references:MajorActivityID" json:"major_activity,omitempty"`
	DetailReports []DetailActivityReport `gorm:"foreignKey:ActivityReportID"                           json:"detail_reports,omitempty"`
}

func (MajorActivityReport) TableName() string { return "major_activity_reports" }

func (m *MajorActivityReport) BeforeCreate(*gorm.DB) error {
	assignID(&m.ActivityReportID)
	return nil
}

// DetailActivityReport maps to detail_activity_reports.
type DetailActivityReport struct {
	DetailReportID   string             `gorm:"type:uuid;primaryKey"                            json:"detail_report_id"`
	ActivityReportID string             `gorm:"type:uuid;not null;index"                        json:"activity_report_id"`
	DetailActivityID string             `gorm:"type:uuid;not null"                              json:"detail_activity_id"`
	Status           DetailReportStatus `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`
	Comment          *string            `gorm:"type:text"                                       json:"comment,omitempty"`
	BaseModel

	DetailActivity *DetailActivity `gorm:"foreignKey:DetailActivityID;references:DetailActivityID" json:"detail_activity,omitempty"`
}

func (DetailActivityReport) TableName() string { return "detail_activity_reports" }

func (d *DetailActivityReport) BeforeCreate(*gorm.DB) error {
	assignID(&d.DetailReportID)
	if d.Status == "" {
		d.Status = DetailNotStarted
	}
	return nil
}
