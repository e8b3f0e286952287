package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject types recorded in approval_logs.
const (
	SubjectPlan   = "plan"
	SubjectReport = "report"
)

// ApprovalLog maps to approval_logs, an append-only trail of workflow
// transitions written in the same transaction as the transition.
type ApprovalLog struct {
	ApprovalLogID string            `gorm:"type:uuid;primaryKey"                       json:"approval_log_id"`
	SubjectType   string            `gorm:"type:varchar(10);not null;index:idx_subject" json:"subject_type"`
	SubjectID     string            `gorm:"type:uuid;not null;index:idx_subject"       json:"subject_id"`
	Action        string            `gorm:"type:varchar(20);not null"                  json:"action"`
	ActorID       string            `gorm:"type:uuid;not null"                         json:"actor_id"`
	ActorRole     Role              `gorm:"type:varchar(40);not null"                  json:"actor_role"`
	FromStatus    Status            `gorm:"type:varchar(20);not null"                  json:"from_status"`
	ToStatus      Status            `gorm:"type:varchar(20);not null"                  json:"to_status"`
	ReviewerRole  *Role             `gorm:"type:varchar(40)"                           json:"reviewer_role,omitempty"`
	Comment       *string           `gorm:"type:text"                                  json:"comment,omitempty"`
	Details       datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
}

func (ApprovalLog) TableName() string { return "approval_logs" }

func (l *ApprovalLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ApprovalLogID)
	return nil
}
