package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// ApprovalLogRepository stores the workflow audit trail.
type ApprovalLogRepository interface {
	Create(ctx context.Context, log *model.ApprovalLog) error
	ListBySubject(ctx context.Context, subjectType, subjectID string) ([]model.ApprovalLog, error)
}

type approvalLogRepo struct {
	db *gorm.DB
}

func NewApprovalLogRepo(db *gorm.DB) ApprovalLogRepository {
	return &approvalLogRepo{db: db}
}

func (r *approvalLogRepo) Create(ctx context.Context, log *model.ApprovalLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *approvalLogRepo) ListBySubject(ctx context.Context, subjectType, subjectID string) ([]model.ApprovalLog, error) {
	var logs []model.ApprovalLog
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
