package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository.
type Repository struct {
	User        UserRepository
	Department  DepartmentRepository
	Plan        PlanRepository
	Report      ReportRepository
	ApprovalLog ApprovalLogRepository
	Tx          Transactor
}

// Transactor runs fn inside one database transaction. The Repository
// passed to fn is bound to that transaction; fn returning an error rolls
// everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error
}

// NewRepository creates the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Department:  NewDepartmentRepo(db),
		Plan:        NewPlanRepo(db),
		Report:      NewReportRepo(db),
		ApprovalLog: NewApprovalLogRepo(db),
		Tx:          &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepository(tx))
	})
}
