package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rehabib/plan-report-tourism/internal/model"
	pkgerrors "github.com/rehabib/plan-report-tourism/pkg/errors"
)

// ReportFilter narrows report listings. Nil fields are ignored.
type ReportFilter struct {
	PlanID *string
	Status *model.Status
}

// ReportRepository is the data access interface for reports and their
// KPI and activity rows.
type ReportRepository interface {
	// FindByKey looks a report up by its get-or-create key.
	FindByKey(ctx context.Context, planID, userID string, period model.PlanType) (*model.Report, error)
	// CreateTree inserts the report with all KPI, activity and detail rows.
	CreateTree(ctx context.Context, report *model.Report) error
	// GetByID loads the report with its owner and its plan's owner.
	GetByID(ctx context.Context, id string) (*model.Report, error)
	// GetTree is GetByID plus every KPI, activity and detail row.
	GetTree(ctx context.Context, id string) (*model.Report, error)
	// UpdateContent saves the author's edits under the optimistic lock.
	UpdateContent(ctx context.Context, report *model.Report) error
	// UpdateStatus persists a workflow transition under the optimistic lock.
	UpdateStatus(ctx context.Context, report *model.Report) error
	ListVisible(ctx context.Context, scope Visibility, filter ReportFilter) ([]model.Report, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) FindByKey(ctx context.Context, planID, userID string, period model.PlanType) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND user_id = ? AND reporting_period = ?", planID, userID, period).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) CreateTree(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(report).Error; err != nil {
			return err
		}
		for i := range report.KPIReports {
			report.KPIReports[i].ReportID = report.ReportID
		}
		if len(report.KPIReports) > 0 {
			if err := tx.Omit(clause.Associations).Create(&report.KPIReports).Error; err != nil {
				return err
			}
		}
		for i := range report.ActivityReports {
			ar := &report.ActivityReports[i]
			ar.ReportID = report.ReportID
			if err := tx.Omit(clause.Associations).Create(ar).Error; err != nil {
				return err
			}
			for j := range ar.DetailReports {
				ar.DetailReports[j].ActivityReportID = ar.ActivityReportID
			}
			if len(ar.DetailReports) > 0 {
				if err := tx.Omit(clause.Associations).Create(&ar.DetailReports).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Plan.Owner.Department").
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) GetTree(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Plan.Owner.Department").
		Preload("KPIReports.KPI").
		Preload("ActivityReports.MajorActivity").
		Preload("ActivityReports.DetailReports.DetailActivity").
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) UpdateContent(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := report.Version
		result := tx.Model(&model.Report{}).
			Where("report_id = ? AND version = ?", report.ReportID, oldVersion).
			Updates(map[string]interface{}{
				"overall_comment": report.OverallComment,
				"submission_date": report.SubmissionDate,
				"updated_by":      report.UpdatedBy,
				"version":         oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		for i := range report.KPIReports {
			kr := &report.KPIReports[i]
			err := tx.Model(&model.KPIReport{}).
				Where("kpi_report_id = ? AND report_id = ?", kr.KPIReportID, report.ReportID).
				Updates(map[string]interface{}{
					"actual_value":        kr.ActualValue,
					"achievement_percent": kr.AchievementPercent,
					"remark":              kr.Remark,
				}).Error
			if err != nil {
				return err
			}
		}
		for i := range report.ActivityReports {
			ar := &report.ActivityReports[i]
			err := tx.Model(&model.MajorActivityReport{}).
				Where("activity_report_id = ? AND report_id = ?", ar.ActivityReportID, report.ReportID).
				Updates(map[string]interface{}{
					"progress":           ar.Progress,
					"actual_budget_used": ar.ActualBudgetUsed,
					"challenge":          ar.Challenge,
					"mitigation":         ar.Mitigation,
				}).Error
			if err != nil {
				return err
			}
			for j := range ar.DetailReports {
				dr := &ar.DetailReports[j]
				err := tx.Model(&model.DetailActivityReport{}).
					Where("detail_report_id = ? AND activity_report_id = ?", dr.DetailReportID, ar.ActivityReportID).
					Updates(map[string]interface{}{
						"status":  dr.Status,
						"comment": dr.Comment,
					}).Error
				if err != nil {
					return err
				}
			}
		}
		report.Version = oldVersion + 1
		return nil
	})
}

func (r *reportRepo) UpdateStatus(ctx context.Context, report *model.Report) error {
	oldVersion := report.Version
	result := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("report_id = ? AND version = ?", report.ReportID, oldVersion).
		Updates(map[string]interface{}{
			"status":           report.Status,
			"reviewer_comment": report.ReviewerComment,
			"updated_by":       report.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	report.Version = oldVersion + 1
	return nil
}

func (r *reportRepo) ListVisible(ctx context.Context, scope Visibility, filter ReportFilter) ([]model.Report, error) {
	shared := r.db.Where("plans.user_id = ?", scope.UserID).
		Or("plans.status IN ? AND plans.current_reviewer_role = ?", inReviewStatuses, scope.Role)
	if len(scope.Levels) > 0 {
		shared = shared.Or("plans.level IN ?", scope.Levels)
	}
	visible := r.db.Where("reports.user_id = ?", scope.UserID).
		Or(r.db.Where("reports.status <> ?", model.StatusDraft).Where(shared))

	db := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Joins("JOIN plans ON plans.plan_id = reports.plan_id").
		Where(visible)
	if filter.PlanID != nil {
		db = db.Where("reports.plan_id = ?", *filter.PlanID)
	}
	if filter.Status != nil {
		db = db.Where("reports.status = ?", *filter.Status)
	}

	var reports []model.Report
	err := db.Preload("Owner").
		Preload("Plan.Owner.Department").
		Preload("ActivityReports").
		Order("reports.created_at DESC").
		Find(&reports).Error
	return reports, err
}

// deleteReportChildren removes the KPI, activity and detail rows of the
// given reports.
func deleteReportChildren(tx *gorm.DB, reportIDs []string) error {
	if len(reportIDs) == 0 {
		return nil
	}
	activityReports := tx.Model(&model.MajorActivityReport{}).
		Select("activity_report_id").
		Where("report_id IN ?", reportIDs)
	if err := tx.Where("activity_report_id IN (?)", activityReports).Delete(&model.DetailActivityReport{}).Error; err != nil {
		return err
	}
	if err := tx.Where("report_id IN ?", reportIDs).Delete(&model.MajorActivityReport{}).Error; err != nil {
		return err
	}
	return tx.Where("report_id IN ?", reportIDs).Delete(&model.KPIReport{}).Error
}
