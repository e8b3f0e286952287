package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rehabib/plan-report-tourism/internal/model"
	pkgerrors "github.com/rehabib/plan-report-tourism/pkg/errors"
)

// PlanFilter narrows plan listings. Nil fields are ignored.
type PlanFilter struct {
	Status   *model.Status
	PlanType *model.PlanType
	Level    *model.Role
	Year     *int
}

// Visibility is the coarse visibility scope of an actor, used to narrow
// queries before the exact predicate runs in Go.
type Visibility struct {
	UserID string
	Role   model.Role
	Levels []model.Role
}

// PlanRepository is the data access interface for plans and their
// goal, KPI and activity trees.
type PlanRepository interface {
	// CreateTree inserts the plan with every goal, KPI, major and detail
	// activity attached to it.
	CreateTree(ctx context.Context, plan *model.Plan) error
	// ReplaceTree updates the plan header under the optimistic lock and
	// replaces all of its children.
	ReplaceTree(ctx context.Context, plan *model.Plan) error
	// GetByID loads the plan with its owner and the owner's department.
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	// GetTree is GetByID plus goals, KPIs and activities.
	GetTree(ctx context.Context, id string) (*model.Plan, error)
	// UpdateStatus persists a workflow transition under the optimistic lock.
	UpdateStatus(ctx context.Context, plan *model.Plan) error
	// Delete removes the plan, its children and its reports.
	Delete(ctx context.Context, id string) error
	ListVisible(ctx context.Context, scope Visibility, filter PlanFilter) ([]model.Plan, error)
}

type planRepo struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

var inReviewStatuses = []model.Status{model.StatusSubmitted, model.StatusResubmitted, model.StatusInReview}

func (r *planRepo) CreateTree(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(plan).Error; err != nil {
			return err
		}
		return createChildren(tx, plan)
	})
}

func (r *planRepo) ReplaceTree(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := plan.Version
		result := tx.Model(&model.Plan{}).
			Where("plan_id = ? AND version = ?", plan.PlanID, oldVersion).
			Updates(map[string]interface{}{
				"plan_type":      plan.PlanType,
				"year":           plan.Year,
				"week_number":    plan.WeekNumber,
				"month":          plan.Month,
				"quarter_number": plan.QuarterNumber,
				"pillar":         plan.Pillar,
				"updated_by":     plan.UpdatedBy,
				"version":        oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		if err := deleteChildren(tx, plan.PlanID); err != nil {
			return err
		}
		if err := createChildren(tx, plan); err != nil {
			return err
		}
		plan.Version = oldVersion + 1
		return nil
	})
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Preload("Owner.Department").
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetTree(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Preload("Owner.Department").
		Preload("Goals", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("KPIs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("MajorActivities", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("MajorActivities.Details", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) UpdateStatus(ctx context.Context, plan *model.Plan) error {
	oldVersion := plan.Version
	result := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("plan_id = ? AND version = ?", plan.PlanID, oldVersion).
		Updates(map[string]interface{}{
			"status":                plan.Status,
			"current_reviewer_role": plan.CurrentReviewerRole,
			"review_comments":       plan.ReviewComments,
			"updated_by":            plan.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version = oldVersion + 1
	return nil
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reportIDs []string
		if err := tx.Model(&model.Report{}).Where("plan_id = ?", id).Pluck("report_id", &reportIDs).Error; err != nil {
			return err
		}
		if err := deleteReportChildren(tx, reportIDs); err != nil {
			return err
		}
		if len(reportIDs) > 0 {
			if err := tx.Where("report_id IN ?", reportIDs).Delete(&model.Report{}).Error; err != nil {
				return err
			}
		}
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Where("plan_id = ?", id).Delete(&model.Plan{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *planRepo) ListVisible(ctx context.Context, scope Visibility, filter PlanFilter) ([]model.Plan, error) {
	visible := r.db.Where("plans.user_id = ?", scope.UserID).
		Or("plans.status IN ? AND plans.current_reviewer_role = ?", inReviewStatuses, scope.Role)
	if len(scope.Levels) > 0 {
		visible = visible.Or("plans.level IN ?", scope.Levels)
	}

	db := r.db.WithContext(ctx).Model(&model.Plan{}).Where(visible)
	if filter.Status != nil {
		db = db.Where("plans.status = ?", *filter.Status)
	}
	if filter.PlanType != nil {
		db = db.Where("plans.plan_type = ?", *filter.PlanType)
	}
	if filter.Level != nil {
		db = db.Where("plans.level = ?", *filter.Level)
	}
	if filter.Year != nil {
		db = db.Where("plans.year = ?", *filter.Year)
	}

	var plans []model.Plan
	err := db.Preload("Owner.Department").
		Order("plans.created_at DESC").
		Find(&plans).Error
	return plans, err
}

// ── tree helpers ──

func createChildren(tx *gorm.DB, plan *model.Plan) error {
	for i := range plan.Goals {
		plan.Goals[i].PlanID = plan.PlanID
	}
	if len(plan.Goals) > 0 {
		if err := tx.Create(&plan.Goals).Error; err != nil {
			return err
		}
	}
	for i := range plan.KPIs {
		plan.KPIs[i].PlanID = plan.PlanID
	}
	if len(plan.KPIs) > 0 {
		if err := tx.Create(&plan.KPIs).Error; err != nil {
			return err
		}
	}
	for i := range plan.MajorActivities {
		ma := &plan.MajorActivities[i]
		ma.PlanID = plan.PlanID
		if err := tx.Omit(clause.Associations).Create(ma).Error; err != nil {
			return err
		}
		for j := range ma.Details {
			ma.Details[j].MajorActivityID = ma.MajorActivityID
		}
		if len(ma.Details) > 0 {
			if err := tx.Create(&ma.Details).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deleteChildren(tx *gorm.DB, planID string) error {
	majors := tx.Model(&model.MajorActivity{}).Select("major_activity_id").Where("plan_id = ?", planID)
	if err := tx.Where("major_activity_id IN (?)", majors).Delete(&model.DetailActivity{}).Error; err != nil {
		return err
	}
	for _, m := range []interface{}{&model.MajorActivity{}, &model.KPI{}, &model.StrategicGoal{}} {
		if err := tx.Where("plan_id = ?", planID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
