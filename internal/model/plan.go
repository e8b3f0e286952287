package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan maps to plans. Status and CurrentReviewerRole are written only
// by workflow transitions.
type Plan struct {
	PlanID              string   `gorm:"type:uuid;primaryKey"                        json:"plan_id"`
	UserID              string   `gorm:"type:uuid;not null;index"                    json:"user_id"`
	Level               Role     `gorm:"type:varchar(40);not null;index"             json:"level"`
	PlanType            PlanType `gorm:"type:varchar(20);not null"                   json:"plan_type"`
	Year                int      `gorm:"not null"                                    json:"year"`
	WeekNumber          *int     `gorm:"type:smallint"                               json:"week_number,omitempty"`
	Month               *int     `gorm:"type:smallint"                               json:"month,omitempty"` // fiscal month, 1 = July
	QuarterNumber       *int     `gorm:"type:smallint"                               json:"quarter_number,omitempty"`
	Pillar              *Role    `gorm:"type:varchar(40)"                            json:"pillar,omitempty"`
	Status              Status   `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	CurrentReviewerRole *Role    `gorm:"type:varchar(40);index"                      json:"current_reviewer_role,omitempty"`
	ReviewComments      *string  `gorm:"type:text"                                   json:"review_comments,omitempty"`
	VersionedModel

	Owner           *User           `gorm:"foreignKey:UserID;references:UserID" json:"owner,omitempty"`
	Goals           []StrategicGoal `gorm:"foreignKey:PlanID"                   json:"goals,omitempty"`
	KPIs            []KPI           `gorm:"foreignKey:PlanID"                   json:"kpis,omitempty"`
	MajorActivities []MajorActivity `gorm:"foreignKey:PlanID"                   json:"major_activities,omitempty"`
}

// TableName returns the table name.
func (Plan) TableName() string { return "plans" }

func (p *Plan) BeforeCreate(*gorm.DB) error {
	assignID(&p.PlanID)
	initVersion(&p.VersionedModel)
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return nil
}

// EffectivePillar is the plan's own pillar, falling back to the pillar of
// its owner's department when the plan predates pillar stamping.
func (p *Plan) EffectivePillar() *Role {
	if p.Pillar != nil && *p.Pillar != "" {
		return p.Pillar
	}
	return p.Owner.Pillar()
}

// StrategicGoal maps to strategic_goals.
type StrategicGoal struct {
	GoalID string `gorm:"type:uuid;primaryKey"       json:"goal_id"`
	PlanID string `gorm:"type:uuid;not null;index"   json:"plan_id"`
	Title  string `gorm:"type:varchar(500);not null" json:"title"`
	BaseModel
}

func (StrategicGoal) TableName() string { return "strategic_goals" }

func (g *StrategicGoal) BeforeCreate(*gorm.DB) error {
	assignID(&g.GoalID)
	return nil
}

// KPI maps to kpis. The quarterly targets are meaningful only on yearly
// plans and are stored as zero otherwise.
type KPI struct {
	KPIID           string  `gorm:"column:kpi_id;type:uuid;primaryKey"   json:"kpi_id"`
	PlanID          string  `gorm:"type:uuid;not null;index"             json:"plan_id"`
	Name            string  `gorm:"type:varchar(300);not null"           json:"name"`
	MeasurementUnit string  `gorm:"type:varchar(50);not null;default:''" json:"measurement_unit"`
	Baseline        float64 `gorm:"not null;default:0"                   json:"baseline"`
	Target          float64 `gorm:"not null;default:0"                   json:"target"`
	TargetQ1        float64 `gorm:"column:target_q1;not null;default:0"  json:"target_q1"`
	TargetQ2        float64 `gorm:"column:target_q2;not null;default:0"  json:"target_q2"`
	TargetQ3        float64 `gorm:"column:target_q3;not null;default:0"  json:"target_q3"`
	TargetQ4        float64 `gorm:"column:target_q4;not null;default:0"  json:"target_q4"`
	BaseModel
}

func (KPI) TableName() string { return "kpis" }

func (k *KPI) BeforeCreate(*gorm.DB) error {
	assignID(&k.KPIID)
	return nil
}

// QuarterTarget returns the target for quarter 1..4, zero otherwise.
func (k *KPI) QuarterTarget(q int) float64 {
	switch q {
	case 1:
		return k.TargetQ1
	case 2:
		return k.TargetQ2
	case 3:
		return k.TargetQ3
	case 4:
		return k.TargetQ4
	}
	return 0
}

// MajorActivity maps to major_activities. Weight and Budget are the
// authored totals that the detail activities must add up to.
type MajorActivity struct {
	MajorActivityID string          `gorm:"type:uuid;primaryKey"                   json:"major_activity_id"`
	PlanID          string          `gorm:"type:uuid;not null;index"               json:"plan_id"`
	Name            string          `gorm:"type:varchar(300);not null"             json:"name"`
	ResponsibleID   *string         `gorm:"type:uuid"                              json:"responsible_id,omitempty"`
	Weight          decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"   json:"weight"`
	Budget          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"  json:"budget"`
	BaseModel

	Details []DetailActivity `gorm:"foreignKey:MajorActivityID" json:"details,omitempty"`
}

func (MajorActivity) TableName() string { return "major_activities" }

func (m *MajorActivity) BeforeCreate(*gorm.DB) error {
	assignID(&m.MajorActivityID)
	return nil
}

// ChildWeight sums the weights of the detail activities.
func (m *MajorActivity) ChildWeight() decimal.Decimal {
	sum := decimal.Zero
	for i := range m.Details {
		sum = sum.Add(m.Details[i].Weight)
	}
	return sum
}

// ChildBudget sums the budgets of the detail activities.
func (m *MajorActivity) ChildBudget() decimal.Decimal {
	sum := decimal.Zero
	for i := range m.Details {
		sum = sum.Add(m.Details[i].Budget)
	}
	return sum
}

// DetailActivity maps to detail_activities.
type DetailActivity struct {
	DetailActivityID string          `gorm:"type:uuid;primaryKey"                        json:"detail_activity_id"`
	MajorActivityID  string          `gorm:"type:uuid;not null;index"                    json:"major_activity_id"`
	Description      string          `gorm:"type:text;not null"                          json:"description"`
	Weight           decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"        json:"weight"`
	Budget           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"       json:"budget"`
	ResponsibleID    *string         `gorm:"type:uuid"                                   json:"responsible_id,omitempty"`
	Status           ActivityStatus  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	BaseModel
}

func (DetailActivity) TableName() string { return "detail_activities" }

func (d *DetailActivity) BeforeCreate(*gorm.DB) error {
	assignID(&d.DetailActivityID)
	if d.Status == "" {
		d.Status = ActivityPending
	}
	return nil
}
