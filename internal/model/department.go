package model

import "gorm.io/gorm"

// Department maps to departments. Pillar selects which pillar role
// reviews the department's plans.
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey"        json:"department_id"`
	Name         string `gorm:"type:varchar(200);not null"  json:"name"`
	Pillar       *Role  `gorm:"type:varchar(40)"            json:"pillar,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"       json:"is_active"`
	BaseModel
}

// TableName returns the table name.
func (Department) TableName() string { return "departments" }

func (d *Department) BeforeCreate(*gorm.DB) error {
	assignID(&d.DepartmentID)
	return nil
}
