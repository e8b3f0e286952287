package model

import "gorm.io/gorm"

// User maps to users.
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey"                          json:"user_id"`
	Username     string  `gorm:"type:varchar(150);not null;uniqueIndex"        json:"username"`
	FullName     string  `gorm:"type:varchar(200);not null;default:''"         json:"full_name"`
	Email        string  `gorm:"type:varchar(255);not null;default:''"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                    json:"-"`
	Role         Role    `gorm:"type:varchar(40);not null;default:'individual'" json:"role"`
	DepartmentID *string `gorm:"type:uuid;index"                               json:"department_id,omitempty"`
	DeskID       *string `gorm:"type:uuid"                                     json:"desk_id,omitempty"` // desk supervisor, optional
	IsActive     bool    `gorm:"not null;default:true"                         json:"is_active"`
	BaseModel

	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName returns the table name.
func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.UserID)
	return nil
}

// Pillar returns the pillar of the user's department, nil when the
// user has no department or the department is not attached to one.
// Department must be preloaded.
func (u *User) Pillar() *Role {
	if u == nil || u.Department == nil || u.Department.Pillar == nil {
		return nil
	}
	p := *u.Department.Pillar
	return &p
}

// SameDepartment reports whether both users belong to one department.
func (u *User) SameDepartment(other *User) bool {
	if u == nil || other == nil || u.DepartmentID == nil || other.DepartmentID == nil {
		return false
	}
	return *u.DepartmentID == *other.DepartmentID
}
