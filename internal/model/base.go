package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel holds the audit columns embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// VersionedModel adds an optimistic-lock counter. Writers must match
// the version they read and bump it in the same UPDATE.
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// assignID fills an empty primary key. Keys are generated in Go so
// PostgreSQL and SQLite behave the same.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// initVersion starts a fresh row at version 1 instead of relying on the
// column default, which not every driver reads back after INSERT.
func initVersion(v *VersionedModel) {
	if v.Version == 0 {
		v.Version = 1
	}
}
