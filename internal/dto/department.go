package dto

// CreateDepartmentRequest registers a department. Pillar is required for
// departments whose plans go past the department head.
type CreateDepartmentRequest struct {
	Name   string  `json:"name"   binding:"required,max=200"`
	Pillar *string `json:"pillar" binding:"omitempty,oneof=corporate state-minister-destination state-minister-promotion"`
}
