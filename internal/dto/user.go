package dto

// CreateUserRequest provisions an account.
type CreateUserRequest struct {
	Username   string `json:"username"   binding:"required,max=150"`
	FullName   string `json:"full_name"  binding:"max=200"`
	Email      string `json:"email"      binding:"omitempty,email"`
	Password   string `json:"password"   binding:"required,min=8"`
	Role       string `json:"role"       binding:"required"`
	Department string `json:"department"` // department name, optional for executives
}
