package dto

// ── auth ──

// LoginRequest is the login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse describes the signed-in user.
type UserResponse struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	FullName   string              `json:"full_name"`
	Email      string              `json:"email"`
	Role       string              `json:"role"`
	Department *DepartmentResponse `json:"department,omitempty"`
}

type DepartmentResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Pillar *string `json:"pillar,omitempty"`
}

// UserBrief identifies a user inside other resources.
type UserBrief struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
