package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// AuthHandler serves the auth endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid username or password")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(c, 11002, "account is disabled")
		default:
			_ = c.Error(err)
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout revokes the current token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	response.OK(c, user)
}
