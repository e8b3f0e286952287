package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/internal/api/middleware"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// MustGetUserID extracts the caller set by JWTAuth. On false a 401 has
// already been written and the handler must return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// tokenInfo returns the id and expiry of the caller's access token.
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenID)
	var exp time.Time
	if v, ok := c.Get(middleware.CtxTokenExpiry); ok {
		exp, _ = v.(time.Time)
	}
	return jti, exp
}
