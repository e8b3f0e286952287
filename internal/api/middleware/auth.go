package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rehabib/plan-report-tourism/pkg/jwt"
	"github.com/rehabib/plan-report-tourism/pkg/redis"
	"github.com/rehabib/plan-report-tourism/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID       = "user_id"
	CtxRole         = "role"
	CtxDepartmentID = "department_id"
	CtxTokenID      = "token_id"
	CtxTokenExpiry  = "token_expiry"
)

// JWTAuth validates the Bearer access token and injects the caller's
// identity into the context. Revoked tokens are rejected when rdb is set;
// without Redis the blacklist check is skipped.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxDepartmentID, claims.DepartmentID)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}
