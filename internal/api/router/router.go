package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/api/handler"
	"github.com/rehabib/plan-report-tourism/internal/api/middleware"
	"github.com/rehabib/plan-report-tourism/pkg/jwt"
	"github.com/rehabib/plan-report-tourism/pkg/redis"
)

// maxBodyBytes caps request bodies. A yearly plan with its full tree is
// well under this.
const maxBodyBytes = 2 << 20

// Setup builds the Gin engine. rdb may be nil, which disables the token
// blacklist and login rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(cors.New(corsConfig(cfg.Server.CORS.AllowOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login",
			middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow),
			h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			plans := authorized.Group("/plans")
			{
				plans.GET("", h.Plan.ListPlans)
				plans.POST("", h.Plan.CreatePlan)
				plans.GET("/:id", h.Plan.GetPlan)
				plans.PUT("/:id", h.Plan.UpdatePlan)
				plans.DELETE("/:id", h.Plan.DeletePlan)
				plans.POST("/:id/submit", h.Plan.SubmitPlan)
				plans.POST("/:id/approve", h.Plan.ApprovePlan)
				plans.POST("/:id/reject", h.Plan.RejectPlan)
				plans.GET("/:id/history", h.Plan.History)
				plans.POST("/:id/reports", h.Report.CreateReport)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("", h.Report.ListReports)
				reports.GET("/:id", h.Report.GetReport)
				reports.PUT("/:id", h.Report.UpdateReport)
				reports.POST("/:id/submit", h.Report.SubmitReport)
				reports.POST("/:id/approve", h.Report.ApproveReport)
				reports.POST("/:id/reject", h.Report.RejectReport)
				reports.GET("/:id/history", h.Report.History)
			}

			export := authorized.Group("/export")
			{
				export.GET("/plans/:id", h.Export.ExportPlan)
				export.GET("/reports/:id", h.Export.ExportReport)
			}
		}
	}

	return r
}

// corsConfig allows any origin without credentials when none are
// configured; gin-contrib/cors rejects an empty origin list.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}
