package app

import (
	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/middleware"
	"skill_assess_backend/internal/model"
	"skill_assess_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 候选人接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/evaluations", c.evaluation.Start)
		authGroup.GET("/evaluations", c.evaluation.List)
		authGroup.GET("/evaluations/:id", c.evaluation.Get)
		authGroup.POST("/evaluations/:id/submit", c.evaluation.Submit)
		authGroup.GET("/evaluations/:id/expiry", c.evaluation.CheckExpiry)
		authGroup.GET("/evaluations/:id/weak-topics", c.remediation.ListWeakTopics)
		authGroup.GET("/evaluations/:id/retest", c.remediation.CanRetest)
		authGroup.GET("/weak-topics", c.remediation.ListMyWeakTopics)
		authGroup.PUT("/weak-topics/:id/status", c.remediation.UpdateWeakTopicStatus)
		authGroup.GET("/retests/pending", c.remediation.PendingRetest)
		authGroup.GET("/progress", c.progression.ListSkills)
		authGroup.GET("/progress/:skill", c.progression.GetProgress)
		authGroup.GET("/progress/:skill/unlocked", c.progression.IsUnlocked)
	}

	// 管理端接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/questions", c.question.Create)
		adminGroup.GET("/questions", c.question.List)
		adminGroup.GET("/questions/:id", c.question.Get)
		adminGroup.PUT("/questions/:id", c.question.Update)
		adminGroup.DELETE("/questions/:id", c.question.Delete)
		adminGroup.GET("/stats", c.stats.AttemptStats)
		adminGroup.GET("/stats/weak-topics", c.stats.WeakTopicStats)
	}
}
