package app

import (
	"braingain_backend/docs"
	"braingain_backend/internal/config"
	"braingain_backend/pkg/monitoring"
	"braingain_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 学习者接口(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 管理后台
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/dashboard", c.dashboard.GetDashboard)
		public.GET("/rewards/total", c.dashboard.GetTotalRewards)

		materials := public.Group("/materials/:id")
		{
			materials.GET("", c.dashboard.GetMaterial)
			materials.GET("/cooldown", c.quiz.GetCooldown)
			materials.GET("/status", c.quiz.GetStatus)
			materials.POST("/quiz", append(quizStartLimiter(cfg), c.quiz.StartQuiz)...)
			materials.POST("/quiz/submit", c.quiz.SubmitQuiz)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	router.POST("/api/admin/login", c.admin.Login)

	admin := router.Group("/api/admin")
	admin.Use(a.adminAuth.Middleware())
	{
		admin.GET("/materials", c.admin.ListMaterials)
		admin.POST("/materials/video", c.admin.AddVideo)
		admin.POST("/materials/document", c.admin.AddDocument)
		admin.DELETE("/materials/:id", c.admin.DeleteMaterial)
		admin.GET("/logs", c.admin.GetLogs)
	}
}

// quizStartLimiter 出题消耗 LLM 配额，按 IP 单独限流
func quizStartLimiter(cfg *config.Config) []gin.HandlerFunc {
	if cfg.RateLimit.QuizStartPerMinute <= 0 {
		return nil
	}
	return []gin.HandlerFunc{security.RateLimiter(security.ScopeQuizStart, cfg.RateLimit.QuizStartPerMinute, time.Minute)}
}
