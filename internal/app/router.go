package app

import (
	"yachai_backend/docs"
	"yachai_backend/internal/config"
	"yachai_backend/internal/middleware"
	"yachai_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/users/leaderboard", c.user.GetLeaderboard)
	}

	// 需要登录的路由
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/profile", c.user.GetProfile)

		users := authorized.Group("/users")
		{
			users.GET("/:id", c.user.GetUser)
			users.GET("/username/:username", c.user.GetUserByUsername)
			users.GET("/:id/statistics", c.user.GetStatistics)
			users.GET("/:id/achievements", c.user.GetAchievements)
			users.GET("/:id/sessions", c.game.ListUserSessions)
			users.POST("/avatar/upload", c.user.UploadAvatar)
		}

		games := authorized.Group("/games")
		{
			games.POST("/start", c.game.StartGame)
			games.GET("/:sessionId", c.game.GetSession)
			games.POST("/:sessionId/submit", c.game.SubmitGame)
		}

		ai := authorized.Group("/ai")
		{
			ai.POST("/generate-content", c.ai.GenerateContent)
			ai.POST("/generate-feedback", c.ai.GenerateFeedback)
			ai.POST("/analyze-intelligence", c.ai.AnalyzeIntelligence)
		}
	}
}
