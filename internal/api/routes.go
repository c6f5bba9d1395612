package api

import (
	"net/http"

	"ironcoach/tri-planner/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	plannerService service.PlannerService,
	athleteService service.AthleteService,
	importService service.ImportService,
	backupService service.BackupService,
) {

	authHandler := NewAuthHandler(authService)
	plannerHandler := NewPlannerHandler(plannerService)
	athleteHandler := NewAthleteHandler(athleteService)
	logHandler := NewLogHandler(athleteService, importService)
	backupHandler := NewBackupHandler(backupService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Athlete Setup ---
		protected.GET("/profile", athleteHandler.GetProfile)
		protected.PUT("/profile", athleteHandler.SaveProfile)
		protected.GET("/preferences", athleteHandler.GetPreferences)
		protected.PUT("/preferences", athleteHandler.SavePreferences)

		// --- Season Planning ---
		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans/generate
			planGroup.POST("/generate", plannerHandler.GenerateSeason)
			// GET /api/v1/plans?start=YYYY-MM-DD&end=YYYY-MM-DD
			planGroup.GET("", plannerHandler.GetPlans)
			planGroup.DELETE("", plannerHandler.ClearPlans)
			// POST /api/v1/plans/validate
			planGroup.POST("/validate", plannerHandler.ValidatePlacement)
		}
		protected.POST("/budget/preview", plannerHandler.PreviewBudget)

		// --- Performance & Readiness ---
		protected.GET("/metrics", plannerHandler.GetMetrics)
		protected.GET("/readiness", plannerHandler.GetReadiness)

		// --- Completed Logs ---
		logGroup := protected.Group("/logs")
		{
			logGroup.GET("", logHandler.GetLogs)
			logGroup.POST("", logHandler.LogWorkout)
			// POST /api/v1/logs/import with the raw FIT file as the body
			logGroup.POST("/import", logHandler.ImportFIT)
		}

		// --- Wellness ---
		protected.GET("/wellness", athleteHandler.GetWellness)
		protected.GET("/wellness/history", athleteHandler.GetWellnessHistory)
		protected.PUT("/wellness", athleteHandler.SaveWellness)

		// --- Backups ---
		protected.POST("/backup", backupHandler.CreateBackup)
		protected.DELETE("/backup", backupHandler.DeleteBackup)
	}
}
