package routes

import (
	"course-feedback-api/controllers"
	"course-feedback-api/middleware"
	"course-feedback-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Password reset (staff accounts)
			public.POST("/password-reset/request", controllers.RequestPasswordReset)
			public.POST("/password-reset/confirm", controllers.ConfirmPasswordReset)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Course Feedback API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/me", controllers.Me)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Subject catalog
			protected.GET("/subjects", controllers.GetSubjects)

			// Feedback submission (students only)
			feedback := protected.Group("/feedback")
			{
				feedback.POST("", middleware.RequireRole(models.RoleStudent), controllers.SubmitFeedback)
				feedback.GET("/progress", middleware.RequireRole(models.RoleStudent), controllers.GetProgress)
				feedback.GET("/eligibility", middleware.RequireRole(models.RoleStudent), controllers.CheckEligibility)
			}

			// Analytics dashboards (admin and department heads)
			analytics := protected.Group("/analytics")
			analytics.Use(middleware.RequireRole(models.RoleAdmin, models.RoleHOD))
			{
				analytics.GET("", controllers.GetAnalytics)
				analytics.GET("/submissions", controllers.GetSubmissionRoster)
			}
		}
	}
}
