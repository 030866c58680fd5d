// Package routes configures the HTTP route table
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ccslab/sitin/internal/app/controllers"
	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	sessionController *controllers.SessionController,
	adminSessionController *controllers.AdminSessionController,
	studentController *controllers.StudentController,
	announcementController *controllers.AnnouncementController,
	statsController *controllers.StatsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	v1.GET("/announcements", announcementController.ListActive)
	v1.GET("/languages", statsController.ListLanguages)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Student routes
	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
	{
		student.GET("/profile", studentController.GetProfile)
		student.PUT("/profile", studentController.UpdateProfile)

		student.POST("/sessions", sessionController.RequestSession)
		student.GET("/sessions", sessionController.ListMySessions)
		student.POST("/sessions/:id/cancel", sessionController.CancelSession)
		student.POST("/sessions/:id/feedback", sessionController.SubmitFeedback)
	}

	// Administrator routes
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		students := admin.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.GET("/:id", studentController.GetStudentDetail)
			students.DELETE("/:id", studentController.DeleteStudent)
			students.POST("/:id/end-sessions", adminSessionController.EndAllForStudent)
		}

		sessions := admin.Group("/sessions")
		{
			sessions.GET("/pending", adminSessionController.ListPending)
			sessions.GET("/active", adminSessionController.ListActive)
			sessions.GET("/current", adminSessionController.ListCurrent)
			sessions.GET("/:id", adminSessionController.GetSession)
			sessions.POST("/:id/approve", adminSessionController.Approve)
			sessions.POST("/:id/reject", adminSessionController.Reject)
			sessions.POST("/:id/check-in", adminSessionController.CheckIn)
			sessions.POST("/:id/check-out", adminSessionController.CheckOut)
			sessions.POST("/:id/complete", adminSessionController.Complete)
		}

		announcements := admin.Group("/announcements")
		{
			announcements.GET("", announcementController.ListAll)
			announcements.POST("", announcementController.Create)
			announcements.PATCH("/:id/toggle", announcementController.Toggle)
			announcements.DELETE("/:id", announcementController.Delete)
		}

		admin.GET("/feedback", adminSessionController.ListFeedback)
		admin.GET("/stats", statsController.GetUsageStats)
		admin.POST("/maintenance/reconcile-quotas", studentController.ReconcileQuotas)
	}
}
