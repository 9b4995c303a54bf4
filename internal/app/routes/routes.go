package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/controllers"
	"github.com/kerem/campusact/internal/middleware"
	"github.com/kerem/campusact/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	offeringController *controllers.OfferingController,
	sessionController *controllers.SessionController,
	uploadController *controllers.UploadController,
	attendanceController *controllers.AttendanceController,
	storageController *controllers.StorageController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Object store endpoint. Gated by the pre-signed URL signature only;
	// upload clients and video players carry no Authorization header.
	storage := router.Group("/storage")
	{
		storage.PUT("/*key", storageController.PutObject)
		storage.GET("/*key", storageController.GetObject)
	}

	// API version group
	v1 := router.Group("/api/v1")

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// --- Administration routes ---
	// Offering and session management, restricted to platform admins.
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		offerings := admin.Group("/offerings")
		{
			offerings.GET("", offeringController.GetAllOfferings)
			offerings.GET("/:offeringId", offeringController.GetOfferingByID)
			offerings.PATCH("/:offeringId", offeringController.UpdateOffering)
			offerings.POST("/:offeringId/status", offeringController.ChangeOfferingStatus)

			offerings.GET("/:offeringId/sessions", sessionController.GetSessions)
			offerings.POST("/:offeringId/sessions", sessionController.CreateSession)
			offerings.PATCH("/:offeringId/sessions/:sessionId", sessionController.UpdateSession)
			offerings.POST("/:offeringId/sessions/:sessionId/status", sessionController.ChangeSessionStatus)

			offerings.POST("/:offeringId/uploads", uploadController.CreateUploadSlot)
		}
	}

	// --- Student routes ---
	// Session playback and attendance confirmation.
	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(auth.RoleStudent))
	{
		student.GET("/offerings/:offeringId/sessions/:sessionId/watch", sessionController.GetStudentSessionDetail)
		student.POST("/offerings/:offeringId/sessions/:sessionId/attendance", attendanceController.ConfirmAttendance)
		student.GET("/offerings/:offeringId/sessions/:sessionId/attendance", attendanceController.GetAttendance)
	}
}
