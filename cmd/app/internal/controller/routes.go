package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/utilities"
)

// RouteOptions carries the settings RegisterRoutes needs beyond services.
type RouteOptions struct {
	// ReportAuth, when set, guards the report endpoints.
	ReportAuth gin.HandlerFunc
	// UserAuth guards the user endpoints.
	UserAuth  gin.HandlerFunc
	OutputDir string
	ModelID   string
}

// RegisterRoutes registers all route groups and their endpoints.
func RegisterRoutes(
	r *gin.Engine,
	reportService service.ReportService,
	authService service.AuthService,
	userService service.UserService,
	log *utilities.Logger,
	opts RouteOptions,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model": opts.ModelID})
	})

	// Auth routes.
	authCtrl := NewAuthController(authService, log)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authCtrl.Register)
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/refresh", authCtrl.Refresh)
	}

	// User routes.
	userCtrl := NewUserController(userService, log)
	userRoutes := r.Group("/user", handlers(opts.UserAuth)...)
	{
		userRoutes.GET("", userCtrl.GetAllUsers)
		userRoutes.GET("/me", userCtrl.GetCurrentUser)
	}

	// Report routes.
	reportCtrl := NewReportController(reportService, opts.OutputDir, log)
	reports := r.Group("/", handlers(opts.ReportAuth)...)
	{
		reports.POST("/student-full-report", reportCtrl.StudentFullReport)
		reports.POST("/generate-report", reportCtrl.GenerateReport)
		reports.GET("/catalog", reportCtrl.GetCatalog)
		reports.GET("/reports/:report_id", reportCtrl.GetReport)
		reports.GET("/reports/:report_id/files/:format", reportCtrl.DownloadReport)
		reports.GET("/students/:student_id/reports", reportCtrl.ListStudentReports)
		reports.GET("/students/:student_id/progress", reportCtrl.GetStudentProgress)
	}
}

func handlers(h gin.HandlerFunc) []gin.HandlerFunc {
	if h == nil {
		return nil
	}
	return []gin.HandlerFunc{h}
}
