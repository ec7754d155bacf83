package controller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/pkg/response"
	"inkwell-report-backend/utilities"
)

type ReportController struct {
	ReportService service.ReportService
	OutputDir     string
	log           *utilities.Logger
}

func NewReportController(reportService service.ReportService, outputDir string, log *utilities.Logger) *ReportController {
	return &ReportController{ReportService: reportService, OutputDir: outputDir, log: log}
}

// StudentFullReport classifies a submitted assessment and composes its report.
func (rc *ReportController) StudentFullReport(c *gin.Context) {
	var in service.FullReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	out, err := rc.ReportService.BuildFullReport(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GenerateReport returns a free-form subject report as {"rapor": text}.
func (rc *ReportController) GenerateReport(c *gin.Context) {
	var in service.SubjectReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	text, err := rc.ReportService.GenerateSubjectReport(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rapor": text})
}

func (rc *ReportController) GetCatalog(c *gin.Context) {
	response.RespondOK(c, rc.ReportService.Catalog().Definitions())
}

func (rc *ReportController) GetReport(c *gin.Context) {
	report, err := rc.ReportService.GetReport(c.Param("report_id"))
	if err != nil {
		writeServiceError(c, rc.log, err)
		return
	}
	response.RespondOK(c, report)
}

// DownloadReport serves a persisted report file.
func (rc *ReportController) DownloadReport(c *gin.Context) {
	reportID := c.Param("report_id")
	format := strings.ToLower(c.Param("format"))
	if reportID != filepath.Base(reportID) || strings.HasPrefix(reportID, ".") {
		badRequest(c, errors.New("invalid report id"))
		return
	}

	var contentType string
	switch format {
	case "json":
		contentType = "application/json"
	case "html":
		contentType = "text/html; charset=utf-8"
	case "pdf":
		contentType = "application/pdf"
	default:
		badRequest(c, fmt.Errorf("unsupported format %q", format))
		return
	}

	filename := reportID + "." + format
	path := filepath.Join(rc.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		response.RespondError(c, http.StatusNotFound, response.CodeNotFound, fmt.Errorf("no %s file for report %s", format, reportID))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", contentType)
	c.File(path)
}

func (rc *ReportController) ListStudentReports(c *gin.Context) {
	reports, err := rc.ReportService.ListReports(c.Param("student_id"))
	if err != nil {
		writeServiceError(c, rc.log, err)
		return
	}
	response.RespondOK(c, reports)
}

func (rc *ReportController) GetStudentProgress(c *gin.Context) {
	progress, err := rc.ReportService.GetProgress(c.Param("student_id"))
	if err != nil {
		writeServiceError(c, rc.log, err)
		return
	}
	response.RespondOK(c, progress)
}
