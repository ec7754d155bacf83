package service

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/utilities"
)

// InitReportEventListeners archives every generated report. Archiving runs
// off the request path; failures are logged and never reach the caller.
func InitReportEventListeners(bus *utilities.EventBus, reportRepo repository.ReportRepository, log *utilities.Logger) {
	bus.Subscribe(utilities.EventReportGenerated, func(data interface{}) {
		report, ok := data.(*model.Report)
		if !ok {
			log.Warn("invalid payload for report event", "type", fmt.Sprintf("%T", data))
			return
		}

		if err := ArchiveReport(reportRepo, report); err != nil {
			log.Error("failed to archive report", "report_id", report.ReportID, "error", err)
			return
		}
		log.Debug("report archived", "report_id", report.ReportID, "student_id", report.StudentID)
	})
}

// ArchiveReport stores the full report with its headline counts.
func ArchiveReport(reportRepo repository.ReportRepository, report *model.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return reportRepo.SaveReport(&model.ReportRecord{
		ReportID:         report.ReportID,
		StudentID:        report.StudentID,
		AssessmentID:     report.AssessmentID,
		ReportDate:       report.Date,
		StrengthsCount:   len(report.Content.Strengths),
		GrowthAreasCount: len(report.Content.GrowthAreas),
		Payload:          datatypes.JSON(payload),
	})
}
