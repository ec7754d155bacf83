package repository

import (
	"errors"

	"gorm.io/gorm"

	"inkwell-report-backend/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

type ReportRepository interface {
	SaveReport(record *model.ReportRecord) error
	GetReportByID(reportID string) (*model.ReportRecord, error)
	GetReportsByStudent(studentID string) ([]model.ReportRecord, error)
	GetStudentProgress(studentID string) (*model.StudentProgress, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SaveReport(record *model.ReportRecord) error {
	return r.db.Create(record).Error
}

func (r *reportRepository) GetReportByID(reportID string) (*model.ReportRecord, error) {
	var record model.ReportRecord
	err := r.db.Where("report_id = ?", reportID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetReportsByStudent returns the student's reports, newest first.
func (r *reportRepository) GetReportsByStudent(studentID string) ([]model.ReportRecord, error) {
	records := []model.ReportRecord{}
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at desc").
		Order("id desc").
		Find(&records).Error
	return records, err
}

func (r *reportRepository) GetStudentProgress(studentID string) (*model.StudentProgress, error) {
	progress := model.StudentProgress{StudentID: studentID}
	err := r.db.Model(&model.ReportRecord{}).
		Select(`COUNT(*) AS report_count,
			COALESCE(SUM(strengths_count), 0) AS total_strengths,
			COALESCE(SUM(growth_areas_count), 0) AS total_growth_areas,
			COALESCE(MIN(report_date), '') AS first_report_date,
			COALESCE(MAX(report_date), '') AS latest_report_date`).
		Where("student_id = ?", studentID).
		Scan(&progress).Error
	if err != nil {
		return nil, err
	}
	progress.StudentID = studentID
	return &progress, nil
}
