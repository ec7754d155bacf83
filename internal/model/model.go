package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"password,omitempty"` // Exclude from JSON responses
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role" gorm:"default:'teacher'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportRecord is the archived form of a composed Report.
type ReportRecord struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ReportID         string         `json:"report_id" gorm:"uniqueIndex;not null"`
	StudentID        string         `json:"student_id" gorm:"index;not null"`
	AssessmentID     string         `json:"assessment_id" gorm:"not null"`
	ReportDate       string         `json:"report_date"`
	StrengthsCount   int            `json:"strengths_count"`
	GrowthAreasCount int            `json:"growth_areas_count"`
	Payload          datatypes.JSON `json:"payload"`
	CreatedAt        time.Time      `json:"created_at"`
}

// StudentProgress aggregates a student's archived reports.
type StudentProgress struct {
	StudentID        string `json:"student_id"`
	ReportCount      int64  `json:"report_count"`
	TotalStrengths   int64  `json:"total_strengths"`
	TotalGrowthAreas int64  `json:"total_growth_areas"`
	FirstReportDate  string `json:"first_report_date"`
	LatestReportDate string `json:"latest_report_date"`
}
