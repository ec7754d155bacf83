package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"inkwell-report-backend/internal/catalog"
	"inkwell-report-backend/internal/llm"
	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/utilities"
)

const dateLayout = "2006-01-02"

const descriptionPrompt = `Öğrenci: %s
Yaş grubu: %s
Kategori: %s
Alt kategori: %s
Yanıt: %s

Bu bilgilere göre öğrenciyi tanımlayan kısa, pozitif ve eğitici bir açıklama yaz.`

const subjectReportPrompt = `Öğrencinin %s dersi için gelişim raporunu hazırlayın.
Öğrencinin güçlü yönleri: %s.
Geliştirilmesi gereken alanlar: %s.
Öneriler: %s.
Ayrıntılı, kapsamlı ve yapılandırılmış bir rapor oluşturun.`

// ErrReportNotFound is returned by the read side for unknown report ids.
var ErrReportNotFound = errors.New("report not found")

// ValidationError reports a malformed submission. It is always returned
// before any completion is requested.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// ExternalServiceError wraps a failed completion.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: text generation failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// FullReportInput is the body of a full report submission.
type FullReportInput struct {
	Name          string          `json:"name"`
	Surname       string          `json:"surname"`
	BirthDate     string          `json:"birth_date"`
	Grade         string          `json:"grade"`
	AgeGroup      model.AgeGroup  `json:"age_group"`
	Interests     []string        `json:"interests"`
	LearningStyle []string        `json:"learning_style"`
	AssessorName  string          `json:"assessor_name"`
	AssessorRole  string          `json:"assessor_role"`
	Responses     model.Responses `json:"responses"`
	Comments      string          `json:"comments"`
}

func (in *FullReportInput) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"surname", in.Surname},
		{"birth_date", in.BirthDate},
		{"grade", in.Grade},
		{"age_group", string(in.AgeGroup)},
		{"assessor_name", in.AssessorName},
		{"assessor_role", in.AssessorRole},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "missing required fields"}
	}
	if !in.AgeGroup.Valid() {
		return &ValidationError{
			Fields:  []string{"age_group"},
			Message: fmt.Sprintf("unknown age group %q", in.AgeGroup),
		}
	}
	return nil
}

// SubjectReportInput is the body of a one-shot subject report request.
type SubjectReportInput struct {
	SubjectName string `json:"subject_name"`
	Strengths   string `json:"strengths"`
	GrowthAreas string `json:"growth_areas"`
	Suggestions string `json:"suggestions"`
}

func (in *SubjectReportInput) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"subject_name", in.SubjectName},
		{"strengths", in.Strengths},
		{"growth_areas", in.GrowthAreas},
		{"suggestions", in.Suggestions},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "missing required fields"}
	}
	return nil
}

// FullReport is everything produced by one submission.
type FullReport struct {
	Student    *model.Student    `json:"student"`
	Assessment *model.Assessment `json:"assessment"`
	Report     *model.Report     `json:"report"`
	Files      map[string]string `json:"files,omitempty"`
}

type ReportService interface {
	BuildFullReport(ctx context.Context, in FullReportInput) (*FullReport, error)
	ComposeReport(ctx context.Context, student *model.Student, assessment *model.Assessment, classification Classification) (*model.Report, error)
	GenerateSubjectReport(ctx context.Context, in SubjectReportInput) (string, error)
	GetReport(reportID string) (*model.Report, error)
	ListReports(studentID string) ([]model.Report, error)
	GetProgress(studentID string) (*model.StudentProgress, error)
	Catalog() *catalog.Catalog
}

// ReportServiceConfig tunes composition and persistence.
type ReportServiceConfig struct {
	// Parallelism caps concurrent completions per report; 1 is sequential.
	Parallelism    int
	PersistFormats []string
}

type reportService struct {
	client    llm.LLMClient
	catalog   *catalog.Catalog
	repo      repository.ReportRepository
	persister *ReportPersister
	bus       *utilities.EventBus
	log       *utilities.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService wires the composer. repo, persister and bus may be nil;
// without a repo the read side reports every id as unknown.
func NewReportService(
	client llm.LLMClient,
	cat *catalog.Catalog,
	repo repository.ReportRepository,
	persister *ReportPersister,
	bus *utilities.EventBus,
	log *utilities.Logger,
	cfg ReportServiceConfig,
) ReportService {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &reportService{
		client:    client,
		catalog:   cat,
		repo:      repo,
		persister: persister,
		bus:       bus,
		log:       log,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *reportService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *reportService) BuildFullReport(ctx context.Context, in FullReportInput) (*FullReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	student := model.NewStudent(uuid.NewString(), in.Name, in.Surname, in.BirthDate, in.Grade, in.AgeGroup)
	if in.Interests != nil {
		student.Interests = append([]string{}, in.Interests...)
	}
	if in.LearningStyle != nil {
		student.LearningStyle = append([]string{}, in.LearningStyle...)
	}

	assessment := model.NewAssessment(uuid.NewString(), student.StudentID, in.AssessorName, in.AssessorRole, s.now().Format(dateLayout))
	for _, category := range in.Responses.Categories() {
		assessment.Responses.AddCategory(category)
	}
	in.Responses.Each(assessment.AddResponse)
	assessment.Comments = in.Comments

	classification := ClassifyAssessment(assessment, s.catalog)

	log := s.log.With("student_id", student.StudentID, "assessment_id", assessment.AssessmentID)

	report, err := s.ComposeReport(ctx, student, assessment, classification)
	if err != nil {
		log.Error("report composition failed", "error", err)
		return nil, err
	}

	var files map[string]string
	if s.persister != nil {
		files = s.persister.PersistAll(report, s.cfg.PersistFormats)
	}

	if s.bus != nil {
		s.bus.Publish(utilities.EventReportGenerated, report)
	}

	log.Info("report generated",
		"report_id", report.ReportID,
		"strengths", len(report.Content.Strengths),
		"growth_areas", len(report.Content.GrowthAreas),
	)

	return &FullReport{Student: student, Assessment: assessment, Report: report, Files: files}, nil
}

// ComposeReport asks for one description per finding, strengths first.
// Completions may run concurrently up to Parallelism but results are placed
// by index. The first failure aborts the whole report.
func (s *reportService) ComposeReport(ctx context.Context, student *model.Student, assessment *model.Assessment, classification Classification) (*model.Report, error) {
	findings := make([]model.Finding, 0, len(classification.Strengths)+len(classification.GrowthAreas))
	findings = append(findings, classification.Strengths...)
	findings = append(findings, classification.GrowthAreas...)

	descriptions := make([]string, len(findings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallelism)
	for i, f := range findings {
		g.Go(func() error {
			prompt := fmt.Sprintf(descriptionPrompt, student.FullName(), student.AgeGroup, f.Category, f.Subcategory, f.Response)
			text, err := s.client.GenerateResponse(gctx, prompt)
			if err != nil {
				return &ExternalServiceError{Op: fmt.Sprintf("describe %s.%s", f.Category, f.Subcategory), Err: err}
			}
			descriptions[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := make(map[string]int, len(classification.Summary))
	for k, v := range classification.Summary {
		summary[k] = v
	}

	n := len(classification.Strengths)
	return &model.Report{
		ReportID:     "RPT-" + uuid.NewString(),
		StudentID:    student.StudentID,
		AssessmentID: assessment.AssessmentID,
		Date:         s.now().Format(dateLayout),
		Content: model.ReportContent{
			StudentName:    student.FullName(),
			Grade:          student.Grade,
			AssessmentDate: assessment.Date,
			Assessor:       assessment.AssessorName,
			Strengths:      descriptions[:n:n],
			GrowthAreas:    descriptions[n:],
			Summary:        summary,
		},
		Recommendations: map[string][]string{},
	}, nil
}

func (s *reportService) GenerateSubjectReport(ctx context.Context, in SubjectReportInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(subjectReportPrompt, in.SubjectName, in.Strengths, in.GrowthAreas, in.Suggestions)
	text, err := s.client.GenerateResponse(ctx, prompt)
	if err != nil {
		return "", &ExternalServiceError{Op: "subject report", Err: err}
	}
	return text, nil
}

func (s *reportService) GetReport(reportID string) (*model.Report, error) {
	if s.repo == nil {
		return nil, ErrReportNotFound
	}
	record, err := s.repo.GetReportByID(reportID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeReport(record)
}

func (s *reportService) ListReports(studentID string) ([]model.Report, error) {
	reports := []model.Report{}
	if s.repo == nil {
		return reports, nil
	}
	records, err := s.repo.GetReportsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		r, err := decodeReport(&records[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

func (s *reportService) GetProgress(studentID string) (*model.StudentProgress, error) {
	if s.repo == nil {
		return &model.StudentProgress{StudentID: studentID}, nil
	}
	return s.repo.GetStudentProgress(studentID)
}

func decodeReport(record *model.ReportRecord) (*model.Report, error) {
	var report model.Report
	if err := json.Unmarshal(record.Payload, &report); err != nil {
		return nil, fmt.Errorf("decode archived report %s: %w", record.ReportID, err)
	}
	return &report, nil
}
