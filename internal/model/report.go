package model

// AgeGroup is the learner's developmental stage.
type AgeGroup string

const (
	AgeGroupEarlyChildhood AgeGroup = "early_childhood"
	AgeGroupPrimary        AgeGroup = "primary"
	AgeGroupMiddle         AgeGroup = "middle"
	AgeGroupHigh           AgeGroup = "high"
)

func (g AgeGroup) Valid() bool {
	switch g {
	case AgeGroupEarlyChildhood, AgeGroupPrimary, AgeGroupMiddle, AgeGroupHigh:
		return true
	}
	return false
}

type Student struct {
	StudentID     string   `json:"student_id"`
	Name          string   `json:"name"`
	Surname       string   `json:"surname"`
	BirthDate     string   `json:"birth_date"`
	Grade         string   `json:"grade"`
	AgeGroup      AgeGroup `json:"age_group"`
	Interests     []string `json:"interests"`
	LearningStyle []string `json:"learning_style"`
}

// NewStudent builds a Student with empty tag lists.
func NewStudent(studentID, name, surname, birthDate, grade string, ageGroup AgeGroup) *Student {
	return &Student{
		StudentID:     studentID,
		Name:          name,
		Surname:       surname,
		BirthDate:     birthDate,
		Grade:         grade,
		AgeGroup:      ageGroup,
		Interests:     []string{},
		LearningStyle: []string{},
	}
}

func (s *Student) FullName() string {
	return s.Name + " " + s.Surname
}

type Assessment struct {
	AssessmentID string    `json:"assessment_id"`
	StudentID    string    `json:"student_id"`
	AssessorName string    `json:"assessor_name"`
	AssessorRole string    `json:"assessor_role"`
	Date         string    `json:"date"`
	Responses    Responses `json:"responses"`
	Comments     string    `json:"comments"`
}

func NewAssessment(assessmentID, studentID, assessorName, assessorRole, date string) *Assessment {
	return &Assessment{
		AssessmentID: assessmentID,
		StudentID:    studentID,
		AssessorName: assessorName,
		AssessorRole: assessorRole,
		Date:         date,
	}
}

// AddResponse records an answer; a later call for the same pair replaces it.
func (a *Assessment) AddResponse(category, subcategory, answer string) {
	a.Responses.Set(category, subcategory, answer)
}

func (a *Assessment) GetResponse(category, subcategory string) (string, bool) {
	return a.Responses.Get(category, subcategory)
}

// Finding is a classified (category, subcategory, response) triple.
type Finding struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Response    string `json:"response"`
}

type ReportContent struct {
	StudentName    string         `json:"student_name"`
	Grade          string         `json:"grade"`
	AssessmentDate string         `json:"assessment_date"`
	Assessor       string         `json:"assessor"`
	Strengths      []string       `json:"strengths"`
	GrowthAreas    []string       `json:"growth_areas"`
	Summary        map[string]int `json:"summary"`
}

type Report struct {
	ReportID        string              `json:"report_id"`
	StudentID       string              `json:"student_id"`
	AssessmentID    string              `json:"assessment_id"`
	Date            string              `json:"date"`
	Content         ReportContent       `json:"content"`
	Recommendations map[string][]string `json:"recommendations"`
}
