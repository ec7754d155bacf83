package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAssessment() *Assessment {
	a := NewAssessment("A001", "S001", "Mehmet Öğretmen", "teacher", "2025-04-08")
	a.AddResponse("skills", "problem_solving", "Yetkin")
	a.AddResponse("academic", "performance", "Beklentilerin çok üzerinde")
	a.AddResponse("academic", "reading", "Orta")
	a.Comments = "Derslere ilgili."
	return a
}

func TestStudentRoundTrip(t *testing.T) {
	s := NewStudent("S001", "Zeynep", "Demir", "2011-03-12", "5. Sınıf", AgeGroupPrimary)
	s.Interests = []string{"Resim", "Matematik"}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got Student
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *s, got)
	assert.Equal(t, "Zeynep Demir", got.FullName())
}

func TestStudentEmptyTagsEncodeAsArrays(t *testing.T) {
	s := NewStudent("S002", "Ali", "Kaya", "2015-01-01", "1. Sınıf", AgeGroupEarlyChildhood)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"interests":[]`)
	assert.Contains(t, string(data), `"learning_style":[]`)
}

func TestAssessmentRoundTrip(t *testing.T) {
	a := sampleAssessment()

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var got Assessment
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *a, got)
}

func TestAssessmentResponsesKeepRecordingOrder(t *testing.T) {
	a := sampleAssessment()
	data, err := json.Marshal(a.Responses)
	require.NoError(t, err)
	assert.Equal(t,
		`{"skills":{"problem_solving":"Yetkin"},"academic":{"performance":"Beklentilerin çok üzerinde","reading":"Orta"}}`,
		string(data))
}

func TestAddResponseOverwriteKeepsPosition(t *testing.T) {
	a := NewAssessment("A1", "S1", "x", "teacher", "2025-01-01")
	a.AddResponse("academic", "performance", "first")
	a.AddResponse("skills", "problem_solving", "Orta")
	a.AddResponse("academic", "performance", "second")

	got, ok := a.GetResponse("academic", "performance")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, []string{"academic", "skills"}, a.Responses.Categories())
	assert.Equal(t, 2, a.Responses.Len())

	_, ok = a.GetResponse("academic", "missing")
	assert.False(t, ok)
}

func TestResponsesUnmarshalPreservesDocumentOrder(t *testing.T) {
	var r Responses
	require.NoError(t, json.Unmarshal([]byte(`{"b":{"z":"1","a":"2"},"a":{"m":"3"}}`), &r))

	var seen []string
	r.Each(func(category, subcategory, answer string) {
		seen = append(seen, category+"."+subcategory+"="+answer)
	})
	assert.Equal(t, []string{"b.z=1", "b.a=2", "a.m=3"}, seen)
	assert.Equal(t, 2, r.Count("b"))
	assert.Equal(t, 0, r.Count("c"))
}

func TestResponsesUnmarshalRejectsNonStringAnswers(t *testing.T) {
	var r Responses
	err := json.Unmarshal([]byte(`{"academic":{"performance":3}}`), &r)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"academic":"performance"}`), &r)
	assert.Error(t, err)
}

func TestResponsesNullAndEmpty(t *testing.T) {
	var r Responses
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.Equal(t, 0, r.Len())

	data, err := json.Marshal(Responses{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestResponsesKeepEmptyCategories(t *testing.T) {
	var r Responses
	require.NoError(t, json.Unmarshal([]byte(`{"academic":{},"skills":{"problem_solving":"Yetkin"}}`), &r))

	assert.Equal(t, []string{"academic", "skills"}, r.Categories())
	assert.Equal(t, 0, r.Count("academic"))
	assert.Equal(t, 1, r.Len())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"academic":{},"skills":{"problem_solving":"Yetkin"}}`, string(data))
}

func TestAddCategoryKeepsExistingAnswers(t *testing.T) {
	a := sampleAssessment()
	a.Responses.AddCategory("academic")
	a.Responses.AddCategory("social")

	assert.Equal(t, []string{"skills", "academic", "social"}, a.Responses.Categories())
	assert.Equal(t, 2, a.Responses.Count("academic"))
	assert.Equal(t, 0, a.Responses.Count("social"))
}

func TestReportRoundTrip(t *testing.T) {
	r := Report{
		ReportID:     "RPT-1",
		StudentID:    "S001",
		AssessmentID: "A001",
		Date:         "2025-04-08",
		Content: ReportContent{
			StudentName:    "Zeynep Demir",
			Grade:          "5. Sınıf",
			AssessmentDate: "2025-04-08",
			Assessor:       "Mehmet Öğretmen",
			Strengths:      []string{"Çok başarılı."},
			GrowthAreas:    []string{},
			Summary:        map[string]int{"academic": 1},
		},
		Recommendations: map[string][]string{},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r, got)
}

func TestAgeGroupValid(t *testing.T) {
	for _, g := range []AgeGroup{AgeGroupEarlyChildhood, AgeGroupPrimary, AgeGroupMiddle, AgeGroupHigh} {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, AgeGroup("university").Valid())
	assert.False(t, AgeGroup("").Valid())
}
