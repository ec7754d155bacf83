package service

import (
	"inkwell-report-backend/internal/catalog"
	"inkwell-report-backend/internal/model"
)

// windowSize is how many options at each end of a list count as strength or growth area.
const windowSize = 2

// Classification is the result of ClassifyAssessment.
type Classification struct {
	Strengths   []model.Finding `json:"strengths"`
	GrowthAreas []model.Finding `json:"growth_areas"`
	Summary     map[string]int  `json:"summary"`
}

// ClassifyAssessment partitions recorded responses into strengths and growth
// areas by their position in the catalog's option list. A response among
// the first two options is a strength and one among the last two is a
// growth area; on short lists both may hold. Matching is exact. Pairs the
// catalog does not define fall into neither list but are still counted in
// the summary. A category with no answers appears there with zero.
func ClassifyAssessment(assessment *model.Assessment, cat *catalog.Catalog) Classification {
	result := Classification{
		Strengths:   []model.Finding{},
		GrowthAreas: []model.Finding{},
		Summary:     map[string]int{},
	}
	if assessment == nil {
		return result
	}

	for _, category := range assessment.Responses.Categories() {
		result.Summary[category] = 0
	}
	assessment.Responses.Each(func(category, subcategory, answer string) {
		result.Summary[category]++

		options := cat.Lookup(category, subcategory)
		finding := model.Finding{Category: category, Subcategory: subcategory, Response: answer}

		if contains(head(options, windowSize), answer) {
			result.Strengths = append(result.Strengths, finding)
		}
		if contains(tail(options, windowSize), answer) {
			result.GrowthAreas = append(result.GrowthAreas, finding)
		}
	})
	return result
}

func head(options []string, n int) []string {
	if len(options) < n {
		return options
	}
	return options[:n]
}

func tail(options []string, n int) []string {
	if len(options) < n {
		return options
	}
	return options[len(options)-n:]
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
