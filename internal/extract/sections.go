// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// Category labels one of the clinical section groups a heading can map to.
type Category string

const (
	Presentation Category = "presentation"
	Symptoms     Category = "symptoms"
	PhysicalExam Category = "physical_exam"
	LabResults   Category = "lab_results"
	Imaging      Category = "imaging"
	Diagnosis    Category = "diagnosis"
	Treatment    Category = "treatment"
	Outcome      Category = "outcome"
)

// sectionKeywords maps each category to the heading substrings that select
// it. Journals name their sections inconsistently, so matching is loose
// substring containment rather than a strict taxonomy, and the sets are not
// mutually exclusive: one heading may select several categories.
var sectionKeywords = []struct {
	Category Category
	Keywords []string
}{
	{Presentation, []string{"case", "patient", "presentation", "history"}},
	{Symptoms, []string{"symptom", "sign", "clinical feature", "manifestation"}},
	{PhysicalExam, []string{"physical exam", "examination"}},
	{LabResults, []string{"lab", "laboratory", "blood test", "investigation"}},
	{Imaging, []string{"imaging", "radiology", "x-ray", "ct", "mri"}},
	{Diagnosis, []string{"diagnosis", "diagnostic"}},
	{Treatment, []string{"treatment", "management", "therapy"}},
	{Outcome, []string{"outcome", "follow", "recovery", "prognosis"}},
}

// ClassifySection returns every category whose keyword set matches the
// section heading, in fixed category order. It is a pure function: the
// same heading always yields the same category set.
func ClassifySection(heading string) []Category {
	heading = strings.ToLower(heading)
	var categories []Category
	for _, entry := range sectionKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(heading, kw) {
				categories = append(categories, entry.Category)
				break
			}
		}
	}
	return categories
}
