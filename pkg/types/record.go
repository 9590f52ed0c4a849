// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the case-crawler pipeline.
package types

// CaseRecord is one normalized clinical case extracted from a PMC full-text
// article. It is constructed once by the extractor, whitespace-normalized,
// and then either appended to the output file or discarded; it is never
// mutated afterwards.
type CaseRecord struct {
	// CaseID is derived from the topic label and the PMC identifier
	// (e.g. "lung_cancer_9876543"). The same article found under two
	// topics produces two records with distinct case IDs.
	CaseID string `json:"case_id" yaml:"case_id"`

	// PMID is the PubMed identifier the search returned.
	PMID string `json:"pmid" yaml:"pmid"`

	// PMCID is the full-text identifier with its "PMC" prefix.
	PMCID string `json:"pmcid" yaml:"pmcid"`

	// Topic is the disease label whose search surfaced this article.
	Topic string `json:"disease_category" yaml:"disease_category"`

	// Title is the article title, empty if absent.
	Title string `json:"title" yaml:"title"`

	// Age is the extracted patient age as a decimal string in (0, 120),
	// or empty when no heuristic matched.
	Age string `json:"patient_age" yaml:"patient_age"`

	// Gender is "Male", "Female", or empty.
	Gender string `json:"patient_gender" yaml:"patient_gender"`

	// ChiefComplaint holds the opening of the first presentation section.
	ChiefComplaint string `json:"chief_complaint" yaml:"chief_complaint"`

	// Clinical section text, accumulated per category. A section whose
	// heading matches several categories contributes to each of them.
	Symptoms     string `json:"symptoms_raw" yaml:"symptoms_raw"`
	PhysicalExam string `json:"physical_exam_raw" yaml:"physical_exam_raw"`
	LabResults   string `json:"lab_results_raw" yaml:"lab_results_raw"`
	Imaging      string `json:"imaging_raw" yaml:"imaging_raw"`
	Diagnosis    string `json:"diagnosis_raw" yaml:"diagnosis_raw"`
	Treatment    string `json:"treatment_raw" yaml:"treatment_raw"`
	Outcome      string `json:"outcome_raw" yaml:"outcome_raw"`

	// FullClinicalText joins every classified section once, in document
	// order. Records where it falls below the acceptance floor are
	// discarded before they reach the sink.
	FullClinicalText string `json:"full_clinical_text" yaml:"full_clinical_text"`

	// Year is the publication year as printed in the article, empty if absent.
	Year string `json:"publication_year" yaml:"publication_year"`

	// Journal is the journal title, empty if absent.
	Journal string `json:"journal" yaml:"journal"`

	// Authors lists up to five authors as "Surname GivenNames", in
	// document order.
	Authors []string `json:"authors" yaml:"authors"`

	// DOI is the article DOI, empty if absent.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the PMC article page.
	URL string `json:"url" yaml:"url"`
}
