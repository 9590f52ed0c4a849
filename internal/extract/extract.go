// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract parses PMC full-text JATS XML into normalized case
// records: section classification by heading keywords, demographic field
// heuristics, and bibliographic metadata.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"

	"github.com/pdiddy/case-crawler/pkg/types"
)

const (
	maxAuthors = 5

	// chiefComplaintMax bounds the text taken from the first
	// presentation section.
	chiefComplaintMax = 5000

	// minParagraphLen filters boilerplate: empty <p/> stubs and
	// single-word figure captions.
	minParagraphLen = 20

	// minClinicalTextLen is the acceptance gate. Articles whose
	// classified sections sum to less than this have no real case
	// narrative and are discarded.
	minClinicalTextLen = 100
)

// ErrNoClinicalText reports that an article cleared parsing but its
// classified sections fall below the acceptance gate.
var ErrNoClinicalText = errors.New("insufficient clinical narrative")

// Extract parses one full-text article into a CaseRecord. Malformed XML
// and articles below the acceptance gate return an error; the caller
// treats both as "skip this article".
func Extract(xmlData []byte, pmid, pmcid, topic string) (*types.CaseRecord, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(xmlData))
	if err != nil {
		return nil, fmt.Errorf("parsing article XML: %w", err)
	}

	rec := &types.CaseRecord{
		CaseID: strings.ReplaceAll(topic, " ", "_") + "_" + pmcid,
		PMID:   pmid,
		PMCID:  "PMC" + pmcid,
		Topic:  topic,
		URL:    fmt.Sprintf("https://www.ncbi.nlm.nih.gov/pmc/articles/PMC%s/", pmcid),
	}
	articleMetadata(doc, rec)

	// Walk the body sections. Each classified section contributes to
	// every matching category blob but only once to the full clinical
	// text. An absent body leaves the clinical fields empty, and the
	// acceptance gate below rejects the record.
	var clinical []string
	seenPresentation := false

	if body := xmlquery.FindOne(doc, "//body"); body != nil {
		for _, sec := range xmlquery.Find(body, ".//sec") {
			heading := findText(sec, ".//title")

			var paragraphs []string
			for _, p := range xmlquery.Find(sec, ".//p") {
				if text := flattenText(p); utf8.RuneCountInString(text) > minParagraphLen {
					paragraphs = append(paragraphs, text)
				}
			}
			sectionText := strings.Join(paragraphs, " ")
			if sectionText == "" {
				continue
			}

			categories := ClassifySection(heading)
			if len(categories) == 0 {
				continue
			}
			clinical = append(clinical, sectionText)

			for _, cat := range categories {
				switch cat {
				case Presentation:
					// Only the first presentation section derives the
					// singular demographic fields; later ones still feed
					// the accumulators above.
					if !seenPresentation {
						seenPresentation = true
						rec.Age = FindAge(sectionText)
						rec.Gender = FindGender(sectionText)
						rec.ChiefComplaint = truncate(sectionText, chiefComplaintMax)
					}
				case Symptoms:
					rec.Symptoms += " " + sectionText
				case PhysicalExam:
					rec.PhysicalExam += " " + sectionText
				case LabResults:
					rec.LabResults += " " + sectionText
				case Imaging:
					rec.Imaging += " " + sectionText
				case Diagnosis:
					rec.Diagnosis += " " + sectionText
				case Treatment:
					rec.Treatment += " " + sectionText
				case Outcome:
					rec.Outcome += " " + sectionText
				}
			}
		}
	}

	rec.FullClinicalText = strings.Join(clinical, " ")
	normalizeFields(rec)

	if utf8.RuneCountInString(rec.FullClinicalText) < minClinicalTextLen {
		return nil, ErrNoClinicalText
	}
	return rec, nil
}

// normalizeFields collapses internal whitespace runs to single spaces and
// trims the ends of every string field.
func normalizeFields(rec *types.CaseRecord) {
	fields := []*string{
		&rec.CaseID, &rec.PMID, &rec.PMCID, &rec.Topic, &rec.Title,
		&rec.Age, &rec.Gender, &rec.ChiefComplaint,
		&rec.Symptoms, &rec.PhysicalExam, &rec.LabResults, &rec.Imaging,
		&rec.Diagnosis, &rec.Treatment, &rec.Outcome,
		&rec.FullClinicalText, &rec.Year, &rec.Journal, &rec.DOI, &rec.URL,
	}
	for _, f := range fields {
		*f = collapseWhitespace(*f)
	}
	for i, a := range rec.Authors {
		rec.Authors[i] = collapseWhitespace(a)
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most max characters. Lengths are counted in
// runes, not bytes, so a multibyte character is never split.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
