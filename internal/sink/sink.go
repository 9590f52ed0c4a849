// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink appends accepted case records to an append-only CSV file
// with a fixed column schema.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/case-crawler/pkg/types"
)

// Header is the fixed column order of the output file. The header row is
// written exactly once, when the file is created.
var Header = []string{
	"case_id", "pmid", "pmcid", "disease_category", "title",
	"patient_age", "patient_gender",
	"chief_complaint", "symptoms_raw", "physical_exam_raw",
	"lab_results_raw", "imaging_raw", "diagnosis_raw",
	"treatment_raw", "outcome_raw", "full_clinical_text",
	"publication_year", "journal", "authors", "doi", "url",
}

// CSVSink writes one row per accepted record to a run-timestamped CSV
// file. It never reads back, deduplicates, or locks: single-writer,
// single-process discipline is assumed.
type CSVSink struct {
	path string
}

// New returns a sink writing to dir/raw_cases_<timestamp>.csv, where the
// timestamp is the start of the run. The file itself is created on the
// first append.
func New(dir string, start time.Time) *CSVSink {
	name := fmt.Sprintf("raw_cases_%s.csv", start.Format("20060102_150405"))
	return &CSVSink{path: filepath.Join(dir, name)}
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Append writes one record as one CSV row, creating the file and writing
// the header row first if the file does not yet exist.
func (s *CSVSink) Append(rec *types.CaseRecord) error {
	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(Row(rec)); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.CaseID, err)
	}
	w.Flush()
	return w.Error()
}

// Row maps a record to its CSV row in Header order.
func Row(rec *types.CaseRecord) []string {
	return []string{
		rec.CaseID, rec.PMID, rec.PMCID, rec.Topic, rec.Title,
		rec.Age, rec.Gender,
		rec.ChiefComplaint, rec.Symptoms, rec.PhysicalExam,
		rec.LabResults, rec.Imaging, rec.Diagnosis,
		rec.Treatment, rec.Outcome, rec.FullClinicalText,
		rec.Year, rec.Journal, strings.Join(rec.Authors, "; "), rec.DOI, rec.URL,
	}
}
