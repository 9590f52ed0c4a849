// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives harvested case records in a SQLite database and
// answers filtered and full-text queries over them.
package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/case-crawler/internal/sink"
	"github.com/pdiddy/case-crawler/pkg/types"
)

// Store manages the case archive SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the archive database at cfg.DBPath, creating the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id TEXT NOT NULL,
			pmid TEXT,
			pmcid TEXT,
			disease_category TEXT,
			title TEXT,
			patient_age TEXT,
			patient_gender TEXT,
			chief_complaint TEXT,
			symptoms_raw TEXT,
			physical_exam_raw TEXT,
			lab_results_raw TEXT,
			imaging_raw TEXT,
			diagnosis_raw TEXT,
			treatment_raw TEXT,
			outcome_raw TEXT,
			full_clinical_text TEXT,
			publication_year TEXT,
			journal TEXT,
			authors TEXT,
			doi TEXT,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_topic ON cases(disease_category)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_gender ON cases(patient_gender)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over title and narrative. The archive is
	// append-only, so an insert trigger is the only sync needed.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='cases_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE cases_fts USING fts5(title, full_clinical_text, content=cases, content_rowid=rowid)`,
			`CREATE TRIGGER cases_ai AFTER INSERT ON cases BEGIN
				INSERT INTO cases_fts(rowid, title, full_clinical_text)
				VALUES (new.rowid, new.title, new.full_clinical_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// LoadCSV ingests one harvested CSV file into the archive and returns the
// number of rows loaded. Rows are inserted as-is: the archive mirrors the
// crawl output and does not deduplicate.
func (s *Store) LoadCSV(ctx context.Context, path string, w io.Writer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header of %s: %w", path, err)
	}

	// Map columns by name so older files with reordered columns still load.
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range sink.Header {
		if _, ok := col[name]; !ok {
			return 0, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sink.Header)), ",")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (`+strings.Join(sink.Header, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loaded, fmt.Errorf("reading %s: %w", path, err)
		}

		args := make([]any, len(sink.Header))
		for i, name := range sink.Header {
			args[i] = row[col[name]]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return loaded, fmt.Errorf("inserting row %d of %s: %w", loaded+1, path, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return loaded, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "loaded %d cases from %s\n", loaded, path)
	return loaded, nil
}

// QueryFilter selects cases from the archive. Empty fields are not
// filtered on; FullText runs an FTS match over title and narrative.
type QueryFilter struct {
	Topic    string
	Gender   string
	FullText string
	Limit    int
}

// Query returns archived cases matching the filter, newest insertions first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]types.CaseRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		conds []string
		args  []any
	)
	query := `SELECT ` + strings.Join(sink.Header, ", ") + ` FROM cases`

	if filter.FullText != "" {
		query = `SELECT ` + prefixed("cases.", sink.Header) + `
			FROM cases JOIN cases_fts ON cases.rowid = cases_fts.rowid`
		conds = append(conds, "cases_fts MATCH ?")
		args = append(args, filter.FullText)
	}
	if filter.Topic != "" {
		conds = append(conds, "disease_category = ?")
		args = append(args, filter.Topic)
	}
	if filter.Gender != "" {
		conds = append(conds, "patient_gender = ?")
		args = append(args, filter.Gender)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY cases.rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var records []types.CaseRecord
	for rows.Next() {
		var rec types.CaseRecord
		var authors string
		if err := rows.Scan(
			&rec.CaseID, &rec.PMID, &rec.PMCID, &rec.Topic, &rec.Title,
			&rec.Age, &rec.Gender,
			&rec.ChiefComplaint, &rec.Symptoms, &rec.PhysicalExam,
			&rec.LabResults, &rec.Imaging, &rec.Diagnosis,
			&rec.Treatment, &rec.Outcome, &rec.FullClinicalText,
			&rec.Year, &rec.Journal, &authors, &rec.DOI, &rec.URL,
		); err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		if authors != "" {
			rec.Authors = strings.Split(authors, "; ")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TopicCount pairs a disease label with its archived case count.
type TopicCount struct {
	Topic string
	Count int
}

// TopicCounts reports how many cases the archive holds per topic, largest
// first.
func (s *Store) TopicCounts(ctx context.Context) ([]TopicCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT disease_category, count(*) FROM cases GROUP BY disease_category ORDER BY count(*) DESC, disease_category`)
	if err != nil {
		return nil, fmt.Errorf("counting cases by topic: %w", err)
	}
	defer rows.Close()

	var counts []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning topic count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

func prefixed(prefix string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return strings.Join(out, ", ")
}
