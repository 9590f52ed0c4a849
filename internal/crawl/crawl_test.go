// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/pdiddy/case-crawler/internal/sink"
	"github.com/pdiddy/case-crawler/pkg/types"
)

// goodArticleXML clears the clinical-text floor: one presentation section
// and one treatment section, both with paragraphs over the minimum length.
const goodArticleXML = `<?xml version="1.0" encoding="UTF-8"?>
<pmc-articleset>
  <article>
    <front>
      <journal-meta>
        <journal-title>Journal of Medical Case Reports</journal-title>
      </journal-meta>
      <article-meta>
        <article-id pub-id-type="doi">10.1186/jmcr-2024-0042</article-id>
        <title-group>
          <article-title>Delayed stroke recovery after thrombolysis</article-title>
        </title-group>
        <pub-date pub-type="epub"><year>2024</year></pub-date>
      </article-meta>
    </front>
    <body>
      <sec>
        <title>Case Presentation</title>
        <p>A 62-year-old woman presented with sudden left-sided weakness and slurred speech.
        She reported that her symptoms had started two hours before arrival.</p>
      </sec>
      <sec>
        <title>Treatment</title>
        <p>Intravenous thrombolysis was administered within the therapeutic window and the
        patient was admitted to the stroke unit for monitoring.</p>
      </sec>
    </body>
  </article>
</pmc-articleset>`

// fakeSource serves canned search, resolution, and fetch answers keyed by
// topic, PMID, and PMCID.
type fakeSource struct {
	pmids     map[string][]string
	searchErr map[string]error
	pmcids    map[string]string
	xml       map[string][]byte
	fetchErr  map[string]error

	searched []string
}

func (f *fakeSource) SearchCaseReports(ctx context.Context, topic string, retmax int) ([]string, int, error) {
	f.searched = append(f.searched, topic)
	if err := f.searchErr[topic]; err != nil {
		return nil, 0, err
	}
	ids := f.pmids[topic]
	return ids, len(ids), nil
}

func (f *fakeSource) ResolvePMCID(ctx context.Context, pmid string) (string, error) {
	return f.pmcids[pmid], nil
}

func (f *fakeSource) FetchArticleXML(ctx context.Context, pmcid string) ([]byte, error) {
	if err := f.fetchErr[pmcid]; err != nil {
		return nil, err
	}
	return f.xml[pmcid], nil
}

func newOrchestrator(t *testing.T, src Source, topics []Topic, cfg types.CrawlConfig) *Orchestrator {
	t.Helper()
	cfg.OutputDir = t.TempDir()
	return &Orchestrator{
		Client: src,
		Sink:   sink.New(cfg.OutputDir, time.Now()),
		Topics: topics,
		Cfg:    cfg,
	}
}

// readRows parses the sink file and returns its records including the header.
func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read sink: %v", err)
	}
	return rows
}

func TestRunSavesCases(t *testing.T) {
	src := &fakeSource{
		pmids:  map[string][]string{"stroke": {"1001", "1002", "1003"}},
		pmcids: map[string]string{"1001": "501", "1003": "503"},
		xml: map[string][]byte{
			"501": []byte(goodArticleXML),
			"503": []byte(goodArticleXML),
		},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke"}}, types.CrawlConfig{
		Target:      100,
		MaxPerTopic: 100,
	})

	var out bytes.Buffer
	stats, err := o.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := Stats{Searched: 3, WithFullText: 2, NoFullText: 1, Saved: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	rows := readRows(t, o.Sink.Path())
	if len(rows) != 3 {
		t.Fatalf("sink has %d rows, want header plus 2 records", len(rows))
	}
	if rows[0][0] != "case_id" {
		t.Errorf("first row is %v, want the header", rows[0])
	}
	if got := rows[1][0]; got != "stroke_501" {
		t.Errorf("case_id = %q, want %q", got, "stroke_501")
	}
	if got := rows[2][2]; got != "PMC503" {
		t.Errorf("pmcid = %q, want %q", got, "PMC503")
	}
}

func TestRunZeroCandidatesAdvances(t *testing.T) {
	src := &fakeSource{
		pmids: map[string][]string{
			"stroke":   nil,
			"epilepsy": {"2001"},
		},
		pmcids: map[string]string{"2001": "601"},
		xml:    map[string][]byte{"601": []byte(goodArticleXML)},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke"}, {Label: "epilepsy"}}, types.CrawlConfig{
		Target:      100,
		MaxPerTopic: 100,
	})

	stats, err := o.Run(context.Background(), new(bytes.Buffer))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(src.searched) != 2 {
		t.Fatalf("searched topics %v, want both", src.searched)
	}
	if stats.Saved != 1 {
		t.Errorf("Saved = %d, want 1", stats.Saved)
	}
}

func TestRunStopsAtTarget(t *testing.T) {
	src := &fakeSource{
		pmids: map[string][]string{
			"stroke":   {"1001", "1002", "1003"},
			"epilepsy": {"2001"},
		},
		pmcids: map[string]string{"1001": "501", "1002": "502", "1003": "503"},
		xml: map[string][]byte{
			"501": []byte(goodArticleXML),
			"502": []byte(goodArticleXML),
			"503": []byte(goodArticleXML),
		},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke"}, {Label: "epilepsy"}}, types.CrawlConfig{
		Target:      2,
		MaxPerTopic: 100,
	})

	stats, err := o.Run(context.Background(), new(bytes.Buffer))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Saved != 2 {
		t.Errorf("Saved = %d, want 2", stats.Saved)
	}
	if len(src.searched) != 1 {
		t.Errorf("searched topics %v, want the run to stop before the second topic", src.searched)
	}
}

func TestRunTopicCapOverride(t *testing.T) {
	src := &fakeSource{
		pmids:  map[string][]string{"stroke": {"1001", "1002", "1003"}},
		pmcids: map[string]string{"1001": "501", "1002": "502", "1003": "503"},
		xml: map[string][]byte{
			"501": []byte(goodArticleXML),
			"502": []byte(goodArticleXML),
			"503": []byte(goodArticleXML),
		},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke", MaxResults: 1}}, types.CrawlConfig{
		Target:      100,
		MaxPerTopic: 100,
	})

	stats, err := o.Run(context.Background(), new(bytes.Buffer))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Saved != 1 {
		t.Errorf("Saved = %d, want 1 under the per-topic cap", stats.Saved)
	}
}

func TestRunSearchFailureSkipsTopic(t *testing.T) {
	src := &fakeSource{
		pmids:     map[string][]string{"epilepsy": {"2001"}},
		searchErr: map[string]error{"stroke": errors.New("service unavailable")},
		pmcids:    map[string]string{"2001": "601"},
		xml:       map[string][]byte{"601": []byte(goodArticleXML)},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke"}, {Label: "epilepsy"}}, types.CrawlConfig{
		Target:      100,
		MaxPerTopic: 100,
	})

	var out bytes.Buffer
	stats, err := o.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Searched != 1 || stats.Saved != 1 {
		t.Errorf("stats = %+v, want one candidate from the surviving topic", stats)
	}
	if !bytes.Contains(out.Bytes(), []byte("search failed")) {
		t.Errorf("progress output missing the search failure notice:\n%s", out.String())
	}
}

func TestRunCountsFailures(t *testing.T) {
	src := &fakeSource{
		pmids:  map[string][]string{"stroke": {"1001", "1002", "1003"}},
		pmcids: map[string]string{"1001": "501", "1002": "502", "1003": "503"},
		xml: map[string][]byte{
			"501": []byte("<not-jats"),
			"502": []byte(goodArticleXML),
		},
		fetchErr: map[string]error{"503": errors.New("HTTP 502 from efetch")},
	}
	o := newOrchestrator(t, src, []Topic{{Label: "stroke"}}, types.CrawlConfig{
		Target:      100,
		MaxPerTopic: 100,
	})

	stats, err := o.Run(context.Background(), new(bytes.Buffer))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := Stats{Searched: 3, WithFullText: 3, NoFullText: 1, BelowGate: 1, Saved: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestPause(t *testing.T) {
	if err := pause(context.Background(), 0); err != nil {
		t.Errorf("zero delay: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pause(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled pause returned %v, want context.Canceled", err)
	}
}
