// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl drives the per-topic, per-candidate harvest loop:
// search, resolve, fetch, extract, append, with fixed-delay pacing and
// aggregate statistics.
package crawl

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/case-crawler/internal/extract"
	"github.com/pdiddy/case-crawler/internal/sink"
	"github.com/pdiddy/case-crawler/pkg/types"
)

// Source is the slice of the E-utilities client the orchestrator needs:
// topic search, PMID resolution, and full-text fetch.
type Source interface {
	SearchCaseReports(ctx context.Context, topic string, retmax int) ([]string, int, error)
	ResolvePMCID(ctx context.Context, pmid string) (string, error)
	FetchArticleXML(ctx context.Context, pmcid string) ([]byte, error)
}

// Stats holds the process-wide counters for one run. They are touched
// only by the orchestrator's single goroutine and reset each run.
type Stats struct {
	// Searched counts candidate PMIDs returned across all topic searches.
	Searched int

	// WithFullText counts candidates that resolved to a PMC identifier.
	WithFullText int

	// NoFullText counts candidates with no open full text, including
	// resolution and fetch failures.
	NoFullText int

	// BelowGate counts fetched articles discarded by the extractor,
	// whether malformed or below the clinical-text floor.
	BelowGate int

	// Saved counts records appended to the sink.
	Saved int
}

// Orchestrator runs the sequential crawl. There is no parallel fetching,
// no retry, and no checkpointing: an interrupted run keeps only what the
// sink has already appended.
type Orchestrator struct {
	Client Source
	Sink   *sink.CSVSink
	Topics []Topic
	Cfg    types.CrawlConfig
}

// Run crawls topics in list order until the global save target is reached
// or the topics are exhausted, writing progress to w. It returns the
// aggregate statistics; the only error it surfaces is context
// cancellation, every per-item failure being a soft skip.
func (o *Orchestrator) Run(ctx context.Context, w io.Writer) (Stats, error) {
	start := time.Now()
	var stats Stats

	fmt.Fprintf(w, "target: %d cases over %d topics\n", o.Cfg.Target, len(o.Topics))
	fmt.Fprintf(w, "output: %s\n", o.Sink.Path())

	for idx, topic := range o.Topics {
		if stats.Saved >= o.Cfg.Target {
			fmt.Fprintf(w, "\ntarget reached: %d cases\n", o.Cfg.Target)
			break
		}

		topicCap := o.Cfg.MaxPerTopic
		if topic.MaxResults > 0 {
			topicCap = topic.MaxResults
		}

		fmt.Fprintf(w, "\n[%d/%d] searching: %s\n", idx+1, len(o.Topics), topic.Label)

		pmids, total, err := o.Client.SearchCaseReports(ctx, topic.Label, topicCap)
		if err != nil {
			fmt.Fprintf(w, "  search failed: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "  %d total matches, processing %d\n", total, len(pmids))
		stats.Searched += len(pmids)

		if len(pmids) == 0 {
			continue
		}

		topicStart := time.Now()
		topicSaved := 0

		for i, pmid := range pmids {
			if stats.Saved >= o.Cfg.Target || topicSaved >= topicCap {
				break
			}

			if (i+1)%10 == 0 {
				elapsed := time.Since(topicStart).Seconds()
				rate := 0.0
				if elapsed > 0 {
					rate = float64(i+1) / elapsed
				}
				fmt.Fprintf(w, "  [%d/%d] %.1f articles/sec, saved %d\n", i+1, len(pmids), rate, topicSaved)
			}

			if o.processCandidate(ctx, w, pmid, topic.Label, &stats) {
				topicSaved++
			}

			if err := pause(ctx, o.Cfg.CandidateDelay); err != nil {
				return stats, err
			}
		}

		fmt.Fprintf(w, "  done: %d cases in %.1f min\n", topicSaved, time.Since(topicStart).Minutes())

		if err := pause(ctx, o.Cfg.TopicDelay); err != nil {
			return stats, err
		}
	}

	o.printSummary(w, stats, time.Since(start))
	return stats, nil
}

// processCandidate takes one PMID through resolve, fetch, extract, and
// append. Every failure is soft: it increments the matching counter and
// reports false.
func (o *Orchestrator) processCandidate(ctx context.Context, w io.Writer, pmid, topic string, stats *Stats) bool {
	pmcid, err := o.Client.ResolvePMCID(ctx, pmid)
	if err != nil || pmcid == "" {
		stats.NoFullText++
		return false
	}
	stats.WithFullText++

	xmlData, err := o.Client.FetchArticleXML(ctx, pmcid)
	if err != nil {
		stats.NoFullText++
		return false
	}

	rec, err := extract.Extract(xmlData, pmid, pmcid, topic)
	if err != nil {
		stats.BelowGate++
		return false
	}

	if err := o.Sink.Append(rec); err != nil {
		fmt.Fprintf(w, "  append failed for %s: %v\n", rec.CaseID, err)
		return false
	}
	stats.Saved++
	return true
}

func (o *Orchestrator) printSummary(w io.Writer, stats Stats, elapsed time.Duration) {
	fmt.Fprintf(w, "\n--- crawl statistics ---\n")
	fmt.Fprintf(w, "elapsed:            %.1f min\n", elapsed.Minutes())
	fmt.Fprintf(w, "PMIDs searched:     %d\n", stats.Searched)
	fmt.Fprintf(w, "with PMC full text: %d (%.1f%%)\n", stats.WithFullText, percent(stats.WithFullText, stats.Searched))
	fmt.Fprintf(w, "no full text:       %d\n", stats.NoFullText)
	fmt.Fprintf(w, "no clinical text:   %d\n", stats.BelowGate)
	fmt.Fprintf(w, "saved:              %d (%.1f%% of full text)\n", stats.Saved, percent(stats.Saved, stats.WithFullText))
	fmt.Fprintf(w, "output file:        %s\n", o.Sink.Path())
	if hours := elapsed.Hours(); hours > 0 {
		fmt.Fprintf(w, "rate:               %.0f cases/hour\n", float64(stats.Saved)/hours)
	}
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// pause sleeps for d, returning early if the context is cancelled. A zero
// or negative delay is a no-op so tests can run unpaced.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
