package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/case-crawler/internal/crawl"
	"github.com/pdiddy/case-crawler/internal/eutils"
	"github.com/pdiddy/case-crawler/internal/secrets"
	"github.com/pdiddy/case-crawler/internal/sink"
	"github.com/pdiddy/case-crawler/pkg/types"
)

const (
	defaultTimeout        = 20 * time.Second
	defaultUserAgent      = "case-crawler/0.1"
	defaultTarget         = 10000
	defaultMaxPerTopic    = 5000
	defaultCandidateDelay = 350 * time.Millisecond
	defaultTopicDelay     = 1 * time.Second
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run the full case-report harvest",
	Long: `Crawl works through the topic list in order. For each topic it searches
PubMed for "<topic> case report", resolves each PMID to a PMC full-text
identifier, fetches the article XML, extracts the clinical narrative, and
appends accepted cases to a timestamped CSV file. Failures at any stage
skip the article and the crawl continues.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().Int("target", 0, "global save target (default 10000)")
	crawlCmd.Flags().Int("max-per-topic", 0, "per-topic search and save cap (default 5000)")
	crawlCmd.Flags().String("email", "", "requester contact email sent to NCBI (default: .secrets/ncbi-email)")
	crawlCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	crawlCmd.Flags().String("output-dir", "data/raw", "directory for the output CSV file")
	crawlCmd.Flags().String("topics-file", "", "YAML topic list overriding the curated default")
	crawlCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 20s)")
	crawlCmd.Flags().Duration("candidate-delay", 0, "pause after every candidate (default 350ms)")
	crawlCmd.Flags().Duration("topic-delay", 0, "pause between topics (default 1s)")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetInt("target")
	if target == 0 {
		target = viper.GetInt("crawl.target")
	}
	if target == 0 {
		target = defaultTarget
	}

	maxPerTopic, _ := cmd.Flags().GetInt("max-per-topic")
	if maxPerTopic == 0 {
		maxPerTopic = viper.GetInt("crawl.max_per_topic")
	}
	if maxPerTopic == 0 {
		maxPerTopic = defaultMaxPerTopic
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	candidateDelay, _ := cmd.Flags().GetDuration("candidate-delay")
	if candidateDelay == 0 {
		candidateDelay = defaultCandidateDelay
	}
	topicDelay, _ := cmd.Flags().GetDuration("topic-delay")
	if topicDelay == 0 {
		topicDelay = defaultTopicDelay
	}

	email, _ := cmd.Flags().GetString("email")
	email = secretDefault(secrets.KeyEmail, email)
	if email == "" {
		email = viper.GetString("search.email")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault(secrets.KeyAPIKey, apiKey)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	topics := crawl.DefaultTopics()
	if topicsFile, _ := cmd.Flags().GetString("topics-file"); topicsFile != "" {
		loaded, err := crawl.ReadTopicFile(topicsFile)
		if err != nil {
			return err
		}
		topics = loaded
	}

	client := eutils.NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Email:  email,
		APIKey: apiKey,
	})

	orch := &crawl.Orchestrator{
		Client: client,
		Sink:   sink.New(outputDir, time.Now()),
		Topics: topics,
		Cfg: types.CrawlConfig{
			Target:         target,
			MaxPerTopic:    maxPerTopic,
			OutputDir:      outputDir,
			CandidateDelay: candidateDelay,
			TopicDelay:     topicDelay,
		},
	}

	_, err := orch.Run(cmd.Context(), os.Stdout)
	return err
}
