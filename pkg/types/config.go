package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "case-crawler/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the NCBI E-utilities client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is the requester contact sent with every E-utilities call,
	// per NCBI usage policy.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults caps the number of PMIDs one search returns (default 5000).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// CrawlConfig holds settings for the crawl orchestrator.
type CrawlConfig struct {
	// Target is the global number of saved cases at which the crawl stops
	// (default 10000).
	Target int `json:"target" yaml:"target"`

	// MaxPerTopic caps both the PMIDs requested and the cases saved for a
	// single topic (default 5000).
	MaxPerTopic int `json:"max_per_topic" yaml:"max_per_topic"`

	// OutputDir is the directory the timestamped CSV file is written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CandidateDelay is the fixed pause after every processed candidate,
	// successful or not (default 350ms).
	CandidateDelay time.Duration `json:"candidate_delay" yaml:"candidate_delay"`

	// TopicDelay is the fixed pause between topics (default 1s).
	TopicDelay time.Duration `json:"topic_delay" yaml:"topic_delay"`
}

// StoreConfig holds settings for the case archive database.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/archive/cases.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Crawl  CrawlConfig  `json:"crawl" yaml:"crawl"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
