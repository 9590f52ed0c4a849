// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Topic pairs a disease label with an optional per-topic result cap. A
// zero MaxResults falls back to the crawl-wide cap.
type Topic struct {
	Label      string `yaml:"label"`
	MaxResults int    `yaml:"max_results,omitempty"`
}

// DefaultTopics returns the curated list of 25 disease labels, in crawl
// order: 10 cancers, 5 infectious diseases, 5 chronic diseases, 3
// emergency conditions, and 2 common conditions. Chosen for prevalence,
// clinical significance, and case-report availability.
func DefaultTopics() []Topic {
	labels := []string{
		"breast cancer",
		"lung cancer",
		"colon cancer",
		"prostate cancer",
		"gastric cancer",
		"liver cancer",
		"pancreatic cancer",
		"ovarian cancer",
		"cervical cancer",
		"thyroid cancer",

		"tuberculosis",
		"pneumonia",
		"sepsis",
		"meningitis",
		"covid-19",

		"diabetes mellitus",
		"hypertension",
		"heart failure",
		"stroke",
		"chronic kidney disease",

		"myocardial infarction",
		"pulmonary embolism",
		"acute respiratory failure",

		"asthma",
		"epilepsy",
	}

	topics := make([]Topic, len(labels))
	for i, label := range labels {
		topics[i] = Topic{Label: label}
	}
	return topics
}

// TopicFile is the on-disk representation of a topic list, so a crawl can
// run over a custom set of conditions instead of the curated default.
type TopicFile struct {
	Topics []Topic `yaml:"topics"`
}

// ReadTopicFile loads a topic list from a YAML file.
func ReadTopicFile(path string) ([]Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topic file: %w", err)
	}
	var tf TopicFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing topic file: %w", err)
	}
	if len(tf.Topics) == 0 {
		return nil, fmt.Errorf("topic file %s lists no topics", path)
	}
	return tf.Topics, nil
}

// WriteTopicFile saves a topic list to a YAML file.
func WriteTopicFile(path string, topics []Topic) error {
	data, err := yaml.Marshal(TopicFile{Topics: topics})
	if err != nil {
		return fmt.Errorf("marshaling topic file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
