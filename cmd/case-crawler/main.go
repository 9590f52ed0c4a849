// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the case-crawler CLI: a harvester
// that turns PMC case-report articles into normalized tabular records for
// downstream data mining.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/case-crawler/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// secretDefault returns fallback when set, then the secret value for key,
// then the empty string.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the case-crawler CLI.
var rootCmd = &cobra.Command{
	Use:   "case-crawler",
	Short: "Harvest clinical case reports from PubMed Central",
	Long: `case-crawler searches PubMed for case reports on a curated list of
diseases, resolves each hit to its PMC full-text article, extracts the
clinical narrative (presentation, symptoms, exam, labs, imaging,
diagnosis, treatment, outcome) plus patient age and gender, and appends
one normalized row per accepted case to a CSV file.

The crawl is deliberately sequential and rate-limited to respect NCBI
usage expectations. The store subcommand archives harvested CSV files in
a SQLite database for querying.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./case-crawler.yaml or ~/.config/case-crawler/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("case-crawler")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "case-crawler"))
		}
	}

	viper.SetEnvPrefix("CASE_CRAWLER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
