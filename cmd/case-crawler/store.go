package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/case-crawler/internal/store"
	"github.com/pdiddy/case-crawler/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Archive harvested CSV files and query the case archive",
	Long: `Store ingests harvested CSV files into a SQLite case archive with a
full-text index over titles and clinical narratives, and answers
filtered queries by topic, gender, or free text. With no load or query
flags it prints per-topic case counts.`,
	RunE: runStore,
}

func init() {
	storeCmd.Flags().String("db", "", `archive database file (default "data/archive/cases.db")`)
	storeCmd.Flags().StringSlice("load", nil, "harvested CSV file(s) to ingest")
	storeCmd.Flags().String("query", "", "full-text search over title and clinical narrative")
	storeCmd.Flags().String("topic", "", "filter by disease label")
	storeCmd.Flags().String("gender", "", "filter by patient gender: Male or Female")
	storeCmd.Flags().Int("limit", 0, "maximum number of query results (default 20)")
	storeCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store.db_path")
	}
	if dbPath == "" {
		dbPath = "data/archive/cases.db"
	}
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := store.Open(types.StoreConfig{DBPath: dbPath, MaxResults: limit})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()

	if loads, _ := cmd.Flags().GetStringSlice("load"); len(loads) > 0 {
		total := 0
		for _, path := range loads {
			n, err := s.LoadCSV(ctx, path, os.Stdout)
			if err != nil {
				return err
			}
			total += n
		}
		fmt.Printf("archived %d cases into %s\n", total, dbPath)
		return nil
	}

	fullText, _ := cmd.Flags().GetString("query")
	topic, _ := cmd.Flags().GetString("topic")
	gender, _ := cmd.Flags().GetString("gender")

	if fullText == "" && topic == "" && gender == "" {
		counts, err := s.TopicCounts(ctx)
		if err != nil {
			return err
		}
		total := 0
		for _, tc := range counts {
			fmt.Printf("%6d  %s\n", tc.Count, tc.Topic)
			total += tc.Count
		}
		fmt.Printf("\n%d cases archived\n", total)
		return nil
	}

	records, err := s.Query(ctx, store.QueryFilter{
		Topic:    topic,
		Gender:   gender,
		FullText: fullText,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	fmt.Printf("%-28s  %-22s  %-4s  %-6s  %-4s  %s\n",
		"Case", "Topic", "Age", "Gender", "Year", "Title")
	fmt.Println(strings.Repeat("-", 110))
	for _, rec := range records {
		title := rec.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-28s  %-22s  %-4s  %-6s  %-4s  %s\n",
			rec.CaseID, rec.Topic, rec.Age, rec.Gender, rec.Year, title)
	}
	fmt.Printf("\n%d cases\n", len(records))
	return nil
}
