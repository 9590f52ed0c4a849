package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-crawler/internal/eutils"
	"github.com/pdiddy/case-crawler/internal/secrets"
	"github.com/pdiddy/case-crawler/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <topic>",
	Short: "Run one topic search without crawling",
	Long: `Search issues a single PubMed query for "<topic> case report" and prints
the candidate PMIDs in relevance order, without resolving or fetching
anything. Useful for sizing a topic before a crawl.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 20, "maximum number of PMIDs to return")
	searchCmd.Flags().String("email", "", "requester contact email sent to NCBI (default: .secrets/ncbi-email)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	email, _ := cmd.Flags().GetString("email")
	email = secretDefault(secrets.KeyEmail, email)

	client := eutils.NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Email:  email,
		APIKey: secretDefault(secrets.KeyAPIKey, ""),
	})

	pmids, total, err := client.SearchCaseReports(cmd.Context(), topic, maxResults)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Topic string   `json:"topic"`
			Total int      `json:"total"`
			PMIDs []string `json:"pmids"`
		}{Topic: topic, Total: total, PMIDs: pmids})
	}

	fmt.Printf("%-4s  %s\n", "Rank", "PMID")
	fmt.Println(strings.Repeat("-", 16))
	for i, pmid := range pmids {
		fmt.Printf("%-4d  %s\n", i+1, pmid)
	}
	fmt.Printf("\n%d candidates of %d total matches for %q\n", len(pmids), total, topic)
	return nil
}
