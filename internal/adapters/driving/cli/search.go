package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kridos/AITabManager/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search captured sessions",
	Long: `Search sessions by natural-language query.

Searches tier by tier: semantic similarity against session summaries first,
then plain text matching on names and summaries, then optional AI reranking
when enabled in settings. The output reports which method produced the results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	resp, err := searchService.Search(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchText(cmd, resp)
}

func outputSearchJSON(cmd *cobra.Command, resp domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, resp domain.SearchResponse) error {
	for _, warning := range resp.Warnings {
		cmd.Printf("Warning: %s\n", warning)
	}

	if len(resp.Results) == 0 {
		cmd.Println("No sessions found.")
		return nil
	}

	cmd.Printf("Results (%s):\n\n", resp.Method)
	for i := range resp.Results {
		session := &resp.Results[i]
		cmd.Printf("  [%d] %s (%d tabs, %s)\n", i+1, session.Name, len(session.Tabs),
			session.Timestamp.Format("2006-01-02 15:04"))
		cmd.Printf("      ID: %s\n", session.ID)
		if session.HasContext() {
			cmd.Printf("      %s\n", session.Context)
		}
		cmd.Println()
	}

	return nil
}
