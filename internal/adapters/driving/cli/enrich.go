package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kridos/AITabManager/internal/core/domain"
)

var enrichWait bool

var enrichCmd = &cobra.Command{
	Use:   "enrich [session-id]",
	Short: "Generate summary, tab groups and embedding for a session",
	Long: `Run the enrichment workflow for a session: an AI-generated summary,
topical tab groups, and an embedding vector for semantic search.

By default the workflow runs in the background and the command returns
immediately. Use --wait to block until it finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

var enrichStatusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show enrichment status for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrichStatus,
}

func init() {
	enrichCmd.Flags().BoolVarP(&enrichWait, "wait", "w", false, "block until enrichment completes")
	enrichCmd.AddCommand(enrichStatusCmd)
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if enrichService == nil {
		return errors.New("enrichment service not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	if enrichWait {
		cmd.Printf("Enriching session %s...\n", sessionID)
		if err := enrichService.Enrich(ctx, sessionID); err != nil {
			return fmt.Errorf("enrichment failed: %w", err)
		}
		cmd.Println("Enrichment complete.")
		return nil
	}

	if err := enrichService.EnrichAsync(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to start enrichment: %w", err)
	}
	cmd.Printf("Enrichment started for session %s.\n", sessionID)
	cmd.Println("Check progress with 'aitab enrich status " + sessionID + "'.")
	return nil
}

func runEnrichStatus(cmd *cobra.Command, args []string) error {
	if enrichService == nil {
		return errors.New("enrichment service not configured")
	}

	status, err := enrichService.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	cmd.Printf("State: %s\n", status.State)
	if status.State == domain.GenerationError && status.Message != "" {
		cmd.Printf("Error: %s\n", status.Message)
	}
	return nil
}
