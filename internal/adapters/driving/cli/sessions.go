package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kridos/AITabManager/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage captured sessions",
	Long:  `List, inspect, rename, delete, or restore captured sessions.`,
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show session details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename [session-id] [new-name]",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsRename,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its embedding",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsRestoreCmd = &cobra.Command{
	Use:   "restore [session-id]",
	Short: "Print a session's tab URLs for restoring",
	Long: `Print the tab URLs of a session, one per line, grouped by window.
Pipe the output to a browser launcher to reopen the tabs.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsRestore,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRestoreCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions captured yet. Run 'aitab capture' to create one.")
		return nil
	}

	cmd.Println("Sessions:")
	cmd.Println()
	for i := range sessions {
		session := &sessions[i]
		cmd.Printf("  %s\n", session.ID)
		cmd.Printf("    Name:     %s\n", session.Name)
		cmd.Printf("    Captured: %s\n", session.Timestamp.Format("2006-01-02 15:04:05"))
		cmd.Printf("    Tabs:     %d\n", len(session.Tabs))
		cmd.Printf("    Status:   %s\n", generationLabel(session))
		cmd.Println()
	}

	cmd.Printf("Total: %d sessions\n", len(sessions))
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	cmd.Printf("Session: %s\n\n", session.ID)
	cmd.Printf("  Name:     %s\n", session.Name)
	cmd.Printf("  Captured: %s\n", session.Timestamp.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Windows:  %d\n", len(session.Windows))
	cmd.Printf("  Status:   %s\n", generationLabel(session))

	if session.HasContext() {
		cmd.Printf("\n  Summary: %s\n", session.Context)
	}

	if len(session.TabGroups) > 0 {
		cmd.Println("\n  Tab groups:")
		for _, group := range session.TabGroups {
			cmd.Printf("    %s (%d tabs)\n", group.Name, len(group.TabIndices))
		}
	}

	cmd.Println("\n  Tabs:")
	for i := range session.Tabs {
		tab := &session.Tabs[i]
		cmd.Printf("    [%d] %s\n", i+1, tab.Title)
		cmd.Printf("        %s\n", tab.URL)
	}

	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Rename(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}

	cmd.Printf("Session %s renamed to %q.\n", args[0], args[1])
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	cmd.Printf("Session %s deleted.\n", args[0])
	return nil
}

func runSessionsRestore(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Restore(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	for i := range session.Tabs {
		cmd.Println(session.Tabs[i].URL)
	}
	return nil
}

// generationLabel renders the enrichment state for display, including the
// stored error message when the last run failed.
func generationLabel(session *domain.Session) string {
	state := session.GenerationState()
	if state == domain.GenerationError && session.Generation.Message != "" {
		return fmt.Sprintf("%s (%s)", state, session.Generation.Message)
	}
	return state.String()
}
