// Package cli provides the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kridos/AITabManager/internal/core/ports/driving"
	"github.com/kridos/AITabManager/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	searchService   driving.SearchService
	sessionService  driving.SessionService
	enrichService   driving.EnrichmentService
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "aitab",
	Short: "AI-assisted browser session manager",
	Long: `aitab captures browser tab sessions, enriches them with AI-generated
summaries and tab groups, and finds them again with semantic search.

Capture a snapshot of your open tabs, let the background enrichment
summarise it, then search by what you were doing rather than by exact
tab titles.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSearchService injects the search service.
func SetSearchService(svc driving.SearchService) {
	searchService = svc
}

// SetSessionService injects the session service.
func SetSessionService(svc driving.SessionService) {
	sessionService = svc
}

// SetEnrichmentService injects the enrichment service.
func SetEnrichmentService(svc driving.EnrichmentService) {
	enrichService = svc
}

// SetSettingsService injects the settings service.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
