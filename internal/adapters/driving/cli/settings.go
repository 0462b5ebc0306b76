package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kridos/AITabManager/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, search sensitivity, and
enrichment behaviour.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Configure the AI provider",
	Long: `Configure the AI provider used for summaries, tab grouping and embeddings.

Available providers:
  ollama    - Local models via Ollama (no API key)
  openai    - OpenAI cloud API
  anthropic - Anthropic cloud API (no embedding support)`,
	RunE: runSettingsProvider,
}

var settingsSensitivityCmd = &cobra.Command{
	Use:   "sensitivity [1-10]",
	Short: "Set search sensitivity",
	Long: `Set how strict semantic search matching is.

Low values (1) only return near-identical matches; high values (10) return
loosely related sessions. The default is 7.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSensitivity,
}

var settingsToggleCmd = &cobra.Command{
	Use:   "toggle [auto-context|auto-group|ai-rerank]",
	Short: "Toggle a feature flag",
	Long: `Toggle one of the feature flags:

  auto-context - enrich sessions automatically on capture
  auto-group   - propose tab groups during enrichment
  ai-rerank    - rerank search results with the LLM`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsToggle,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsSensitivityCmd)
	settingsCmd.AddCommand(settingsToggleCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  Provider: %s\n", settings.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Model)
	if settings.Provider.SupportsEmbeddings() {
		cmd.Printf("  Embedding model: %s\n", settings.EmbeddingModel)
	} else {
		cmd.Printf("  Embedding model: (not supported by provider)\n")
	}
	if settings.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.BaseURL)
	}
	if settings.Provider.RequiresAPIKey() {
		if settings.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLMConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Sensitivity: %d (threshold %.2f)\n",
		settings.SearchSensitivity, domain.SimilarityThreshold(settings.SearchSensitivity))
	cmd.Printf("  AI rerank: %s\n", onOff(settings.AIRerank))
	cmd.Println()

	cmd.Println("[Enrichment]")
	cmd.Printf("  Auto context: %s\n", onOff(settings.AutoContext))
	cmd.Printf("  Auto group: %s\n", onOff(settings.AutoGroup))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'aitab settings provider' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsProvider(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select AI Provider")
	providers := domain.AllProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	defaults := domain.DefaultModels()
	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure provider: %w", err)
	}

	cmd.Printf("Provider configured: %s (%s)\n", selected.Description(), model)
	if !selected.SupportsEmbeddings() {
		cmd.Println("Note: this provider has no embedding API; search falls back to text matching.")
	}
	return nil
}

func runSettingsSensitivity(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	sensitivity, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: sensitivity must be a number", domain.ErrInvalidInput)
	}

	if err := settingsService.SetSearchSensitivity(sensitivity); err != nil {
		return fmt.Errorf("failed to set sensitivity: %w", err)
	}

	cmd.Printf("Search sensitivity set to %d (similarity threshold %.2f).\n",
		sensitivity, domain.SimilarityThreshold(sensitivity))
	return nil
}

func runSettingsToggle(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	var value bool
	switch args[0] {
	case "auto-context":
		settings.AutoContext = !settings.AutoContext
		value = settings.AutoContext
	case "auto-group":
		settings.AutoGroup = !settings.AutoGroup
		value = settings.AutoGroup
	case "ai-rerank":
		settings.AIRerank = !settings.AIRerank
		value = settings.AIRerank
	default:
		return fmt.Errorf("%w: unknown flag %q", domain.ErrInvalidInput, args[0])
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("%s is now %s.\n", args[0], onOff(value))
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
