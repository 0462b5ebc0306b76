// Command aitab is the browser session manager CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kridos/AITabManager/internal/adapters/driven/ai"
	"github.com/kridos/AITabManager/internal/adapters/driven/config/file"
	"github.com/kridos/AITabManager/internal/adapters/driven/storage/kv"
	"github.com/kridos/AITabManager/internal/adapters/driven/storage/sqlite"
	"github.com/kridos/AITabManager/internal/adapters/driving/cli"
	"github.com/kridos/AITabManager/internal/core/services"
	"github.com/kridos/AITabManager/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising storage: %w", err)
	}
	defer store.Close()

	sessionStore := kv.NewSessionStore(store.KVStore())
	vectorStore := store.VectorStore()

	settings, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// AI services are optional: an unconfigured or unreachable provider
	// degrades capture and search rather than blocking the CLI.
	llm, err := ai.CreateLLMService(settings)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
	}
	if llm != nil {
		defer llm.Close()
	}

	embedder, err := ai.CreateEmbeddingService(settings)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}
	if embedder != nil {
		defer embedder.Close()
	}

	var reranker *services.Reranker
	if llm != nil {
		reranker = services.NewReranker(llm)
	}

	enrichService := services.NewEnrichmentService(sessionStore, vectorStore, llm, embedder, configStore)
	searchService := services.NewSearchService(sessionStore, vectorStore, embedder, reranker, configStore)
	sessionService := services.NewSessionService(sessionStore, vectorStore, enrichService, configStore)
	settingsService := services.NewSettingsService(configStore)

	// Pick up external config edits while long-running commands (tui, mcp
	// serve) are active. Services re-read settings per operation, so the
	// watcher only needs to announce the change.
	stop := make(chan struct{})
	defer close(stop)
	if err := configStore.Watch(stop, func() {
		logger.Info("Settings file changed, new values apply to subsequent operations")
	}); err != nil {
		logger.Warn("Config watcher unavailable: %v", err)
	}

	cli.SetVersion(version)
	cli.SetSearchService(searchService)
	cli.SetSessionService(sessionService)
	cli.SetEnrichmentService(enrichService)
	cli.SetSettingsService(settingsService)

	return cli.Execute()
}
