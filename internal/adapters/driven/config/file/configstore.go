package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// tomlSettings is the on-disk settings shape.
type tomlSettings struct {
	Provider          string `toml:"provider"`
	Model             string `toml:"model"`
	EmbeddingModel    string `toml:"embedding_model"`
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	SearchSensitivity int    `toml:"search_sensitivity"`
	AutoContext       bool   `toml:"auto_context"`
	AutoGroup         bool   `toml:"auto_group"`
	AIRerank          bool   `toml:"ai_rerank"`
}

// ConfigStore is a TOML file-based implementation of driven.ConfigStore.
// Settings are stored in ~/.aitab/config.toml by default.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.aitab.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".aitab")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the TOML file. A missing file yields defaults.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	var stored tomlSettings
	if err := toml.Unmarshal(data, &stored); err != nil {
		return domain.Settings{}, fmt.Errorf("parse config: %w", err)
	}

	settings := domain.Settings{
		Provider:          domain.AIProvider(stored.Provider),
		Model:             stored.Model,
		EmbeddingModel:    stored.EmbeddingModel,
		APIKey:            stored.APIKey,
		BaseURL:           stored.BaseURL,
		SearchSensitivity: stored.SearchSensitivity,
		AutoContext:       stored.AutoContext,
		AutoGroup:         stored.AutoGroup,
		AIRerank:          stored.AIRerank,
	}
	if settings.SearchSensitivity == 0 {
		settings.SearchSensitivity = domain.DefaultSettings().SearchSensitivity
	}

	return settings, nil
}

// Save persists settings to the TOML file with restricted permissions
// (the file holds the API key).
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := tomlSettings{
		Provider:          settings.Provider.String(),
		Model:             settings.Model,
		EmbeddingModel:    settings.EmbeddingModel,
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		SearchSensitivity: settings.SearchSensitivity,
		AutoContext:       settings.AutoContext,
		AutoGroup:         settings.AutoGroup,
		AIRerank:          settings.AIRerank,
	}

	data, err := toml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
