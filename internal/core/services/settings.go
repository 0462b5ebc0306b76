package services

import (
	"fmt"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages user configuration on top of a ConfigStore.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get retrieves current settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	return s.store.Load()
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: settings invalid", err)
	}
	return s.store.Save(settings)
}

// SetProvider configures the AI provider and credential. Model falls back to
// the provider default when empty.
func (s *SettingsService) SetProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: %s requires an API key", domain.ErrNotConfigured, provider)
	}

	settings, err := s.store.Load()
	if err != nil {
		return err
	}

	settings.Provider = provider
	settings.APIKey = apiKey
	if model != "" {
		settings.Model = model
	} else {
		settings.Model = domain.DefaultModels()[provider]
	}
	if settings.EmbeddingModel == "" && provider.SupportsEmbeddings() {
		settings.EmbeddingModel = domain.DefaultEmbeddingModels()[provider]
	}

	return s.Save(settings)
}

// SetSearchSensitivity updates the similarity knob.
func (s *SettingsService) SetSearchSensitivity(sensitivity int) error {
	if sensitivity < domain.MinSearchSensitivity || sensitivity > domain.MaxSearchSensitivity {
		return fmt.Errorf("%w: sensitivity %d outside [%d,%d]", domain.ErrInvalidInput,
			sensitivity, domain.MinSearchSensitivity, domain.MaxSearchSensitivity)
	}

	settings, err := s.store.Load()
	if err != nil {
		return err
	}
	settings.SearchSensitivity = sensitivity
	return s.Save(settings)
}
