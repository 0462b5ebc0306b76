package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kridos/AITabManager/internal/core/domain"
)

func TestSettingsService_SetProvider_Ollama(t *testing.T) {
	store := newMockConfigStore(domain.DefaultSettings())
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderOllama, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Provider)
	assert.Equal(t, "llama3.2", settings.Model)
	assert.Equal(t, "nomic-embed-text", settings.EmbeddingModel)
}

func TestSettingsService_SetProvider_ExplicitModelWins(t *testing.T) {
	store := newMockConfigStore(domain.DefaultSettings())
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderOpenAI, "gpt-4o", "sk-test"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.Model)
	assert.Equal(t, "sk-test", settings.APIKey)
	assert.Equal(t, "text-embedding-3-small", settings.EmbeddingModel)
}

func TestSettingsService_SetProvider_KeepsExistingEmbeddingModel(t *testing.T) {
	initial := domain.DefaultSettings()
	initial.EmbeddingModel = "mxbai-embed-large"
	store := newMockConfigStore(initial)
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderOllama, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", settings.EmbeddingModel)
}

func TestSettingsService_SetProvider_AnthropicNoEmbeddingDefault(t *testing.T) {
	store := newMockConfigStore(domain.DefaultSettings())
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderAnthropic, "", "sk-ant-test"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.Model)
	assert.Empty(t, settings.EmbeddingModel)
	assert.False(t, settings.EmbeddingConfigured())
}

func TestSettingsService_SetProvider_UnknownProvider(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(domain.DefaultSettings()))

	err := service.SetProvider("gemini", "", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetProvider_CloudNeedsKey(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(domain.DefaultSettings()))

	err := service.SetProvider(domain.AIProviderOpenAI, "", "")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSettingsService_SetSearchSensitivity(t *testing.T) {
	store := newMockConfigStore(domain.DefaultSettings())
	service := NewSettingsService(store)

	require.NoError(t, service.SetSearchSensitivity(3))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.SearchSensitivity)
}

func TestSettingsService_SetSearchSensitivity_Bounds(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(domain.DefaultSettings()))

	assert.ErrorIs(t, service.SetSearchSensitivity(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetSearchSensitivity(11), domain.ErrInvalidInput)
}

func TestSettingsService_Save_Validates(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(domain.DefaultSettings()))

	bad := domain.DefaultSettings()
	bad.SearchSensitivity = 42

	assert.ErrorIs(t, service.Save(bad), domain.ErrInvalidInput)
}
