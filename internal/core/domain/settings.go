package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for summaries, embeddings and reranking.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if this provider can generate embedding vectors.
// Sessions enriched without an embedding-capable provider stay reachable only
// through text matching and reranking.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// Sensitivity bounds for the similarity search knob.
const (
	MinSearchSensitivity = 1
	MaxSearchSensitivity = 10
)

// SimilarityThreshold converts the user-facing sensitivity knob to a cosine
// similarity cut-off: t = (11 - s) / 10. Sensitivity 10 yields 0.1 (permissive),
// sensitivity 1 yields 1.0 (near-exact matches only).
func SimilarityThreshold(sensitivity int) float64 {
	return float64(11-sensitivity) / 10.0
}

// Settings holds the user configuration consumed by the core.
type Settings struct {
	// Provider is the active AI provider.
	Provider AIProvider

	// Model is the language model name (provider defaults apply when empty).
	Model string

	// EmbeddingModel is the embedding model name (provider defaults apply when empty).
	EmbeddingModel string

	// APIKey is the provider credential (cloud providers only).
	APIKey string

	// BaseURL overrides the provider endpoint (Ollama, API-compatible gateways).
	BaseURL string

	// SearchSensitivity is the similarity knob in [1,10].
	SearchSensitivity int

	// AutoContext enables enrichment immediately after capture.
	AutoContext bool

	// AutoGroup enables topical tab grouping during enrichment.
	AutoGroup bool

	// AIRerank enables the LLM reranking search tier.
	AIRerank bool
}

// DefaultSettings returns settings with sensible defaults. The AI provider is
// left unconfigured; users must set it up explicitly.
func DefaultSettings() Settings {
	return Settings{
		SearchSensitivity: 7,
		AutoContext:       true,
		AutoGroup:         true,
		AIRerank:          false,
	}
}

// LLMConfigured returns true when the settings describe a usable language model
// provider (valid provider, credential present where required).
func (s Settings) LLMConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingConfigured returns true when the settings describe a usable
// embedding provider.
func (s Settings) EmbeddingConfigured() bool {
	return s.LLMConfigured() && s.Provider.SupportsEmbeddings()
}

// Validate checks settings invariants. A sensitivity outside [1,10] is a
// configuration error, reported before any search tier runs.
func (s Settings) Validate() error {
	if s.Provider != "" && !s.Provider.IsValid() {
		return ErrInvalidInput
	}
	if s.SearchSensitivity < MinSearchSensitivity || s.SearchSensitivity > MaxSearchSensitivity {
		return ErrInvalidInput
	}
	return nil
}

// AllProviders returns every supported AI provider.
func AllProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultModels returns the default language model for each provider.
func DefaultModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// DefaultEmbeddingModels returns the default embedding model for each
// embedding-capable provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}
