// Package limited provides a rate-limiting decorator for LLM services.
// Concurrent enrichment workflows all funnel through the same provider, so a
// token bucket keeps burst traffic under cloud API quotas.
package limited

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kridos/AITabManager/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default rate limit: conservative, well below cloud provider quotas.
const (
	DefaultRequestsPerSecond = 2.0
	DefaultBurstSize         = 4
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int
}

// LLMService wraps another LLM service with a token-bucket rate limiter.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// Wrap decorates an LLM service with rate limiting.
func Wrap(inner driven.LLMService, cfg Config) *LLMService {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &LLMService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Generate waits for a rate limit token, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a rate limit token.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
