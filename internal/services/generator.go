package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/observability"
)

// TextGenerator sends one prompt to a hosted model and returns its text.
// Implementations return *models.GenerationError on any failure and never
// retry.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Name() string
}

// GenerationOptions are shared by every provider.
type GenerationOptions struct {
	Model           string
	APIKey          string
	BaseURL         string
	MaxOutputTokens int
	Temperature     float32
}

var errEmptyResponse = errors.New("no text content in response")

// NewTextGenerator builds the provider named in cfg.
func NewTextGenerator(ctx context.Context, provider string, cfg config.ProvidersConfig) (TextGenerator, error) {
	creds := cfg.Credentials(provider)
	opts := GenerationOptions{
		Model:           creds.Model,
		APIKey:          creds.APIKey,
		BaseURL:         creds.BaseURL,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s API key not configured", provider)
	}

	switch provider {
	case config.ProviderGemini:
		return NewGeminiService(ctx, opts)
	case config.ProviderOpenAI:
		return NewOpenAIService(opts), nil
	case config.ProviderAnthropic:
		return NewClaudeService(opts), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

type unavailableGenerator struct {
	provider string
	reason   error
}

// NewUnavailableGenerator returns a generator that fails every call. It
// stands in for a provider that could not be constructed at startup.
func NewUnavailableGenerator(provider string, reason error) TextGenerator {
	return &unavailableGenerator{provider: provider, reason: reason}
}

func (u *unavailableGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return "", &models.GenerationError{Provider: u.provider, Err: u.reason}
}

func (u *unavailableGenerator) Name() string {
	return u.provider
}

type instrumentedGenerator struct {
	next      TextGenerator
	operation string
}

// Instrument wraps a generator with logging and Prometheus metrics.
func Instrument(next TextGenerator, operation string) TextGenerator {
	return &instrumentedGenerator{next: next, operation: operation}
}

func (g *instrumentedGenerator) Name() string {
	return g.next.Name()
}

func (g *instrumentedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	provider := g.next.Name()

	ctxzap.Debug(ctx, "sending prompt to generation provider",
		zap.String("provider", provider),
		zap.String("operation", g.operation),
		zap.Int("prompt_length", len(prompt)),
	)

	text, err := g.next.GenerateText(ctx, prompt)
	elapsed := time.Since(start)
	observability.AIRequestDuration.WithLabelValues(provider, g.operation).Observe(elapsed.Seconds())

	if err != nil {
		observability.AIRequestsTotal.WithLabelValues(provider, g.operation, "error").Inc()
		ctxzap.Error(ctx, "generation failed",
			zap.String("provider", provider),
			zap.String("operation", g.operation),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	observability.AIRequestsTotal.WithLabelValues(provider, g.operation, "ok").Inc()
	ctxzap.Info(ctx, "generation completed",
		zap.String("provider", provider),
		zap.String("operation", g.operation),
		zap.Duration("elapsed", elapsed),
		zap.Int("response_length", len(text)),
	)
	return text, nil
}
