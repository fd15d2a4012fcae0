package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
)

type geminiService struct {
	client          *genai.Client
	modelName       string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiService(ctx context.Context, opts GenerationOptions) (TextGenerator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:          client,
		modelName:       opts.Model,
		temperature:     opts.Temperature,
		maxOutputTokens: int32(opts.MaxOutputTokens),
	}, nil
}

func (g *geminiService) Name() string {
	return config.ProviderGemini
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxOutputTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return "", &models.GenerationError{Provider: g.Name(), Err: err}
	}

	if resp == nil {
		return "", &models.GenerationError{Provider: g.Name(), Err: fmt.Errorf("nil response")}
	}

	text := resp.Text()
	if text == "" {
		return "", &models.GenerationError{Provider: g.Name(), Err: errEmptyResponse}
	}

	return text, nil
}
