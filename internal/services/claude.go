package services

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
)

type claudeService struct {
	client      anthropic.Client
	model       string
	temperature float32
	maxTokens   int64
}

func NewClaudeService(opts GenerationOptions) TextGenerator {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &claudeService{
		client:      anthropic.NewClient(clientOpts...),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   int64(opts.MaxOutputTokens),
	}
}

func (c *claudeService) Name() string {
	return config.ProviderAnthropic
}

// GenerateText implements TextGenerator.
func (c *claudeService) GenerateText(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(float64(c.temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", &models.GenerationError{Provider: c.Name(), Err: err}
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}

	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return "", &models.GenerationError{Provider: c.Name(), Err: errEmptyResponse}
	}

	return text, nil
}
