package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
)

type openAIService struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIService(opts GenerationOptions) TextGenerator {
	clientCfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = opts.BaseURL
	}

	return &openAIService{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxOutputTokens,
	}
}

func (o *openAIService) Name() string {
	return config.ProviderOpenAI
}

// GenerateText implements TextGenerator.
func (o *openAIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &models.GenerationError{Provider: o.Name(), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &models.GenerationError{Provider: o.Name(), Err: fmt.Errorf("no choices in response")}
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &models.GenerationError{Provider: o.Name(), Err: errEmptyResponse}
	}

	return text, nil
}
