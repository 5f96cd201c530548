package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAIReviewer struct {
	client   *openai.Client
	settings Settings
}

func NewOpenAIReviewer(apiKey string, settings Settings) *OpenAIReviewer {
	return NewOpenAIReviewerWithConfig(openai.DefaultConfig(apiKey), settings)
}

func NewOpenAIReviewerWithConfig(cfg openai.ClientConfig, settings Settings) *OpenAIReviewer {
	return &OpenAIReviewer{
		client:   openai.NewClientWithConfig(cfg),
		settings: settings,
	}
}

func (r *OpenAIReviewer) Review(ctx context.Context, markdown string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: r.settings.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: r.settings.instruction(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(markdown),
			},
		},
		MaxTokens:   int(r.settings.MaxOutputTokens),
		Temperature: r.settings.Temperature,
		TopP:        r.settings.TopP,
	}

	resp, err := r.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
