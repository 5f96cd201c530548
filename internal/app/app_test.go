package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kovalyov-valentin/blog-auto-review/internal/config"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/review"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewer(t *testing.T) {
	name, r := newReviewer(config.Config{ModelProvider: "vertexai", ModelName: "gemini-1.5-flash-001"})
	assert.Equal(t, "gemini-1.5-flash-001", name)
	assert.IsType(t, &review.VertexReviewer{}, r)

	name, r = newReviewer(config.Config{ModelProvider: "openai", ModelName: "gemini-1.5-flash-001", OpenAIKey: "sk"})
	assert.Equal(t, openai.GPT3Dot5Turbo, name)
	assert.IsType(t, &review.OpenAIReviewer{}, r)

	name, _ = newReviewer(config.Config{ModelProvider: "openai", ModelName: "gpt-4", OpenAIKey: "sk"})
	assert.Equal(t, "gpt-4", name)
}

func TestReviewSettings(t *testing.T) {
	settings := reviewSettings(config.Config{ModelName: "gemini-1.5-flash-001"})
	assert.Equal(t, review.DefaultSettings("gemini-1.5-flash-001"), settings)

	settings = reviewSettings(config.Config{
		ModelName:         "gemini-1.5-pro-001",
		ReviewInstruction: "Check typos only.",
		MaxOutputTokens:   1024,
		Temperature:       0.2,
		TopP:              0.5,
	})
	assert.Equal(t, review.Settings{
		Model:           "gemini-1.5-pro-001",
		Instruction:     "Check typos only.",
		MaxOutputTokens: 1024,
		Temperature:     0.2,
		TopP:            0.5,
	}, settings)
}

func TestBuildersValidate(t *testing.T) {
	logger := logging.NewWithWriter(io.Discard, false)

	_, _, err := NewPoller(context.Background(), config.Config{}, logger)
	assert.Error(t, err)

	_, _, err = NewPipeline(context.Background(), config.Config{}, logger)
	assert.Error(t, err)
}

func TestNewPoller_Kafka(t *testing.T) {
	logger := logging.NewWithWriter(io.Discard, false)
	cfg := config.Config{
		FeedURL:      "https://example.com/feed",
		FeedParser:   "gofeed",
		LookupWindow: time.Hour,
		QueueDriver:  "kafka",
		KafkaBrokers: []string{"localhost:9092"},
		TopicName:    "blog",
	}

	poller, cleanup, err := NewPoller(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, poller)
	cleanup()
}

func TestClosersRunInReverse(t *testing.T) {
	var order []int
	var c closers
	c.add(func() error { order = append(order, 1); return nil })
	c.add(func() error { order = append(order, 2); return errors.New("ignored") })

	c.run(logging.NewWithWriter(io.Discard, false))()
	assert.Equal(t, []int{2, 1}, order)
}
