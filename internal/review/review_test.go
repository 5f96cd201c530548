package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("# Title\n\nbody")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(prompt), "以下ブログのレビューお願いします"))
	assert.Contains(t, prompt, "```\n# Title\n\nbody\n```")
}

func TestSafetySettings(t *testing.T) {
	settings := safetySettings()
	require.Len(t, settings, 4)

	categories := make([]genai.HarmCategory, 0, len(settings))
	for _, s := range settings {
		assert.Equal(t, genai.HarmBlockMediumAndAbove, s.Threshold)
		categories = append(categories, s.Category)
	}

	assert.ElementsMatch(t, []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}, categories)
}

func TestConfigureModel(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, DefaultSettings("gemini-1.5-flash-001"))

	require.NotNil(t, model.MaxOutputTokens)
	require.NotNil(t, model.Temperature)
	require.NotNil(t, model.TopP)
	assert.Equal(t, int32(8192), *model.MaxOutputTokens)
	assert.Equal(t, float32(1), *model.Temperature)
	assert.Equal(t, float32(0.95), *model.TopP)
	assert.Len(t, model.SafetySettings, 4)

	require.NotNil(t, model.SystemInstruction)
	require.Len(t, model.SystemInstruction.Parts, 1)
	assert.Equal(t, genai.Text(DefaultInstruction), model.SystemInstruction.Parts[0])
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("問題"), genai.Text("ありません")}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "問題ありません", text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIReviewer(t *testing.T) {
	var got openai.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " 問題ありません \n"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	settings := DefaultSettings(openai.GPT3Dot5Turbo)
	text, err := NewOpenAIReviewerWithConfig(cfg, settings).Review(context.Background(), "body")
	require.NoError(t, err)

	assert.Equal(t, "問題ありません", text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, DefaultInstruction, got.Messages[0].Content)
	assert.Equal(t, BuildPrompt("body"), got.Messages[1].Content)
	assert.Equal(t, 8192, got.MaxTokens)
	assert.Equal(t, float32(1), got.Temperature)
	assert.Equal(t, float32(0.95), got.TopP)
}

func TestOpenAIReviewer_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	_, err := NewOpenAIReviewerWithConfig(cfg, DefaultSettings(openai.GPT3Dot5Turbo)).Review(context.Background(), "body")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
