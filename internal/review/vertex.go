package review

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexReviewer ходит в Gemini через Vertex AI. Клиент создается на каждый вызов.
type VertexReviewer struct {
	projectID string
	location  string
	settings  Settings
}

func NewVertexReviewer(projectID, location string, settings Settings) *VertexReviewer {
	return &VertexReviewer{
		projectID: projectID,
		location:  location,
		settings:  settings,
	}
}

func (r *VertexReviewer) Review(ctx context.Context, markdown string) (string, error) {
	client, err := genai.NewClient(ctx, r.projectID, r.location)
	if err != nil {
		return "", fmt.Errorf("create vertexai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(r.settings.Model)
	configureModel(model, r.settings)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(markdown)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return responseText(resp)
}

func configureModel(model *genai.GenerativeModel, s Settings) {
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(s.instruction())},
	}
	model.SetMaxOutputTokens(s.MaxOutputTokens)
	model.SetTemperature(s.Temperature)
	model.SetTopP(s.TopP)
	model.SafetySettings = safetySettings()
}

// Все четыре категории блокируются начиная со средней степени
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockMediumAndAbove,
		})
	}

	return settings
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return b.String(), nil
}
