package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/harx/gig-wizard-api/internal/models"
)

const defaultSuggestionModel = "gemini-2.5-flash"

const suggestionInstruction = `You extract structured job offers for a sales outsourcing marketplace.
Read the job description and answer with one JSON object and nothing else, using these keys:
title, description, category, seniority {level, yearsExperience},
schedules [{day, hours {start, end}}] with English weekday names and 24-hour HH:MM times,
timeZones [IANA names], minimumHours {daily, weekly, monthly},
skills {professional [names], technical [names], soft [names]},
languages [{name, proficiency}] with CEFR proficiency A1..C2,
commission {base, baseAmount, bonus, bonusAmount, currency (ISO 4217)}, teamSize.
Leave a key empty when the description does not say.`

// SuggestionModel reads free text into a gig suggestion.
type SuggestionModel interface {
	Suggest(ctx context.Context, text string) (*models.GigSuggestion, error)
}

// GenAISuggester asks a Gemini model for a JSON suggestion.
type GenAISuggester struct {
	client *genai.Client
	model  string
}

// NewGenAISuggester creates the client. An empty model selects the default.
func NewGenAISuggester(ctx context.Context, apiKey, model string) (*GenAISuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = defaultSuggestionModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAISuggester{client: client, model: model}, nil
}

// Suggest sends the description and decodes the JSON answer.
func (g *GenAISuggester) Suggest(ctx context.Context, text string) (*models.GigSuggestion, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(suggestionInstruction, genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("genai generate: %w", err)
	}
	return DecodeSuggestion(resp.Text())
}

// DecodeSuggestion parses a model answer, tolerating a fenced code block around the JSON.
func DecodeSuggestion(raw string) (*models.GigSuggestion, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if raw == "" {
		return nil, fmt.Errorf("empty suggestion")
	}
	var suggestion models.GigSuggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	suggestion.Source = models.SuggestionSourceAI
	return &suggestion, nil
}
