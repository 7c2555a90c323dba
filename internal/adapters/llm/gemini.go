package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

// GeminiGenerator implements domain.ContentGenerator on Vertex AI (Gemini).
// Every method asks for JSON output and validates the payload shape; any
// error it returns is absorbed by the Resilient wrapper before the state
// machine sees it.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates the Vertex-backed generator.
func NewGeminiGenerator(ctx context.Context, projectID, location, modelName string) (*GeminiGenerator, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location must be set for the Gemini generator")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiGenerator{
		client:    client,
		modelName: modelName,
	}, nil
}

// generateJSON issues one JSON-mode call and decodes the payload into out.
func (g *GeminiGenerator) generateJSON(ctx context.Context, system, user string, out any) error {
	temp := float32(0.9)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return fmt.Errorf("gemini returned empty text")
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode gemini payload: %w", err)
	}
	return nil
}

func (g *GeminiGenerator) GenerateRiddle(ctx context.Context) (domain.Riddle, error) {
	var payload struct {
		Riddle  string   `json:"riddle"`
		Answers []string `json:"answers"`
	}
	if err := g.generateJSON(ctx, riddleSystemPrompt, riddleUserPrompt, &payload); err != nil {
		return domain.Riddle{}, err
	}
	if payload.Riddle == "" || len(payload.Answers) != 2 || payload.Answers[0] == "" || payload.Answers[1] == "" {
		return domain.Riddle{}, fmt.Errorf("malformed riddle payload")
	}
	return domain.Riddle{
		Text:    payload.Riddle,
		Answers: [2]string{payload.Answers[0], payload.Answers[1]},
	}, nil
}

func (g *GeminiGenerator) GenerateSigils(ctx context.Context, riddleAnswer string) ([2]string, error) {
	var payload struct {
		Sigils []string `json:"sigils"`
	}
	if err := g.generateJSON(ctx, sigilSystemPrompt, sigilUserPrompt(riddleAnswer), &payload); err != nil {
		return [2]string{}, err
	}
	if len(payload.Sigils) != 2 || !looksLikeSVG(payload.Sigils[0]) || !looksLikeSVG(payload.Sigils[1]) {
		return [2]string{}, fmt.Errorf("malformed sigil payload")
	}
	return [2]string{payload.Sigils[0], payload.Sigils[1]}, nil
}

func (g *GeminiGenerator) GenerateCardArtwork(ctx context.Context, card string) (string, error) {
	var payload struct {
		SVG string `json:"svg"`
	}
	if err := g.generateJSON(ctx, cardArtSystemPrompt, cardArtUserPrompt(card), &payload); err != nil {
		return "", err
	}
	if !looksLikeSVG(payload.SVG) {
		return "", fmt.Errorf("malformed card artwork payload")
	}
	return payload.SVG, nil
}

func (g *GeminiGenerator) GenerateMantra(ctx context.Context, riddleAnswer, sigil, card string) (string, error) {
	var payload struct {
		Mantra string `json:"mantra"`
	}
	if err := g.generateJSON(ctx, mantraSystemPrompt, mantraUserPrompt(riddleAnswer, sigil, card), &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Mantra) == "" {
		return "", fmt.Errorf("empty mantra payload")
	}
	return payload.Mantra, nil
}

func (g *GeminiGenerator) GenerateSoundSpec(ctx context.Context, riddleAnswer, sigil, card, mantra string) (*domain.SoundSpec, error) {
	spec := &domain.SoundSpec{}
	if err := g.generateJSON(ctx, soundSystemPrompt, soundUserPrompt(riddleAnswer, sigil, card, mantra), spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sound spec: %w", err)
	}
	return spec, nil
}

func looksLikeSVG(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "<svg") && strings.HasSuffix(s, "</svg>")
}
