package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"exegesis/internal/study"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// =============================================================================
// GOOGLE GENAI MODEL
// =============================================================================

// Model is the remote boundary: one "generate structured document" call.
// Implementations return the raw text payload or an error that may carry a
// status code.
type Model interface {
	Generate(ctx context.Context, p study.Prompt) (string, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, p study.Prompt) (string, error)

func (f ModelFunc) Generate(ctx context.Context, p study.Prompt) (string, error) {
	return f(ctx, p)
}

// GenAIModel generates studies using Google's Gemini API.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates a new Gemini-backed model.
func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIModel{
		client: client,
		model:  model,
	}, nil
}

// Name returns the model name.
func (m *GenAIModel) Name() string {
	return fmt.Sprintf("genai:%s", m.model)
}

// Generate issues one GenerateContent call constrained to p.Schema.
// Errors from the SDK are returned as-is so their status survives.
func (m *GenAIModel) Generate(ctx context.Context, p study.Prompt) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(p.User, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   p.Schema,
		Temperature:      genai.Ptr(p.Temperature),
	}
	if strings.TrimSpace(p.System) != "" {
		config.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
