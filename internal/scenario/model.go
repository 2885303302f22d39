package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModelID is the Gemini model used for scenario generation.
// Flash is sufficient for single-turn structured text and keeps request
// latency inside the API Gateway window.
const DefaultModelID = "gemini-2.5-flash"

// ModelName returns the text model ID, honouring the WHATIF_TEXT_MODEL
// environment override.
func ModelName() string {
	if v := os.Getenv("WHATIF_TEXT_MODEL"); v != "" {
		return v
	}
	return DefaultModelID
}

// TextModel generates free-form text from a system instruction and a user
// prompt. Satisfied by GeminiModel in production and by fakes in tests.
type TextModel interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// GeminiModel implements TextModel against the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed text model. The API key comes from
// GEMINI_API_KEY (loaded from SSM at cold start when unset).
func NewGeminiModel(ctx context.Context) (*GeminiModel, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiModel{client: client, model: ModelName()}, nil
}

// GenerateText sends one user turn with a system instruction and returns the
// concatenated response text.
func (m *GeminiModel) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from model %s", m.model)
	}

	text := resp.Text()
	log.Debug().
		Str("model", m.model).
		Int("responseLength", len(text)).
		Msg("Text model response received")
	return text, nil
}
