// Package imagegen calls the image model service to turn enhanced prompts
// into concept art frames.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Defaults for text-to-image requests. The gallery renders 1024px squares;
// guidance and step count are tuned for prompt adherence over speed.
const (
	DefaultCfgScale = 10
	DefaultSteps    = 50
	DefaultWidth    = 1024
	DefaultHeight   = 1024
	stylePreset     = "enhance"
)

// Params describes one text-to-image request. Zero-valued fields fall back
// to the package defaults; a zero Seed asks the service to pick one.
type Params struct {
	Prompt   string
	Seed     int64
	CfgScale float64
	Steps    int
	Width    int
	Height   int
}

// Artifact is one generated image.
type Artifact struct {
	Data []byte
	Seed int64
}

// Generator produces a single image from params. Satisfied by RESTGenerator
// in production and by fakes in tests.
type Generator interface {
	Generate(ctx context.Context, p Params) (*Artifact, error)
}

// RESTGenerator calls a Stable Diffusion compatible text-to-image endpoint.
type RESTGenerator struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRESTGenerator creates a generator for the endpoint in IMAGE_API_URL,
// authenticated with IMAGE_API_KEY (loaded from SSM at cold start when unset).
func NewRESTGenerator() (*RESTGenerator, error) {
	endpoint := os.Getenv("IMAGE_API_URL")
	if endpoint == "" {
		return nil, fmt.Errorf("IMAGE_API_URL is not set")
	}
	return &RESTGenerator{
		endpoint: endpoint,
		apiKey:   os.Getenv("IMAGE_API_KEY"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// --- Request/response types (Stability-style JSON contract) ---

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight,omitempty"`
}

type generateRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    float64      `json:"cfg_scale"`
	Seed        int64        `json:"seed"`
	Steps       int          `json:"steps"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Samples     int          `json:"samples"`
	StylePreset string       `json:"style_preset,omitempty"`
}

type generateResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		Seed         int64  `json:"seed"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Generate sends one text-to-image request and decodes the first artifact.
func (g *RESTGenerator) Generate(ctx context.Context, p Params) (*Artifact, error) {
	if p.CfgScale == 0 {
		p.CfgScale = DefaultCfgScale
	}
	if p.Steps == 0 {
		p.Steps = DefaultSteps
	}
	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}

	req := generateRequest{
		TextPrompts: []textPrompt{{Text: p.Prompt, Weight: 1}},
		CfgScale:    p.CfgScale,
		Seed:        p.Seed,
		Steps:       p.Steps,
		Width:       p.Width,
		Height:      p.Height,
		Samples:     1,
		StylePreset: stylePreset,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	callStart := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(respBody), 300)).
			Msg("Image model returned error")
		return nil, fmt.Errorf("image model returned status %d: %s", resp.StatusCode, truncate(string(respBody), 120))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(genResp.Artifacts) == 0 {
		return nil, fmt.Errorf("no artifacts in image model response")
	}

	art := genResp.Artifacts[0]
	data, err := base64.StdEncoding.DecodeString(art.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	log.Debug().
		Int("bytes", len(data)).
		Int64("seed", art.Seed).
		Dur("duration", time.Since(callStart)).
		Msg("Image generated")

	return &Artifact{Data: data, Seed: art.Seed}, nil
}

// truncate shortens s to max runes-ish bytes for logging.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
