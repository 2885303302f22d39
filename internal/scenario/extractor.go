// Package scenario turns a user's "what if" hypothesis into a structured
// scenario: narrative, scientific analysis, title, and a sequence of image
// prompts for the visual pipeline.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/fault"
	"github.com/vuhoang/whatif-studio/internal/jsonutil"
	"github.com/vuhoang/whatif-studio/internal/lang"
)

// ImageSpec is one entry of the scenario's visual sequence.
type ImageSpec struct {
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

// Scenario is the structured model output for one hypothesis.
type Scenario struct {
	Scenario           string      `json:"scenario"`
	ScientificAnalysis string      `json:"scientific_analysis"`
	Images             []ImageSpec `json:"images"`
	Title              string      `json:"title"`
	ShortDescription   string      `json:"short_description"`
}

// Extractor asks a text model for a scenario and parses the response.
type Extractor struct {
	Model TextModel
}

// NewExtractor creates an Extractor backed by the given text model.
func NewExtractor(model TextModel) *Extractor {
	return &Extractor{Model: model}
}

// Extract generates and parses a scenario for the prompt. When language is
// empty it is detected from the prompt. A model call failure maps to
// fault.ErrUpstreamModel; an unusable response maps to
// fault.ErrMalformedScenario.
func (e *Extractor) Extract(ctx context.Context, prompt, language string) (*Scenario, error) {
	if language == "" {
		language = lang.Detect(prompt)
	}

	log.Info().
		Str("language", language).
		Int("promptLength", len(prompt)).
		Msg("Generating scenario")

	callStart := time.Now()
	raw, err := e.Model.GenerateText(ctx, systemPrompt(language), prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrUpstreamModel, err)
	}

	sc, err := jsonutil.ParseObject[Scenario](raw)
	if err != nil {
		log.Warn().Err(err).Int("rawLength", len(raw)).Msg("Scenario response did not parse")
		return nil, fmt.Errorf("%w: %v", fault.ErrMalformedScenario, err)
	}

	if len(sc.Images) == 0 {
		return nil, fmt.Errorf("%w: response has no image prompts", fault.ErrMalformedScenario)
	}
	for i, img := range sc.Images {
		if img.Prompt == "" {
			return nil, fmt.Errorf("%w: image %d has an empty prompt", fault.ErrMalformedScenario, i)
		}
	}

	log.Info().
		Str("title", sc.Title).
		Int("images", len(sc.Images)).
		Dur("duration", time.Since(callStart)).
		Msg("Scenario generated")

	return &sc, nil
}
