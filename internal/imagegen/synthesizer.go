package imagegen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vuhoang/whatif-studio/internal/fault"
)

// maxSeed bounds randomly chosen seeds, matching the image service contract.
const maxSeed = 1000000

// Spec is one image to synthesize: the enhanced prompt plus its position in
// the gallery sequence.
type Spec struct {
	Index       int
	Prompt      string
	Description string
}

// Image is one synthesized frame. Index preserves the gallery position of
// its spec even when earlier specs failed.
type Image struct {
	Index       int
	Data        []byte
	Seed        int64
	Prompt      string
	Description string
}

// Synthesizer runs image generation for a scenario's visual sequence.
// Requests are sequential and paced by Limiter so bursts of four prompts do
// not trip the image service's rate limiting.
type Synthesizer struct {
	Gen     Generator
	Limiter *rate.Limiter
	seedFn  func() int64
}

// NewSynthesizer creates a Synthesizer pacing requests to one per second.
func NewSynthesizer(gen Generator) *Synthesizer {
	return &Synthesizer{
		Gen:     gen,
		Limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		seedFn:  func() int64 { return rand.Int63n(maxSeed) },
	}
}

// SynthesizeAll generates images for every spec in order. A failed spec is
// logged and skipped so one bad prompt does not sink the whole gallery;
// survivors keep their original Index. Returns an error only when the
// context is cancelled or every spec failed.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, specs []Spec) ([]Image, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no image specs", fault.ErrInvalidInput)
	}

	images := make([]Image, 0, len(specs))
	for _, spec := range specs {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("synthesis cancelled: %w", err)
		}

		seed := s.seedFn()
		art, err := s.Gen.Generate(ctx, Params{Prompt: spec.Prompt, Seed: seed})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("synthesis cancelled: %w", ctx.Err())
			}
			log.Warn().
				Err(err).
				Int("index", spec.Index).
				Msg("Image generation failed, skipping position")
			continue
		}

		images = append(images, Image{
			Index:       spec.Index,
			Data:        art.Data,
			Seed:        art.Seed,
			Prompt:      spec.Prompt,
			Description: spec.Description,
		})
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: all %d image generations failed", fault.ErrUpstreamModel, len(specs))
	}

	log.Info().
		Int("requested", len(specs)).
		Int("generated", len(images)).
		Msg("Image synthesis complete")

	return images, nil
}
