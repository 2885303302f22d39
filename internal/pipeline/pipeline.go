// Package pipeline orchestrates a full generation run: scenario extraction,
// prompt enhancement, image synthesis, media assembly, and persistence. It
// also serves project reads and share link creation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/fault"
	"github.com/vuhoang/whatif-studio/internal/imagegen"
	"github.com/vuhoang/whatif-studio/internal/media"
	"github.com/vuhoang/whatif-studio/internal/metrics"
	"github.com/vuhoang/whatif-studio/internal/promptstyle"
	"github.com/vuhoang/whatif-studio/internal/scenario"
	"github.com/vuhoang/whatif-studio/internal/share"
	"github.com/vuhoang/whatif-studio/internal/store"
)

// Stage names a phase of a generation run, for logs and metrics.
type Stage string

const (
	StageReceived        Stage = "received"
	StageAnalyzing       Stage = "analyzing"
	StageImageGeneration Stage = "image_generation"
	StageUploading       Stage = "uploading"
	StageVideoAssembly   Stage = "video_assembly"
	StagePersisting      Stage = "persisting"
	StageComplete        Stage = "complete"
	StageFailed          Stage = "failed"
)

// MaxPromptLength caps user hypotheses.
const MaxPromptLength = 500

// DefaultFreeTierLimit is how many generations an authenticated user gets
// before quota gating kicks in. Anonymous users are not gated.
const DefaultFreeTierLimit = 5

// ScenarioSource produces a structured scenario for a hypothesis.
type ScenarioSource interface {
	Extract(ctx context.Context, prompt, language string) (*scenario.Scenario, error)
}

// ImageSource synthesizes the scenario's visual sequence.
type ImageSource interface {
	SynthesizeAll(ctx context.Context, specs []imagegen.Spec) ([]imagegen.Image, error)
}

// MediaAssembler publishes the gallery, slideshow, and thumbnail.
type MediaAssembler interface {
	UploadAll(ctx context.Context, projectID string, items []media.Item) ([]media.Asset, error)
	AssembleSlideshow(ctx context.Context, imageURLs []string, projectID string) (*media.Asset, error)
	Thumbnail(ctx context.Context, imageURL string) (string, error)
}

// Config holds the pipeline's tunables.
type Config struct {
	// FreeTierLimit overrides DefaultFreeTierLimit when positive.
	FreeTierLimit int64

	// FrontendBaseURL is the public site URL share links point at.
	FrontendBaseURL string
}

// Pipeline wires the generation stages together.
type Pipeline struct {
	Scenarios ScenarioSource
	Images    ImageSource
	Media     MediaAssembler
	Projects  store.ProjectStore
	Usage     store.UsageStore
	Cfg       Config

	newID func() string
}

// New creates a Pipeline with UUID project IDs.
func New(scenarios ScenarioSource, images ImageSource, assembler MediaAssembler, projects store.ProjectStore, usage store.UsageStore, cfg Config) *Pipeline {
	return &Pipeline{
		Scenarios: scenarios,
		Images:    images,
		Media:     assembler,
		Projects:  projects,
		Usage:     usage,
		Cfg:       cfg,
		newID:     uuid.NewString,
	}
}

// GenerateRequest is one generation run's input.
type GenerateRequest struct {
	Prompt   string
	Language string
	UserID   string
}

// GenerateResult is the persisted project plus its public share URL.
type GenerateResult struct {
	Project  *store.Project
	ShareURL string
}

// Generate runs the full pipeline for one hypothesis. The quota gate runs
// before any model call; nothing is persisted on failure.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", fault.ErrValidation)
	}
	if len(prompt) > MaxPromptLength {
		return nil, fmt.Errorf("%w: prompt exceeds %d characters", fault.ErrValidation, MaxPromptLength)
	}

	if err := p.checkQuota(ctx, req.UserID); err != nil {
		return nil, err
	}

	projectID := p.newID()
	runStart := time.Now()
	observeStage(projectID, StageReceived, 0)

	log.Info().
		Str("projectId", projectID).
		Str("userId", req.UserID).
		Int("promptLength", len(prompt)).
		Msg("Generation started")

	// Scenario extraction.
	stageStart := time.Now()
	sc, err := p.Scenarios.Extract(ctx, prompt, req.Language)
	if err != nil {
		return nil, p.fail(projectID, StageAnalyzing, err)
	}
	observeStage(projectID, StageAnalyzing, time.Since(stageStart))

	// Image synthesis on enhanced prompts.
	stageStart = time.Now()
	specs := make([]imagegen.Spec, len(sc.Images))
	for i, img := range sc.Images {
		specs[i] = imagegen.Spec{
			Index:       i,
			Prompt:      promptstyle.Enhance(img.Prompt, i, len(sc.Images)),
			Description: img.Description,
		}
	}
	frames, err := p.Images.SynthesizeAll(ctx, specs)
	if err != nil {
		return nil, p.fail(projectID, StageImageGeneration, err)
	}
	observeStage(projectID, StageImageGeneration, time.Since(stageStart))

	// Gallery upload.
	stageStart = time.Now()
	items := make([]media.Item, len(frames))
	for i, f := range frames {
		items[i] = media.Item{Index: f.Index, Data: f.Data}
	}
	assets, err := p.Media.UploadAll(ctx, projectID, items)
	if err != nil {
		return nil, p.fail(projectID, StageUploading, err)
	}
	observeStage(projectID, StageUploading, time.Since(stageStart))

	// Slideshow assembly.
	stageStart = time.Now()
	urls := make([]string, len(assets))
	for i, a := range assets {
		urls[i] = a.URL
	}
	video, err := p.Media.AssembleSlideshow(ctx, urls, projectID)
	if err != nil {
		return nil, p.fail(projectID, StageVideoAssembly, err)
	}

	// The thumbnail is cosmetic; a failure does not sink the run.
	thumbnail, err := p.Media.Thumbnail(ctx, assets[0].URL)
	if err != nil {
		log.Warn().Err(err).Str("projectId", projectID).Msg("Thumbnail generation failed, continuing without one")
		thumbnail = ""
	}
	observeStage(projectID, StageVideoAssembly, time.Since(stageStart))

	// Persistence.
	stageStart = time.Now()
	descriptions := make(map[int]string, len(frames))
	for _, f := range frames {
		descriptions[f.Index] = f.Description
	}
	images := make([]store.ProjectImage, len(assets))
	for i, a := range assets {
		images[i] = store.ProjectImage{URL: a.URL, Key: a.Key, Description: descriptions[a.Index]}
	}

	project := &store.Project{
		ID:                 projectID,
		UserID:             req.UserID,
		Prompt:             prompt,
		Language:           req.Language,
		Scenario:           sc.Scenario,
		ScientificAnalysis: sc.ScientificAnalysis,
		Title:              sc.Title,
		ShortDescription:   sc.ShortDescription,
		Images:             images,
		Video:              &store.ProjectVideo{URL: video.URL, Key: video.Key},
		Thumbnail:          thumbnail,
	}
	if err := p.Projects.PutProject(ctx, project); err != nil {
		return nil, p.fail(projectID, StagePersisting, fmt.Errorf("%w: %v", fault.ErrStorage, err))
	}
	observeStage(projectID, StagePersisting, time.Since(stageStart))

	// Usage is counted after the project exists so failed runs are free.
	if gated(req.UserID) {
		if err := p.Usage.RecordUsage(ctx, req.UserID); err != nil {
			log.Warn().Err(err).Str("userId", req.UserID).Msg("Failed to record usage")
		}
	}

	observeStage(projectID, StageComplete, time.Since(runStart))
	log.Info().
		Str("projectId", projectID).
		Str("title", project.Title).
		Int("images", len(project.Images)).
		Dur("duration", time.Since(runStart)).
		Msg("Generation complete")

	return &GenerateResult{
		Project:  project,
		ShareURL: share.ProjectURL(p.Cfg.FrontendBaseURL, projectID),
	}, nil
}

// GetProject returns a project and counts the view. The increment is best
// effort; a counter failure never hides the project.
func (p *Pipeline) GetProject(ctx context.Context, projectID string) (*store.Project, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", fault.ErrValidation)
	}

	project, err := p.Projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrStorage, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", fault.ErrNotFound, projectID)
	}

	if err := p.Projects.IncrementViews(ctx, projectID); err != nil {
		log.Warn().Err(err).Str("projectId", projectID).Msg("Failed to count view")
	} else {
		project.ViewCount++
	}
	return project, nil
}

// ListProjects returns a user's projects, newest first.
func (p *Pipeline) ListProjects(ctx context.Context, userID string, limit int32) ([]*store.Project, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", fault.ErrValidation)
	}
	projects, err := p.Projects.GetUserProjects(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrStorage, err)
	}
	return projects, nil
}

// ShareLink is the share payload for a project: the requested platform's
// link, the full link map, and a summary for preview cards.
type ShareLink struct {
	Platform  string            `json:"platform"`
	URL       string            `json:"url"`
	ShareURL  string            `json:"shareUrl"`
	ShareURLs map[string]string `json:"shareUrls"`
	Project   ShareSummary      `json:"project"`
}

// ShareSummary is the project preview attached to share responses.
type ShareSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// CreateShareLink builds a platform share link and counts the share.
func (p *Pipeline) CreateShareLink(ctx context.Context, projectID, platform string) (*ShareLink, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", fault.ErrValidation)
	}
	if !share.ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: unsupported platform %q", fault.ErrValidation, platform)
	}

	project, err := p.Projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrStorage, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", fault.ErrNotFound, projectID)
	}

	if err := p.Projects.IncrementShares(ctx, projectID); err != nil {
		log.Warn().Err(err).Str("projectId", projectID).Msg("Failed to count share")
	}

	links := share.Links(p.Cfg.FrontendBaseURL, projectID, project.Title)
	return &ShareLink{
		Platform:  platform,
		URL:       links[platform],
		ShareURL:  share.ProjectURL(p.Cfg.FrontendBaseURL, projectID),
		ShareURLs: links,
		Project: ShareSummary{
			Title:       project.Title,
			Description: project.ShortDescription,
			Thumbnail:   project.Thumbnail,
		},
	}, nil
}

// checkQuota enforces the free tier for authenticated users. Anonymous runs
// are never gated.
func (p *Pipeline) checkQuota(ctx context.Context, userID string) error {
	if !gated(userID) {
		return nil
	}

	usage, err := p.Usage.GetUsage(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: read usage: %v", fault.ErrStorage, err)
	}

	limit := p.Cfg.FreeTierLimit
	if limit <= 0 {
		limit = DefaultFreeTierLimit
	}
	if usage >= limit {
		log.Info().Str("userId", userID).Int64("usage", usage).Int64("limit", limit).Msg("Quota exceeded")
		return fmt.Errorf("%w: %d of %d generations used", fault.ErrQuotaExceeded, usage, limit)
	}
	return nil
}

func gated(userID string) bool {
	return userID != "" && userID != store.AnonymousUser
}

// fail records a failed stage and returns the error unchanged.
func (p *Pipeline) fail(projectID string, stage Stage, err error) error {
	log.Error().
		Err(err).
		Str("projectId", projectID).
		Str("stage", string(stage)).
		Str("errorKind", fault.Kind(err)).
		Msg("Generation failed")

	metrics.New(metrics.Namespace).
		Dimension("Stage", string(stage)).
		Count("GenerateFailures").
		Property("projectId", projectID).
		Property("errorKind", fault.Kind(err)).
		Flush()

	observeStage(projectID, StageFailed, 0)
	return err
}

func observeStage(projectID string, stage Stage, elapsed time.Duration) {
	metrics.New(metrics.Namespace).
		Dimension("Stage", string(stage)).
		Duration("StageLatencyMs", elapsed).
		Count("StageCount").
		Property("projectId", projectID).
		Flush()
}
