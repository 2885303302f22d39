package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/metrics"
	"github.com/vuhoang/whatif-studio/internal/pipeline"
	"github.com/vuhoang/whatif-studio/internal/store"
)

// generateTimeout bounds one pipeline run. The Lambda itself is configured
// with a longer timeout so this deadline produces a clean error response
// instead of an API Gateway 504.
const generateTimeout = 10 * time.Minute

// Generator is the slice of the pipeline the generate handler needs.
type Generator interface {
	Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.GenerateResult, error)
}

// GenerateAPI serves the generation endpoint.
type GenerateAPI struct {
	Gen Generator
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

type generateResponse struct {
	Success  bool           `json:"success"`
	Project  *store.Project `json:"project"`
	ShareURL string         `json:"shareUrl"`
}

// HandleGenerate serves POST /api/generate.
// Body: {"prompt": "what if ...", "language": "en|vi", "userId": "..."}
func (a *GenerateAPI) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		HTTPError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HTTPError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	handleStart := time.Now()
	result, err := a.Gen.Generate(ctx, pipeline.GenerateRequest{
		Prompt:   req.Prompt,
		Language: req.Language,
		UserID:   req.UserID,
	})
	if err != nil {
		RespondFault(w, err)
		return
	}

	metrics.New(metrics.Namespace).
		Duration("GenerateRequestMs", time.Since(handleStart)).
		Count("GenerateRequests").
		Property("projectId", result.Project.ID).
		Flush()

	log.Info().
		Str("projectId", result.Project.ID).
		Dur("duration", time.Since(handleStart)).
		Msg("Generate request served")

	RespondJSON(w, http.StatusOK, generateResponse{
		Success:  true,
		Project:  result.Project,
		ShareURL: result.ShareURL,
	})
}
