package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/fault"
)

// Thumbnail fetches an uploaded gallery image and returns a 400px square
// JPEG as base64, for embedding in share previews and project records.
func (s *Service) Thumbnail(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", fault.ErrFetch, err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", fault.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d for %s", fault.ErrFetch, resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", fault.ErrFetch, err)
	}

	thumb, err := normalizeSquareJPEG(data, thumbnailSide, thumbnailQuality)
	if err != nil {
		return "", fmt.Errorf("thumbnail: %w", err)
	}

	log.Debug().Int("bytes", len(thumb)).Msg("Thumbnail generated")
	return base64.StdEncoding.EncodeToString(thumb), nil
}
