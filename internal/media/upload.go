package media

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vuhoang/whatif-studio/internal/fault"
	"github.com/vuhoang/whatif-studio/internal/metrics"
)

// maxConcurrentUploads bounds the S3 upload fan-out per request.
const maxConcurrentUploads = 4

// UploadAll normalizes each frame to a 1024px square JPEG and uploads it to
// projects/{projectID}/images/image_{index}.jpg. Uploads run concurrently;
// the returned slice is in input order.
//
// By default a failed upload drops that position and the batch continues;
// with AbortOnFailure set the first failure fails the call. Zero successful
// uploads always fail with fault.ErrStorage.
func (s *Service) UploadAll(ctx context.Context, projectID string, items []Item) ([]Asset, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no images to upload", fault.ErrInvalidInput)
	}

	uploadStart := time.Now()
	results := make([]*Asset, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for slot, item := range items {
		g.Go(func() error {
			asset, err := s.uploadOne(gctx, projectID, item)
			if err != nil {
				if s.AbortOnFailure {
					return err
				}
				log.Warn().
					Err(err).
					Int("index", item.Index).
					Str("projectId", projectID).
					Msg("Image upload failed, continuing without this position")
				return nil
			}
			results[slot] = asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrStorage, err)
	}

	assets := make([]Asset, 0, len(items))
	for _, a := range results {
		if a != nil {
			assets = append(assets, *a)
		}
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("%w: all %d image uploads failed", fault.ErrStorage, len(items))
	}

	metrics.New(metrics.Namespace).
		Duration("GalleryUploadMs", time.Since(uploadStart)).
		Metric("GalleryImages", float64(len(assets)), metrics.UnitCount).
		Property("projectId", projectID).
		Flush()

	log.Info().
		Str("projectId", projectID).
		Int("uploaded", len(assets)).
		Int("requested", len(items)).
		Dur("duration", time.Since(uploadStart)).
		Msg("Gallery uploaded")

	return assets, nil
}

func (s *Service) uploadOne(ctx context.Context, projectID string, item Item) (*Asset, error) {
	normalized, err := normalizeSquareJPEG(item.Data, gallerySide, galleryQuality)
	if err != nil {
		return nil, fmt.Errorf("normalize image %d: %w", item.Index, err)
	}

	key := fmt.Sprintf("projects/%s/images/image_%d.jpg", projectID, item.Index)
	_, err = s.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(normalized),
		ContentType: aws.String("image/jpeg"),
		Tagging:     aws.String(projectTagging),
	})
	if err != nil {
		return nil, fmt.Errorf("PutObject %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(normalized)).Msg("Gallery image uploaded")
	return &Asset{Index: item.Index, URL: publicURL(s.Bucket, key), Key: key}, nil
}
