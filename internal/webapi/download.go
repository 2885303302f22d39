package webapi

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/metrics"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE
// 6.3.7). Gallery images are already JPEG compressed, so the encoder runs at
// a fast level; the win over Store is small but free.
const zipMethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
}

// ObjectGetter is the slice of the S3 client the download handler reads
// through.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// GET /api/projects/{id}/download
// Streams a ZIP bundle of the project's gallery images and slideshow video.
func (a *ProjectAPI) handleDownload(w http.ResponseWriter, r *http.Request, projectID string) {
	project, err := a.Svc.GetProject(r.Context(), projectID)
	if err != nil {
		RespondFault(w, err)
		return
	}

	keys := make([]string, 0, len(project.Images)+1)
	for _, img := range project.Images {
		if img.Key != "" {
			keys = append(keys, img.Key)
		}
	}
	if project.Video != nil && project.Video.Key != "" {
		keys = append(keys, project.Video.Key)
	}
	if len(keys) == 0 {
		HTTPError(w, http.StatusNotFound, "project has no downloadable assets")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", projectID+".zip"))

	bundleStart := time.Now()
	zw := zip.NewWriter(w)
	var bundled int
	for _, key := range keys {
		if err := a.addObjectToZip(r.Context(), zw, key); err != nil {
			// Headers are already sent; all we can do is log and move on.
			log.Warn().Err(err).Str("key", key).Str("projectId", projectID).Msg("Skipping asset in ZIP bundle")
			continue
		}
		bundled++
	}
	if err := zw.Close(); err != nil {
		log.Error().Err(err).Str("projectId", projectID).Msg("Failed to finalize ZIP bundle")
		return
	}

	metrics.New(metrics.Namespace).
		Duration("BundleDownloadMs", time.Since(bundleStart)).
		Metric("BundleAssets", float64(bundled), metrics.UnitCount).
		Property("projectId", projectID).
		Flush()

	log.Info().
		Str("projectId", projectID).
		Int("assets", bundled).
		Dur("duration", time.Since(bundleStart)).
		Msg("ZIP bundle served")
}

// addObjectToZip streams one S3 object into the archive. The entry name is
// the key's path under the project prefix.
func (a *ProjectAPI) addObjectToZip(ctx context.Context, zw *zip.Writer, key string) error {
	obj, err := a.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.Bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("GetObject %s: %w", key, err)
	}
	defer obj.Body.Close()

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     entryName(key),
		Method:   zipMethodZstd,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create ZIP entry for %s: %w", key, err)
	}
	if _, err := io.Copy(entry, obj.Body); err != nil {
		return fmt.Errorf("write ZIP entry for %s: %w", key, err)
	}
	return nil
}

// entryName flattens an object key to its file name plus its parent folder,
// e.g. projects/p1/images/image_0.jpg becomes images/image_0.jpg.
func entryName(key string) string {
	segs := strings.Split(key, "/")
	if len(segs) >= 2 {
		return segs[len(segs)-2] + "/" + segs[len(segs)-1]
	}
	return key
}
