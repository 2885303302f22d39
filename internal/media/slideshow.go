package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/fault"
	"github.com/vuhoang/whatif-studio/internal/metrics"
)

// secondsPerFrame is how long each gallery image is shown in the slideshow.
const secondsPerFrame = 3

// AssembleSlideshow downloads the gallery images, renders a 1080p MP4
// slideshow with ffmpeg, and uploads it to
// projects/{projectID}/video/slideshow.mp4. The per-project working
// directory is removed on every exit path. A single image produces a valid
// still video.
func (s *Service) AssembleSlideshow(ctx context.Context, imageURLs []string, projectID string) (*Asset, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("%w: no images for slideshow", fault.ErrInvalidInput)
	}

	assembleStart := time.Now()

	workDir := filepath.Join(s.workRoot, "slideshow-"+projectID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create work dir: %v", fault.ErrEncoding, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove slideshow work dir")
		}
	}()

	framePaths := make([]string, len(imageURLs))
	for i, url := range imageURLs {
		framePath := filepath.Join(workDir, fmt.Sprintf("frame_%d.jpg", i))
		if err := s.downloadToFile(ctx, url, framePath); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", fault.ErrFetch, i, err)
		}
		framePaths[i] = framePath
	}

	outPath := filepath.Join(workDir, "slideshow.mp4")
	args := buildSlideshowArgs(framePaths, outPath)

	log.Debug().Strs("args", args).Msg("Running ffmpeg slideshow render")

	ffmpegStart := time.Now()
	output, err := s.runFFmpeg(ctx, args)
	ffmpegElapsed := time.Since(ffmpegStart)
	if err != nil {
		log.Error().
			Err(err).
			Str("ffmpegOutput", string(output)).
			Dur("duration", ffmpegElapsed).
			Msg("ffmpeg slideshow render failed")
		metrics.New(metrics.Namespace).
			Count("SlideshowEncodeErrors").
			Duration("SlideshowEncodeMs", ffmpegElapsed).
			Flush()
		return nil, fmt.Errorf("%w: ffmpeg: %v", fault.ErrEncoding, err)
	}

	videoFile, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open rendered video: %v", fault.ErrEncoding, err)
	}
	defer videoFile.Close()

	key := fmt.Sprintf("projects/%s/video/slideshow.mp4", projectID)
	_, err = s.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &key,
		Body:        videoFile,
		ContentType: aws.String("video/mp4"),
		Tagging:     aws.String(projectTagging),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload slideshow: %v", fault.ErrStorage, err)
	}

	metrics.New(metrics.Namespace).
		Duration("SlideshowEncodeMs", ffmpegElapsed).
		Duration("SlideshowTotalMs", time.Since(assembleStart)).
		Metric("SlideshowFrames", float64(len(imageURLs)), metrics.UnitCount).
		Property("projectId", projectID).
		Flush()

	log.Info().
		Str("projectId", projectID).
		Str("key", key).
		Int("frames", len(imageURLs)).
		Dur("encodeTime", ffmpegElapsed).
		Msg("Slideshow assembled")

	return &Asset{URL: publicURL(s.Bucket, key), Key: key}, nil
}

// buildSlideshowArgs constructs the ffmpeg invocation for a slideshow.
// Each frame is letterboxed to 1920x1080 and shown for secondsPerFrame;
// frames are joined with the concat filter (n=1 works for a single image).
func buildSlideshowArgs(framePaths []string, outPath string) []string {
	var args []string
	for _, p := range framePaths {
		args = append(args, "-loop", "1", "-t", fmt.Sprintf("%d", secondsPerFrame), "-i", p)
	}

	var graph strings.Builder
	for i := range framePaths {
		fmt.Fprintf(&graph,
			"[%d:v]scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30,setpts=PTS-STARTPTS[v%d];",
			i, i)
	}
	for i := range framePaths {
		fmt.Fprintf(&graph, "[v%d]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0,format=yuv420p[out]", len(framePaths))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[out]",
		"-c:v", "libx264",
		"-preset", "slow",
		"-crf", "18",
		"-movflags", "+faststart",
		"-t", fmt.Sprintf("%d", secondsPerFrame*len(framePaths)),
		"-y", outPath,
	)
	return args
}

// downloadToFile fetches a URL to a local path.
func (s *Service) downloadToFile(ctx context.Context, url, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", localPath, err)
	}
	return nil
}
