// Package media turns synthesized frames into the project's public assets:
// a normalized S3 image gallery, an ffmpeg slideshow video, and a social
// preview thumbnail.
package media

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the slice of the S3 client the media service writes through.
// Narrowed for testability.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Asset is one uploaded object. Index carries the gallery position through
// the upload fan-out; it is not part of the API payload.
type Asset struct {
	Index int    `json:"-"`
	URL   string `json:"url"`
	Key   string `json:"key"`
}

// Item is one frame to upload: raw image bytes plus gallery position.
type Item struct {
	Index int
	Data  []byte
}

// Service implements the media assembly operations against S3 and ffmpeg.
type Service struct {
	S3         ObjectPutter
	Bucket     string
	HTTPClient *http.Client

	// AbortOnFailure makes UploadAll fail the whole batch on the first
	// failed upload instead of continuing with survivors.
	AbortOnFailure bool

	// runFFmpeg and workRoot are swappable for tests.
	runFFmpeg func(ctx context.Context, args []string) ([]byte, error)
	workRoot  string
}

// NewService creates a media service writing to the given bucket.
func NewService(s3Client ObjectPutter, bucket string) *Service {
	return &Service{
		S3:         s3Client,
		Bucket:     bucket,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		runFFmpeg:  execFFmpeg,
		workRoot:   os.TempDir(),
	}
}

// projectTagging is the URL-encoded S3 object tagging string applied to
// every uploaded asset, for cost allocation.
const projectTagging = "Project=whatif-studio"

// publicURL returns the public HTTPS URL for an object in the media bucket.
func publicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// execFFmpeg runs the system ffmpeg binary with the given arguments.
func execFFmpeg(ctx context.Context, args []string) ([]byte, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	return cmd.CombinedOutput()
}
