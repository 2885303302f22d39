// Package store persists generated projects and per-user usage counters.
//
// Projects live in a DynamoDB table keyed by projectId, with a
// UserProjectsIndex GSI (userId, createdAt) for newest-first listing. View
// and share counters are updated with atomic ADD expressions so concurrent
// increments never lose writes. Usage counters live in a separate users
// table keyed by userId.
package store

import (
	"context"
	"time"
)

// AnonymousUser is the owner recorded for unauthenticated generations.
const AnonymousUser = "anonymous"

// DefaultListLimit caps GetUserProjects when the caller passes no limit.
const DefaultListLimit = 20

// ProjectImage is one gallery entry.
type ProjectImage struct {
	URL         string `json:"url" dynamodbav:"url"`
	Description string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Key         string `json:"key,omitempty" dynamodbav:"key,omitempty"`
}

// ProjectVideo is the assembled slideshow.
type ProjectVideo struct {
	URL string `json:"url" dynamodbav:"url"`
	Key string `json:"key,omitempty" dynamodbav:"key,omitempty"`
}

// Project is one completed generation.
type Project struct {
	ID                 string         `json:"projectId" dynamodbav:"projectId"`
	UserID             string         `json:"userId" dynamodbav:"userId"`
	Prompt             string         `json:"prompt" dynamodbav:"prompt"`
	Language           string         `json:"language,omitempty" dynamodbav:"language,omitempty"`
	Scenario           string         `json:"scenario,omitempty" dynamodbav:"scenario,omitempty"`
	ScientificAnalysis string         `json:"scientificAnalysis,omitempty" dynamodbav:"scientificAnalysis,omitempty"`
	Title              string         `json:"title,omitempty" dynamodbav:"title,omitempty"`
	ShortDescription   string         `json:"shortDescription,omitempty" dynamodbav:"shortDescription,omitempty"`
	Images             []ProjectImage `json:"images" dynamodbav:"images"`
	Video              *ProjectVideo  `json:"video,omitempty" dynamodbav:"video,omitempty"`
	Thumbnail          string         `json:"thumbnail,omitempty" dynamodbav:"thumbnail,omitempty"`
	CreatedAt          string         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt          string         `json:"updatedAt" dynamodbav:"updatedAt"`
	IsPublic           bool           `json:"isPublic" dynamodbav:"isPublic"`
	ViewCount          int64          `json:"viewCount" dynamodbav:"viewCount"`
	ShareCount         int64          `json:"shareCount" dynamodbav:"shareCount"`
}

// ProjectStore is the persistence interface for projects. All methods are
// safe for concurrent use. GetProject returns (nil, nil) when the project
// does not exist.
type ProjectStore interface {
	// PutProject creates or replaces a project record, filling defaults
	// (anonymous owner, timestamps, isPublic) on first write.
	PutProject(ctx context.Context, p *Project) error

	// GetProject retrieves a project by ID. Returns nil, nil if not found.
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// GetUserProjects lists a user's projects, newest first.
	GetUserProjects(ctx context.Context, userID string, limit int32) ([]*Project, error)

	// IncrementViews atomically adds one to the project's view counter.
	IncrementViews(ctx context.Context, projectID string) error

	// IncrementShares atomically adds one to the project's share counter.
	IncrementShares(ctx context.Context, projectID string) error
}

// UsageStore tracks per-user generation counts for quota gating.
type UsageStore interface {
	// GetUsage returns the user's generation count. Missing users read as 0.
	GetUsage(ctx context.Context, userID string) (int64, error)

	// RecordUsage atomically adds one to the user's generation count.
	RecordUsage(ctx context.Context, userID string) error
}

// nowISO returns the current UTC time in RFC 3339 with millisecond
// precision, the timestamp format stored on project records.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// applyDefaults fills the fields PutProject guarantees on first write.
func applyDefaults(p *Project) {
	if p.UserID == "" {
		p.UserID = AnonymousUser
	}
	now := nowISO()
	if p.CreatedAt == "" {
		p.CreatedAt = now
		p.IsPublic = true
	}
	p.UpdatedAt = now
}
