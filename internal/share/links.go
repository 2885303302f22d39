// Package share builds the public project URL and per-platform share links.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Platforms that CreateShareLink accepts.
var Platforms = []string{"copy", "facebook", "twitter", "reddit"}

// ProjectURL returns the public frontend URL for a project.
func ProjectURL(baseURL, projectID string) string {
	return fmt.Sprintf("%s/project/%s", strings.TrimRight(baseURL, "/"), projectID)
}

// Links returns share URLs for every supported platform. The "copy" entry is
// the raw project URL for clipboard use; the rest are platform share intents.
func Links(baseURL, projectID, title string) map[string]string {
	projectURL := ProjectURL(baseURL, projectID)
	escapedURL := url.QueryEscape(projectURL)
	escapedTitle := url.QueryEscape(title)

	return map[string]string{
		"copy":     projectURL,
		"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + escapedURL,
		"twitter":  "https://twitter.com/intent/tweet?url=" + escapedURL + "&text=" + escapedTitle,
		"reddit":   "https://reddit.com/submit?url=" + escapedURL + "&title=" + escapedTitle,
	}
}

// ValidPlatform reports whether platform names a supported share target.
func ValidPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
