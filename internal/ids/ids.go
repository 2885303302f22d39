// Package ids generates prefixed random identifiers for request tracing.
package ids

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// New creates a cryptographically random ID with the given prefix.
// The prefix should include a trailing dash, e.g. "req-".
func New(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msgf("Failed to generate random %s ID", prefix)
	}
	return prefix + hex.EncodeToString(b)
}
