package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts are the render settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Renderer string `json:"renderer"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendering of the DOT text with the
	// given hash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dotHash, opts)
}

// ArtifactKey is DefaultKeyer.ArtifactKey over raw DOT text.
func ArtifactKey(dot []byte, format string) string {
	return DefaultKeyer{}.ArtifactKey(Hash(dot), ArtifactKeyOpts{Format: format})
}
