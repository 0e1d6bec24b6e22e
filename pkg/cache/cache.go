// Package cache provides payload caching for the flowstudio server and CLI.
// Backends store opaque byte slices under string keys with optional TTLs:
// a directory of files for local use, Redis for server deployments, and a
// null backend for tests or disabled caching.
package cache

import (
	"context"
	"time"
)

// Cache is the backend interface. A ttl of zero means no expiration.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the payload kinds the server caches.
type Keyer interface {
	// GraphKey keys the serialized graph payload of one graph.
	GraphKey(operatorID, graphID string) string

	// ExportKey keys a rendered export artifact. Render options are folded
	// into the key so differently rendered artifacts never collide.
	ExportKey(operatorID, graphID string, opts ExportKeyOpts) string
}

// ExportKeyOpts are the render options that distinguish export artifacts.
type ExportKeyOpts struct {
	Format     string  // "svg", "png", "dot"
	PixelRatio float64 // 0 means 1
	Dark       bool
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a graph payload.
func (k *DefaultKeyer) GraphKey(operatorID, graphID string) string {
	return "graph:" + operatorID + ":" + graphID
}

// ExportKey generates a key for an export artifact. The options are hashed so
// the key stays fixed-length no matter what the render settings are.
func (k *DefaultKeyer) ExportKey(operatorID, graphID string, opts ExportKeyOpts) string {
	return hashKey("export:"+operatorID+":"+graphID, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
