// Package cache stores dilation results keyed by their inputs.
//
// A dilation is a pure function of the surface, the label file, the radius
// and the column selector, so its output can be reused whenever all four are
// unchanged. Keys are derived by a [Keyer] from content hashes of the inputs
// (see [Hash]); values are the JSON-encoded output label files.
//
// # Backends
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: shared cache for multiple API instances
//   - [NullCache]: never stores anything (--no-cache)
//
// Network backends wrap transient failures with [Retryable] and retry them
// through [RetryWithBackoff].
package cache

import (
	"context"
	"strconv"
	"time"
)

// TTLs for cached entries.
const (
	// DilationTTL is how long a dilation result stays cached.
	DilationTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DilateKeyOpts holds the request parameters that affect a dilation result.
// Column is ignored when All is set.
type DilateKeyOpts struct {
	Radius float64
	All    bool
	Column string
}

// Keyer derives cache keys.
type Keyer interface {
	// DilateKey returns the key for dilating the labels with hash labelsHash
	// on the surface with hash surfaceHash.
	DilateKey(surfaceHash, labelsHash string, opts DilateKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "dilate:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DilateKey implements Keyer.
func (DefaultKeyer) DilateKey(surfaceHash, labelsHash string, opts DilateKeyOpts) string {
	column := opts.Column
	if opts.All {
		column = ""
	}
	// JSON cannot encode +Inf, so the radius is hashed in its text form.
	radius := strconv.FormatFloat(opts.Radius, 'g', -1, 64)
	return hashKey("dilate", surfaceHash, labelsHash, radius, opts.All, column)
}
