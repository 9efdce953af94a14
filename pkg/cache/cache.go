// Package cache stores packed card layouts between runs.
//
// Packing a card is the expensive step of deck generation, and its result
// depends only on the card's symbol images, the packing options and the
// per-card seed. A [Keyer] turns those inputs into a key; a [Cache] maps the
// key to the encoded layout.
//
// Two implementations are provided:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: stores nothing (--no-cache)
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long a packed layout stays cached.
const TTLLayout = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys from the inputs of a computation.
type Keyer interface {
	// LayoutKey is the key of one packed card.
	LayoutKey(opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists every input that affects a packed layout.
type LayoutKeyOpts struct {
	// Symbols holds the content hash of each symbol image, in card order.
	Symbols    []string `json:"symbols"`
	Seed       uint64   `json:"seed"`
	Card       int      `json:"card"`
	Iterations int      `json:"iterations"`
	Radius     float64  `json:"radius"`
	// Params carries the remaining packing options in a stable encoding.
	Params string `json:"params,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes all fields of opts.
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// NullCache stores nothing; every Get is a miss. Used for --no-cache.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
