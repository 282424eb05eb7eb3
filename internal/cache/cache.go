// Package cache provides a Redis-backed key/value cache used to keep fetched
// transcripts between runs, so re-processing a playlist does not hit YouTube
// again for every video.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// KeyPrefix namespaces every key written by this application.
const KeyPrefix = "scry"

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is a string key/value store with per-entry expiration.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GenerateCacheKey joins KeyPrefix, kind and parts with ":", e.g.
// GenerateCacheKey("transcript", "dQw4w9WgXcQ", "en") returns
// "scry:transcript:dQw4w9WgXcQ:en".
func GenerateCacheKey(kind string, parts ...string) string {
	elems := make([]string, 0, len(parts)+2)
	elems = append(elems, KeyPrefix, kind)
	elems = append(elems, parts...)
	return strings.Join(elems, ":")
}
