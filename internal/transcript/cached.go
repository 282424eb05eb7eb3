package transcript

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-deck/internal/cache"
	"github.com/phrazzld/scry-deck/internal/redact"
)

// CachedSource memoizes transcripts from an underlying Source. Cache failures
// are logged and never fail a fetch; missing transcripts are not cached.
type CachedSource struct {
	next   Source
	store  cache.Cache
	ttl    time.Duration
	scope  string
	logger *slog.Logger
}

// NewCachedSource wraps next. languages is folded into the key so that a
// change of preference does not return a stale track.
func NewCachedSource(next Source, store cache.Cache, ttl time.Duration, languages []string, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		store:  store,
		ttl:    ttl,
		scope:  strings.Join(languages, ","),
		logger: logger.With("component", "transcript_cache"),
	}
}

// Key returns the cache key used for videoID.
func (c *CachedSource) Key(videoID string) string {
	return cache.GenerateCacheKey("transcript", videoID, c.scope)
}

// FetchTranscript implements Source.
func (c *CachedSource) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	key := c.Key(videoID)

	text, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "Transcript cache hit", "video_id", videoID)
		return text, nil
	case errors.Is(err, cache.ErrCacheMiss):
		c.logger.DebugContext(ctx, "Transcript cache miss", "video_id", videoID)
	default:
		c.logger.WarnContext(ctx, "Transcript cache read failed",
			"video_id", videoID,
			"error", redact.Error(err))
	}

	text, err = c.next.FetchTranscript(ctx, videoID)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "Transcript cache write failed",
			"video_id", videoID,
			"error", redact.Error(err))
	}
	return text, nil
}

var _ Source = (*CachedSource)(nil)
