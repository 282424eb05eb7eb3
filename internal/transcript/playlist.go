package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// DefaultPlaylistTimeout bounds a single playlist expansion.
const DefaultPlaylistTimeout = 60 * time.Second

// PlaylistResolver expands playlist URLs into ordered video IDs.
type PlaylistResolver interface {
	ResolvePlaylist(ctx context.Context, url string) ([]string, error)
}

// PlaylistLister lists the video IDs of a playlist ID, in playlist order.
type PlaylistLister func(ctx context.Context, playlistID string) ([]string, error)

// YTDLPLister lists playlist items with the ytdlp library.
func YTDLPLister(ctx context.Context, playlistID string) ([]string, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}
	return ids, nil
}

// Playlists resolves playlist URLs through a PlaylistLister.
type Playlists struct {
	list    PlaylistLister
	timeout time.Duration
	logger  *slog.Logger
}

// NewPlaylists creates a resolver. A nil lister selects YTDLPLister.
func NewPlaylists(logger *slog.Logger, list PlaylistLister) *Playlists {
	if list == nil {
		list = YTDLPLister
	}
	return &Playlists{
		list:    list,
		timeout: DefaultPlaylistTimeout,
		logger:  logger.With("component", "playlist_resolver"),
	}
}

// ResolvePlaylist implements PlaylistResolver. Blank and duplicate IDs are
// dropped; an empty result is reported as ErrEmptyPlaylist.
func (p *Playlists) ResolvePlaylist(ctx context.Context, url string) ([]string, error) {
	if !IsPlaylistURL(url) {
		return nil, fmt.Errorf("%w: not a playlist URL: %q", ErrInvalidVideoURL, url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: could not extract playlist ID from %q", ErrInvalidVideoURL, url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ids, err := p.list(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist %s: %w", playlistID, err)
	}

	seen := make(map[string]struct{}, len(ids))
	videoIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		videoIDs = append(videoIDs, id)
	}

	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistID)
	}

	p.logger.InfoContext(ctx, "Resolved playlist",
		"playlist_id", playlistID,
		"videos", len(videoIDs))
	return videoIDs, nil
}

var _ PlaylistResolver = (*Playlists)(nil)
