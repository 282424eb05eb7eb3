package transcript

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)


var (
	shortURLPattern = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	pathURLPattern  = regexp.MustCompile(`youtube\.com/(?:shorts|embed|live)/([a-zA-Z0-9_-]+)`)
	watchURLPattern = regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]+)`)
	bareIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID extracts the video ID from youtu.be/<id>, /shorts/<id>,
// /embed/<id> and watch?v=<id> URLs. A bare 11-character ID is accepted as is.
func ExtractVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)

	if m := shortURLPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := pathURLPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := watchURLPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, url)
}

// IsPlaylistURL reports whether url names a playlist.
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractPlaylistID extracts the playlist ID from the list= parameter.
func ExtractPlaylistID(url string) string {
	parts := strings.SplitN(url, PlaylistParam, 2)
	if len(parts) < 2 {
		return ""
	}
	playlistPart := parts[1]
	if i := strings.Index(playlistPart, ParamSeparator); i >= 0 {
		playlistPart = playlistPart[:i]
	}
	if i := strings.Index(playlistPart, "#"); i >= 0 {
		playlistPart = playlistPart[:i]
	}
	return playlistPart
}

// WatchURL returns the watch page URL for videoID under origin, such as
// DefaultBaseURL. A trailing slash on origin is ignored.
func WatchURL(origin, videoID string) string {
	return strings.TrimRight(origin, "/") + "/watch?v=" + url.QueryEscape(videoID)
}
