package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the YouTube origin used for watch pages.
const DefaultBaseURL = "https://www.youtube.com"

// maxPageBytes bounds how much of a watch page is read.
const maxPageBytes = 8 << 20

var (
	captionTracksMarker = []byte(`"captionTracks":`)
	videoDetailsMarker  = []byte(`"videoDetails":`)
)

// captionTrack is one entry of the player response caption track list.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for automatically generated tracks.
	Kind string `json:"kind"`
}

func (t captionTrack) generated() bool {
	return t.Kind == "asr"
}

// timedText is the XML caption document returned for a track.
type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// YouTubeSource fetches transcripts from YouTube caption tracks.
type YouTubeSource struct {
	client    *http.Client
	baseURL   string
	languages []string
	logger    *slog.Logger
}

// YouTubeOption configures a YouTubeSource.
type YouTubeOption func(*YouTubeSource)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) YouTubeOption {
	return func(s *YouTubeSource) {
		s.client = client
	}
}

// WithBaseURL overrides the YouTube origin, mainly for tests.
func WithBaseURL(baseURL string) YouTubeOption {
	return func(s *YouTubeSource) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewYouTubeSource creates a YouTubeSource preferring the given caption
// languages in order. A zero timeout leaves the client without a deadline.
func NewYouTubeSource(logger *slog.Logger, languages []string, timeout time.Duration, opts ...YouTubeOption) *YouTubeSource {
	s := &YouTubeSource{
		client:    &http.Client{Timeout: timeout},
		baseURL:   DefaultBaseURL,
		languages: languages,
		logger:    logger.With("component", "youtube_transcripts"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTranscript implements Source. Caption segments are HTML-unescaped and
// joined with single spaces.
func (s *YouTubeSource) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	tracks, err := s.listTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	track, ok := selectTrack(tracks, s.languages)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}

	s.logger.DebugContext(ctx, "Selected caption track",
		"video_id", videoID,
		"language", track.LanguageCode,
		"generated", track.generated(),
		"available_tracks", len(tracks))

	text, err := s.fetchTrack(ctx, track)
	if err != nil {
		return "", fmt.Errorf("fetch captions for %s: %w", videoID, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: %s: caption track is empty", ErrNoTranscript, videoID)
	}

	return text, nil
}

// listTracks reads the caption track list embedded in the watch page.
func (s *YouTubeSource) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	page, err := s.get(ctx, WatchURL(s.baseURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("fetch watch page for %s: %w", videoID, err)
	}

	if !bytes.Contains(page, videoDetailsMarker) {
		return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
	}

	idx := bytes.Index(page, captionTracksMarker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s: captions disabled", ErrNoTranscript, videoID)
	}

	var tracks []captionTrack
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(captionTracksMarker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks for %s: %w", videoID, err)
	}
	return tracks, nil
}

func (s *YouTubeSource) fetchTrack(ctx context.Context, track captionTrack) (string, error) {
	trackURL, err := s.resolve(track.BaseURL)
	if err != nil {
		return "", err
	}

	body, err := s.get(ctx, trackURL)
	if err != nil {
		return "", err
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	segments := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// timedtext bodies are entity-escaped once more inside the XML text
		seg := html.UnescapeString(t.Value)
		seg = strings.Join(strings.Fields(seg), " ")
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return strings.Join(segments, " "), nil
}

// resolve makes relative track URLs absolute against the base URL and drops
// any fmt parameter so the classic XML format is returned.
func (s *YouTubeSource) resolve(raw string) (string, error) {
	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse caption track URL: %w", err)
	}

	u := base.ResolveReference(ref)
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *YouTubeSource) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

var _ Source = (*YouTubeSource)(nil)
