package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/scry-deck/internal/transcript"
)

// MockSource implements transcript.Source for testing
type MockSource struct {
	// FetchTranscriptFn allows test cases to mock the FetchTranscript behavior
	FetchTranscriptFn func(ctx context.Context, videoID string) (string, error)

	// Transcripts maps video IDs to transcript text. IDs that are missing
	// return transcript.ErrNoTranscript.
	Transcripts map[string]string

	// Errors maps video IDs to the error returned for them
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

// NewMockSource creates a MockSource serving the given transcripts
func NewMockSource(transcripts map[string]string) *MockSource {
	return &MockSource{Transcripts: transcripts}
}

// FetchTranscript implements the transcript.Source interface
func (m *MockSource) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, videoID)
	m.mu.Unlock()

	if m.FetchTranscriptFn != nil {
		return m.FetchTranscriptFn(ctx, videoID)
	}
	if err, ok := m.Errors[videoID]; ok {
		return "", err
	}
	if text, ok := m.Transcripts[videoID]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %s", transcript.ErrNoTranscript, videoID)
}

// Calls returns the requested video IDs, in call order
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockPlaylistResolver implements transcript.PlaylistResolver for testing
type MockPlaylistResolver struct {
	VideoIDs []string
	Err      error

	mu    sync.Mutex
	calls []string
}

// ResolvePlaylist implements the transcript.PlaylistResolver interface
func (m *MockPlaylistResolver) ResolvePlaylist(_ context.Context, url string) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return append([]string(nil), m.VideoIDs...), nil
}

// Calls returns the resolved URLs, in call order
func (m *MockPlaylistResolver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var (
	_ transcript.Source           = (*MockSource)(nil)
	_ transcript.PlaylistResolver = (*MockPlaylistResolver)(nil)
)
