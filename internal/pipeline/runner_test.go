package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/scry-deck/internal/deck"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/phrazzld/scry-deck/internal/mocks"
	"github.com/phrazzld/scry-deck/internal/pipeline"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	videoURL    = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	playlistURL = "https://www.youtube.com/playlist?list=PLtest"
)

type progressLog struct {
	mu     sync.Mutex
	events []events.ProgressEvent
}

func (p *progressLog) HandleEvent(_ context.Context, e events.ProgressEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *progressLog) steps(videoID string) [][2]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out [][2]int
	for _, e := range p.events {
		if e.VideoID == videoID {
			out = append(out, [2]int{e.Completed, e.Total})
		}
	}
	return out
}

type fixture struct {
	resolver *mocks.MockPlaylistResolver
	source   *mocks.MockSource
	producer *mocks.MockProducer
	progress *progressLog
	output   string
	runner   *pipeline.Runner
}

func defaultOptions(output string) pipeline.Options {
	return pipeline.Options{
		Generation: generation.Options{
			TargetQuestions:   10,
			MaxCharsPerChunk:  1000,
			QuestionsPerBatch: 5,
		},
		OutputPath:          output,
		PrefetchConcurrency: 2,
	}
}

func newFixture(t *testing.T, transcripts map[string]string) *fixture {
	t.Helper()

	_, log := logger.NewTestLogger(t)
	f := &fixture{
		resolver: &mocks.MockPlaylistResolver{},
		source:   mocks.NewMockSource(transcripts),
		producer: mocks.NewExactProducer(),
		progress: &progressLog{},
		output:   filepath.Join(t.TempDir(), "deck.txt"),
	}

	scheduler, err := generation.NewScheduler(f.producer, log)
	require.NoError(t, err)

	emitter := events.NewEmitter(log)
	emitter.Register(f.progress)

	f.runner, err = pipeline.NewRunner(f.resolver, f.source, scheduler, deck.NewExporter("Test Deck", log),
		emitter, defaultOptions(f.output), log)
	require.NoError(t, err)
	return f
}

func TestRunner_SingleVideo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"dQw4w9WgXcQ": "some transcript text"})

	summary, err := f.runner.Run(context.Background(), videoURL)
	require.NoError(t, err)

	assert.Len(t, summary.Questions, 10)
	require.Len(t, summary.Videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", summary.Videos[0].VideoID)
	assert.Equal(t, 10, summary.Videos[0].Questions)
	assert.Equal(t, 2, summary.Videos[0].Batches)
	assert.False(t, summary.NoCards())
	assert.Empty(t, f.resolver.Calls(), "a video URL should not hit the playlist resolver")

	require.NotNil(t, summary.Artifacts)
	assert.Equal(t, f.output, summary.Artifacts.DeckPath)
	assert.FileExists(t, summary.Artifacts.DeckPath)
	assert.FileExists(t, summary.Artifacts.JSONPath)

	assert.Equal(t, [][2]int{{0, 2}, {1, 2}, {2, 2}}, f.progress.steps("dQw4w9WgXcQ"))
}

func TestRunner_PlaylistSkipsMissingTranscripts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"a": "first video transcript",
		"c": "third video transcript",
	})
	f.resolver.VideoIDs = []string{"a", "b", "c"}

	summary, err := f.runner.Run(context.Background(), playlistURL)
	require.NoError(t, err)

	assert.Equal(t, []string{playlistURL}, f.resolver.Calls())
	require.Len(t, summary.Videos, 3)
	assert.Equal(t, "a", summary.Videos[0].VideoID)
	assert.Equal(t, "b", summary.Videos[1].VideoID)
	assert.Equal(t, "c", summary.Videos[2].VideoID)
	assert.True(t, summary.Videos[1].Skipped())
	assert.ErrorIs(t, summary.Videos[1].SkipReason, transcript.ErrNoTranscript)
	assert.Equal(t, 1, summary.SkippedVideos())

	// Cards are grouped by video in playlist order.
	require.Len(t, summary.Questions, 20)
	assert.True(t, strings.HasPrefix(summary.Questions[0].Question, "call-1 "))
	assert.True(t, strings.HasPrefix(summary.Questions[19].Question, "call-4 "))

	assert.Empty(t, f.progress.steps("b"))
	for _, e := range f.progress.events {
		assert.Equal(t, 3, e.VideoCount)
		assert.Equal(t, summary.RunID, e.RunID)
	}
}

func TestRunner_NoCards(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.resolver.VideoIDs = []string{"a", "b"}

	summary, err := f.runner.Run(context.Background(), playlistURL)
	require.NoError(t, err)

	assert.True(t, summary.NoCards())
	assert.Nil(t, summary.Artifacts)
	assert.Equal(t, 2, summary.SkippedVideos())
	assert.Zero(t, f.producer.CallCount())
	assert.NoFileExists(t, f.output)
}

func TestRunner_AllBatchesFail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"dQw4w9WgXcQ": "some transcript text"})
	f.producer.GenerateBatchFn = func(context.Context, string, int) ([]domain.QuizQuestion, error) {
		return nil, generation.ErrGenerationFailed
	}

	summary, err := f.runner.Run(context.Background(), videoURL)
	require.NoError(t, err)

	assert.True(t, summary.NoCards())
	assert.Equal(t, 2, summary.Videos[0].FailedBatches)
	assert.Nil(t, summary.Artifacts)
}

func TestRunner_TransportErrorSkipsVideo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"a": "transcript a", "b": "transcript b"})
	f.source.Errors = map[string]error{"a": errors.New("connection reset")}
	f.resolver.VideoIDs = []string{"a", "b"}

	summary, err := f.runner.Run(context.Background(), playlistURL)
	require.NoError(t, err)

	assert.True(t, summary.Videos[0].Skipped())
	assert.False(t, summary.Videos[1].Skipped())
	assert.Len(t, summary.Questions, 10)
}

func TestRunner_InputErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		summary, err := f.runner.Run(context.Background(), "https://example.com/nope")
		assert.ErrorIs(t, err, transcript.ErrInvalidVideoURL)
		assert.Nil(t, summary)
	})

	t.Run("empty playlist", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		f.resolver.Err = transcript.ErrEmptyPlaylist
		summary, err := f.runner.Run(context.Background(), playlistURL)
		assert.ErrorIs(t, err, transcript.ErrEmptyPlaylist)
		assert.Nil(t, summary)
	})

	t.Run("resolver returns nothing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		summary, err := f.runner.Run(context.Background(), playlistURL)
		assert.ErrorIs(t, err, pipeline.ErrNoVideos)
		assert.Nil(t, summary)
	})
}

func TestRunner_CancelledBeforePrefetch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"dQw4w9WgXcQ": "some transcript text"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.runner.Run(ctx, videoURL)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.True(t, summary.NoCards())
	assert.Zero(t, f.producer.CallCount())
	assert.NoFileExists(t, f.output)
}

func TestRunner_CancelledDuringGeneration(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"a": "transcript a", "b": "transcript b"})
	f.resolver.VideoIDs = []string{"a", "b"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.producer.GenerateBatchFn = func(_ context.Context, _ string, count int) ([]domain.QuizQuestion, error) {
		cancel()
		return mocks.SampleQuestions(count, "partial"), nil
	}

	summary, err := f.runner.Run(ctx, playlistURL)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)

	// The first batch of the first video completed before cancellation.
	assert.Len(t, summary.Questions, 5)
	assert.Len(t, summary.Videos, 1)
	assert.Nil(t, summary.Artifacts)
	assert.NoFileExists(t, f.output)
}

func TestRunner_PrefetchConcurrencyIsBounded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.resolver.VideoIDs = []string{"v1", "v2", "v3", "v4", "v5", "v6"}

	var inFlight, peak atomic.Int32
	f.source.FetchTranscriptFn = func(_ context.Context, videoID string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return "transcript for " + videoID, nil
	}

	summary, err := f.runner.Run(context.Background(), playlistURL)
	require.NoError(t, err)

	assert.Len(t, summary.Questions, 60)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.ElementsMatch(t, f.resolver.VideoIDs, f.source.Calls())
}

func TestNewRunner_Validation(t *testing.T) {
	t.Parallel()

	_, log := logger.NewTestLogger(t)
	scheduler, err := generation.NewScheduler(mocks.NewExactProducer(), log)
	require.NoError(t, err)

	resolver := &mocks.MockPlaylistResolver{}
	source := mocks.NewMockSource(nil)
	exporter := deck.NewExporter("", log)
	emitter := events.NewEmitter(log)
	opts := defaultOptions(filepath.Join(os.TempDir(), "unused.txt"))

	tests := []struct {
		name    string
		build   func() (*pipeline.Runner, error)
		wantErr error
	}{
		{
			name: "nil resolver",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(nil, source, scheduler, exporter, emitter, opts, log)
			},
			wantErr: pipeline.ErrNilResolver,
		},
		{
			name: "nil source",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(resolver, nil, scheduler, exporter, emitter, opts, log)
			},
			wantErr: pipeline.ErrNilSource,
		},
		{
			name: "nil generator",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(resolver, source, nil, exporter, emitter, opts, log)
			},
			wantErr: pipeline.ErrNilGenerator,
		},
		{
			name: "nil exporter",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(resolver, source, scheduler, nil, emitter, opts, log)
			},
			wantErr: pipeline.ErrNilExporter,
		},
		{
			name: "nil emitter",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(resolver, source, scheduler, exporter, nil, opts, log)
			},
			wantErr: pipeline.ErrNilEmitter,
		},
		{
			name: "nil logger",
			build: func() (*pipeline.Runner, error) {
				return pipeline.NewRunner(resolver, source, scheduler, exporter, emitter, opts, nil)
			},
			wantErr: pipeline.ErrNilLogger,
		},
		{
			name: "invalid generation options",
			build: func() (*pipeline.Runner, error) {
				bad := opts
				bad.Generation.QuestionsPerBatch = 0
				return pipeline.NewRunner(resolver, source, scheduler, exporter, emitter, bad, log)
			},
			wantErr: generation.ErrInvalidOptions,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			runner, err := tc.build()
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, runner)
		})
	}
}
