package generation_test

import (
	"math"
	"strings"
	"testing"

	"github.com/phrazzld/scry-deck/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		totalChars    int
		opts          generation.Options
		wantBatches   int
		wantChunkSize int
	}{
		{
			name:       "question quota dominates",
			totalChars: 100000,
			opts: generation.Options{
				TargetQuestions:   50,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   10,
			wantChunkSize: 10000,
		},
		{
			name:       "length dominates",
			totalChars: 100000,
			opts: generation.Options{
				TargetQuestions:   10,
				MaxCharsPerChunk:  10000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   10,
			wantChunkSize: 10000,
		},
		{
			name:       "length limit rounds up",
			totalChars: 60001,
			opts: generation.Options{
				TargetQuestions:   5,
				MaxCharsPerChunk:  20000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   4,
			wantChunkSize: 15001,
		},
		{
			name:       "empty transcript still plans by quota",
			totalChars: 0,
			opts: generation.Options{
				TargetQuestions:   50,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   10,
			wantChunkSize: 0,
		},
		{
			name:       "zero target on empty transcript plans one batch",
			totalChars: 0,
			opts: generation.Options{
				TargetQuestions:   0,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   1,
			wantChunkSize: 0,
		},
		{
			name:       "small transcript one batch",
			totalChars: 800,
			opts: generation.Options{
				TargetQuestions:   3,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   1,
			wantChunkSize: 800,
		},
		{
			name:       "max int target does not overflow",
			totalChars: 100,
			opts: generation.Options{
				TargetQuestions:   math.MaxInt,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 5,
			},
			wantBatches:   math.MaxInt/5 + 1,
			wantChunkSize: 1,
		},
		{
			name:       "max int target one question per batch",
			totalChars: 3,
			opts: generation.Options{
				TargetQuestions:   math.MaxInt,
				MaxCharsPerChunk:  25000,
				QuestionsPerBatch: 1,
			},
			wantBatches:   math.MaxInt,
			wantChunkSize: 1,
		},
		{
			name:       "max int chunk limit",
			totalChars: math.MaxInt,
			opts: generation.Options{
				TargetQuestions:   5,
				MaxCharsPerChunk:  math.MaxInt,
				QuestionsPerBatch: 5,
			},
			wantBatches:   1,
			wantChunkSize: math.MaxInt,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := generation.NewPlan(tc.totalChars, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBatches, plan.NumBatches)
			assert.Equal(t, tc.wantChunkSize, plan.ChunkSize)
		})
	}
}

func TestNewPlan_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		totalChars int
		opts       generation.Options
	}{
		{
			name:       "negative target",
			totalChars: 10,
			opts:       generation.Options{TargetQuestions: -1, MaxCharsPerChunk: 10, QuestionsPerBatch: 5},
		},
		{
			name:       "zero max chars",
			totalChars: 10,
			opts:       generation.Options{TargetQuestions: 5, MaxCharsPerChunk: 0, QuestionsPerBatch: 5},
		},
		{
			name:       "zero questions per batch",
			totalChars: 10,
			opts:       generation.Options{TargetQuestions: 5, MaxCharsPerChunk: 10, QuestionsPerBatch: 0},
		},
		{
			name:       "negative total chars",
			totalChars: -1,
			opts:       generation.Options{TargetQuestions: 5, MaxCharsPerChunk: 10, QuestionsPerBatch: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := generation.NewPlan(tc.totalChars, tc.opts)
			assert.ErrorIs(t, err, generation.ErrInvalidOptions)
		})
	}
}

func TestPlanWindows(t *testing.T) {
	t.Parallel()

	t.Run("windows cover the text exactly", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("abcdefghij", 7) + "xyz"
		plan, err := generation.NewPlan(len(text), generation.Options{
			TargetQuestions:   5,
			MaxCharsPerChunk:  20,
			QuestionsPerBatch: 5,
		})
		require.NoError(t, err)
		require.Equal(t, 4, plan.NumBatches)

		windows := plan.Windows(text)
		require.Len(t, windows, plan.NumBatches)
		assert.Equal(t, text, strings.Join(windows, ""))
		for _, w := range windows[:len(windows)-1] {
			assert.Len(t, w, plan.ChunkSize)
		}
	})

	t.Run("trailing windows may be empty", func(t *testing.T) {
		t.Parallel()

		// 3 characters across 10 batches: chunk size 1 leaves seven empty windows
		text := "abc"
		plan, err := generation.NewPlan(len(text), generation.Options{
			TargetQuestions:   50,
			MaxCharsPerChunk:  25000,
			QuestionsPerBatch: 5,
		})
		require.NoError(t, err)
		require.Equal(t, 10, plan.NumBatches)

		windows := plan.Windows(text)
		require.Len(t, windows, 10)
		assert.Equal(t, []string{"a", "b", "c"}, windows[:3])
		for _, w := range windows[3:] {
			assert.Empty(t, w)
		}
	})

	t.Run("boundaries respect multi-byte runes", func(t *testing.T) {
		t.Parallel()

		text := "héllo wörld ñandú 日本語のテキスト"
		runeCount := len([]rune(text))
		plan, err := generation.NewPlan(runeCount, generation.Options{
			TargetQuestions:   5,
			MaxCharsPerChunk:  7,
			QuestionsPerBatch: 5,
		})
		require.NoError(t, err)

		windows := plan.Windows(text)
		assert.Equal(t, text, strings.Join(windows, ""))
		for _, w := range windows {
			assert.LessOrEqual(t, len([]rune(w)), plan.ChunkSize)
			assert.NotContains(t, w, "�")
		}
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		plan, err := generation.NewPlan(0, generation.Options{
			TargetQuestions:   10,
			MaxCharsPerChunk:  100,
			QuestionsPerBatch: 5,
		})
		require.NoError(t, err)

		windows := plan.Windows("")
		assert.Equal(t, []string{"", ""}, windows)
	})

	t.Run("huge chunk size does not overflow offsets", func(t *testing.T) {
		t.Parallel()

		plan := generation.Plan{NumBatches: 4, ChunkSize: math.MaxInt}
		assert.Equal(t, []string{"abc", "", "", ""}, plan.Windows("abc"))
	})
}

func TestPlanQuota(t *testing.T) {
	t.Parallel()

	plan := generation.Plan{NumBatches: 10, ChunkSize: 10000}

	tests := []struct {
		name      string
		index     int
		target    int
		generated int
		want      int
	}{
		{name: "first batch even split", index: 0, target: 50, generated: 0, want: 5},
		{name: "uneven split rounds up", index: 0, target: 51, generated: 0, want: 6},
		{name: "under-delivery inflates later asks", index: 5, target: 50, generated: 10, want: 8},
		{name: "last batch gets the remainder", index: 9, target: 50, generated: 38, want: 12},
		{name: "target met", index: 4, target: 50, generated: 50, want: 0},
		{name: "target exceeded", index: 4, target: 50, generated: 60, want: 0},
		{name: "zero target", index: 0, target: 0, generated: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, plan.Quota(tc.index, tc.target, tc.generated))
		})
	}

	t.Run("max int target", func(t *testing.T) {
		t.Parallel()
		huge := generation.Plan{NumBatches: math.MaxInt/5 + 1, ChunkSize: 1}
		assert.Equal(t, 5, huge.Quota(0, math.MaxInt, 0))
		assert.Equal(t, math.MaxInt-5, huge.Quota(huge.NumBatches-1, math.MaxInt, 5))
	})
}
