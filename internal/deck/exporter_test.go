package deck_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/scry-deck/internal/deck"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/mocks"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goQuestion() domain.QuizQuestion {
	return domain.QuizQuestion{
		Question: "What is Go?",
		Answer:   "A language",
		Options:  []string{"A language", "A game", "A board", "A stone"},
	}
}

func TestFront(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"What is Go?<br><br>- A language<br>- A game<br>- A board<br>- A stone<br>",
		deck.Front(goQuestion()))
}

func TestNoteGUID(t *testing.T) {
	t.Parallel()

	q := goQuestion()
	other := q
	other.Question = "What is Rust?"

	assert.Equal(t, deck.NoteGUID(q), deck.NoteGUID(goQuestion()), "GUID should be stable")
	assert.NotEqual(t, deck.NoteGUID(q), deck.NoteGUID(other))
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "txt extension", path: "output.txt", want: "output.json"},
		{name: "nested path", path: filepath.Join("decks", "go.tsv"), want: filepath.Join("decks", "go.json")},
		{name: "no extension", path: "deck", want: "deck.json"},
		{name: "apkg extension", path: "output.apkg", want: "output.json"},
		{name: "json extension", path: "output.json", wantErr: true},
		{name: "upper case json extension", path: "OUT.JSON", wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := deck.JSONPath(tc.path)
			if tc.wantErr {
				assert.ErrorIs(t, err, deck.ErrInvalidOutputPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "output.txt")

	_, log := logger.NewTestLogger(t)
	exp := deck.NewExporter("", log)
	assert.Equal(t, deck.DefaultName, exp.Name())

	q := goQuestion()
	artifacts, err := exp.Export([]domain.QuizQuestion{q}, out)
	require.NoError(t, err)
	assert.Equal(t, out, artifacts.DeckPath)
	assert.Equal(t, filepath.Join(dir, "output.json"), artifacts.JSONPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	want := strings.Join([]string{
		"#separator:tab",
		"#html:true",
		"#notetype:Basic",
		"#deck:YouTube Quiz",
		"#guid column:1",
		deck.NoteGUID(q) + "\t" + deck.Front(q) + "\tA language",
		"",
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestExporter_JSONMirror(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "deck.txt")

	questions := append(mocks.SampleQuestions(2, "go"), domain.QuizQuestion{
		Question: "Qu'est-ce qu'un <b>café</b>?",
		Answer:   "Une boisson",
		Options:  []string{"Une boisson", "Un pays", "Une ville", "Un fleuve"},
	})

	_, log := logger.NewTestLogger(t)
	artifacts, err := deck.NewExporter("Go Course", log).Export(questions, out)
	require.NoError(t, err)

	data, err := os.ReadFile(artifacts.JSONPath)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n    {\n        \"question\": "), "expected 4-space indentation, got:\n%s", text)
	assert.Contains(t, text, "café")
	assert.Contains(t, text, "<b>")

	var decoded []domain.QuizQuestion
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, questions, decoded)

	deckData, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(deckData), "#deck:Go Course\n")
	assert.Equal(t, 5+len(questions), strings.Count(string(deckData), "\n"))
}

func TestExporter_Errors(t *testing.T) {
	t.Parallel()

	_, log := logger.NewTestLogger(t)
	exp := deck.NewExporter("Deck", log)
	dir := t.TempDir()

	_, err := exp.Export(nil, filepath.Join(dir, "output.txt"))
	assert.ErrorIs(t, err, deck.ErrNoQuestions)

	_, err = exp.Export(mocks.SampleQuestions(1, "x"), filepath.Join(dir, "output.json"))
	assert.ErrorIs(t, err, deck.ErrInvalidOutputPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed exports should not write files")
}
