package deck

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
)

// DefaultName is the deck name used when none is configured.
const DefaultName = "YouTube Quiz"

// noteNamespace seeds the content-derived note GUIDs.
var noteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/phrazzld/scry-deck/notes"))

// Artifacts are the files written by one export.
type Artifacts struct {
	DeckPath string
	JSONPath string
}

// Exporter writes decks to disk.
type Exporter struct {
	name   string
	logger *slog.Logger
}

// NewExporter creates an Exporter for the named deck. An empty name selects
// DefaultName.
func NewExporter(name string, logger *slog.Logger) *Exporter {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return &Exporter{
		name:   name,
		logger: logger.With("component", "deck_exporter"),
	}
}

// Name returns the deck name written into exported files.
func (e *Exporter) Name() string {
	return e.name
}

// Export writes questions to outputPath and the JSON mirror next to it.
// Missing parent directories are created.
func (e *Exporter) Export(questions []domain.QuizQuestion, outputPath string) (*Artifacts, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	jsonPath, err := JSONPath(outputPath)
	if err != nil {
		return nil, err
	}

	deckData, err := e.encodeDeck(questions)
	if err != nil {
		return nil, fmt.Errorf("encode deck: %w", err)
	}
	jsonData, err := encodeJSON(questions)
	if err != nil {
		return nil, fmt.Errorf("encode json mirror: %w", err)
	}

	if err := writeFile(outputPath, deckData); err != nil {
		return nil, err
	}
	if err := writeFile(jsonPath, jsonData); err != nil {
		return nil, err
	}

	e.logger.Info("Exported deck",
		"deck_name", e.name,
		"cards", len(questions),
		"deck_path", outputPath,
		"json_path", jsonPath)

	return &Artifacts{DeckPath: outputPath, JSONPath: jsonPath}, nil
}

// JSONPath returns the JSON mirror path for a deck path: the same base name
// with a .json extension.
func JSONPath(outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		return "", fmt.Errorf("%w: path is empty", ErrInvalidOutputPath)
	}
	ext := filepath.Ext(outputPath)
	if strings.EqualFold(ext, ".json") {
		return "", fmt.Errorf("%w: %q would be overwritten by its JSON mirror", ErrInvalidOutputPath, outputPath)
	}
	return strings.TrimSuffix(outputPath, ext) + ".json", nil
}

// Front renders the card front: the question, a blank line, then one
// "- option" line per option.
func Front(q domain.QuizQuestion) string {
	var b strings.Builder
	b.WriteString(q.Question)
	b.WriteString("<br><br>")
	for _, opt := range q.Options {
		b.WriteString("- ")
		b.WriteString(opt)
		b.WriteString("<br>")
	}
	return b.String()
}

// NoteGUID returns the stable GUID for a card.
func NoteGUID(q domain.QuizQuestion) string {
	return uuid.NewSHA1(noteNamespace, []byte(q.Question+"\x00"+q.Answer)).String()
}

func (e *Exporter) encodeDeck(questions []domain.QuizQuestion) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "#separator:tab")
	fmt.Fprintln(&buf, "#html:true")
	fmt.Fprintln(&buf, "#notetype:Basic")
	fmt.Fprintf(&buf, "#deck:%s\n", sanitizeHeader(e.name))
	fmt.Fprintln(&buf, "#guid column:1")

	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	for _, q := range questions {
		if err := w.Write([]string{NoteGUID(q), Front(q), q.Answer}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(questions []domain.QuizQuestion) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(questions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sanitizeHeader(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
