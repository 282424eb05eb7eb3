package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/generation"
)

// ResponseSchema is the JSON object the model is asked to return.
type ResponseSchema struct {
	// Questions is nil when the key is absent from the response.
	Questions []QuestionSchema `json:"questions"`
}

// QuestionSchema represents a single question in the model response.
type QuestionSchema struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
}

// ParseQuestions decodes a model response into quiz questions.
//
// Markdown code fences and any prose around the outermost JSON object are
// tolerated since models add them despite JSON mode. A response without a
// "questions" key yields no questions. Individual questions are not
// validated here; malformed JSON is reported as generation.ErrInvalidResponse.
func ParseQuestions(raw string) ([]domain.QuizQuestion, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response body", generation.ErrInvalidResponse)
	}

	var resp ResponseSchema
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	questions := make([]domain.QuizQuestion, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		questions = append(questions, domain.QuizQuestion{
			Question: q.Question,
			Answer:   q.Answer,
			Options:  q.Options,
		})
	}
	return questions, nil
}

// extractJSON strips code fences and returns the span from the first '{' to
// the last '}'. Input without braces is returned trimmed so the decoder can
// report it.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
