package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QuestionOptionCount is the number of answer options every quiz question carries.
const QuestionOptionCount = 4

// validate is shared by all entities; validator caches struct metadata and is
// safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// QuizQuestion is a single multiple-choice study card generated from a
// transcript chunk.
type QuizQuestion struct {
	// Question is the prompt shown on the front of the card.
	Question string `json:"question" validate:"required"`

	// Answer is the correct option. It must equal one of Options.
	Answer string `json:"answer" validate:"required"`

	// Options holds the candidate answers in presentation order.
	Options []string `json:"options" validate:"len=4,dive,required"`
}

// Normalized returns a copy of the question with surrounding whitespace
// removed from every field.
func (q QuizQuestion) Normalized() QuizQuestion {
	out := QuizQuestion{
		Question: strings.TrimSpace(q.Question),
		Answer:   strings.TrimSpace(q.Answer),
	}
	if q.Options != nil {
		out.Options = make([]string, len(q.Options))
		for i, opt := range q.Options {
			out.Options[i] = strings.TrimSpace(opt)
		}
	}
	return out
}

// Validate checks the question invariants: non-blank text, exactly four
// non-blank options, and an answer that matches one of the options.
// Whitespace-only values are treated as blank.
func (q QuizQuestion) Validate() error {
	n := q.Normalized()

	if err := validate.Struct(n); err != nil {
		return translateValidationError(err)
	}

	for _, opt := range n.Options {
		if opt == n.Answer {
			return nil
		}
	}

	return fmt.Errorf("%w: %w: %q", ErrValidation, ErrAnswerNotInOptions, n.Answer)
}

// translateValidationError maps validator field errors onto the domain
// sentinel errors so callers can use errors.Is.
func translateValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Question":
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyQuestion)
	case fe.Field() == "Answer":
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyAnswer)
	case strings.HasPrefix(fe.Field(), "Options["):
		return fmt.Errorf("%w: %w: %s", ErrValidation, ErrEmptyOption, fe.Field())
	case fe.Field() == "Options":
		return fmt.Errorf("%w: %w", ErrValidation, ErrOptionCount)
	default:
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
}
