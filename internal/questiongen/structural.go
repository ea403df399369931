package questiongen

import (
	"fmt"
	"strings"
)

const (
	MinOptions = 2
	MaxOptions = 4

	maxTextLen   = 500
	maxOptionLen = 300
)

// StructuralValidator checks that the question text is present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ int) *ValidationError {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return &ValidationError{Validator: v.Name(), Message: "question text is empty", Retryable: true}
	}
	if len(q.Text) > maxTextLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question text exceeds %d characters", maxTextLen),
			Retryable: true,
		}
	}
	return nil
}

// OptionsValidator checks the option list: 2 to 4 distinct, non-empty entries.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question, _ int) *ValidationError {
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d-%d options, got %d", MinOptions, MaxOptions, len(q.Options)),
			Retryable: true,
		}
	}
	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %d is empty", i+1), Retryable: true}
		}
		if len(o) > maxOptionLen {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d exceeds %d characters", i+1, maxOptionLen),
				Retryable: true,
			}
		}
		if seen[o] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate option %q", o), Retryable: true}
		}
		seen[o] = true
		q.Options[i] = o
	}
	return nil
}

// AnswerValidator checks that the correct option is one of the offered options.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question, _ int) *ValidationError {
	q.Correct = strings.TrimSpace(q.Correct)
	if q.Correct == "" {
		return &ValidationError{Validator: v.Name(), Message: "correct option is missing", Retryable: true}
	}
	if q.CorrectIndex() < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct option %q is not among the options", q.Correct),
			Retryable: true,
		}
	}
	return nil
}

// CategoryValidator normalizes the category. Missing or unknown labels
// default to the category the prompt requests at that position.
type CategoryValidator struct{}

func (v *CategoryValidator) Name() string { return "category" }

func (v *CategoryValidator) Validate(q *Question, index int) *ValidationError {
	if c, ok := ParseCategory(string(q.Category)); ok {
		q.Category = c
		return nil
	}
	q.Category = categoryForPosition(index)
	return nil
}
