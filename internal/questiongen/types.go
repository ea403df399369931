package questiongen

import "strings"

// Question is a validated multiple-choice comprehension question.
type Question struct {
	// Text is the question prompt shown to the student.
	Text string

	// Options are the answer choices in display order. 2 to 4 entries.
	Options []string

	// Correct is the text of the correct option. Always one of Options.
	Correct string

	// Category is the skill the question exercises.
	Category Category
}

// CorrectIndex returns the position of the correct option, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o == q.Correct {
			return i
		}
	}
	return -1
}

// Category classifies what a question exercises.
type Category string

const (
	CategoryVocabulary       Category = "vocabulary"
	CategoryInference        Category = "inference"
	CategoryCriticalThinking Category = "critical-thinking"
)

// Categories lists the known categories.
var Categories = []Category{CategoryVocabulary, CategoryInference, CategoryCriticalThinking}

// ParseCategory normalizes a category label. Spacing, case, and underscores
// are ignored; "vocab" and "critical" are accepted shorthands.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "vocabulary", "vocab", "vocabulario":
		return CategoryVocabulary, true
	case "inference", "inferencia":
		return CategoryInference, true
	case "critical-thinking", "critical", "pensamiento-critico", "pensamiento-crítico":
		return CategoryCriticalThinking, true
	}
	return "", false
}

// categoryForPosition returns the category the prompt asks for at index i:
// two vocabulary, two inference, then critical thinking.
func categoryForPosition(i int) Category {
	switch {
	case i < 2:
		return CategoryVocabulary
	case i < 4:
		return CategoryInference
	default:
		return CategoryCriticalThinking
	}
}

// GenerateInput holds all context needed to generate a question set.
type GenerateInput struct {
	// Passage is the text the questions are about.
	Passage string

	// Topic is the subject the student picked. Optional, used in the prompt.
	Topic string

	// Level is the human label of the student's level, e.g. "intermediate".
	Level string

	// Count is the number of questions requested. Zero uses Config.Count.
	Count int
}

// Result is the outcome of extracting questions from a model response.
type Result struct {
	// Questions are the elements that passed validation, in original order.
	Questions []Question

	// Dropped describes elements that failed validation.
	Dropped []Rejection

	// Expected is the number of questions that was asked for.
	Expected int

	// Degraded is true when fewer than Expected questions survived.
	Degraded bool
}

// Rejection records why one element of the payload was dropped.
type Rejection struct {
	Index int
	Err   *ValidationError
}
