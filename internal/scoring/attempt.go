package scoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/lectio/internal/questiongen"
)

// Attempt is one graded answer to one question. It is not modified after
// Grade returns it.
type Attempt struct {
	Question questiongen.Question

	// Selected is the chosen option text, or nil when unanswered. Input that
	// names no option is kept verbatim.
	Selected *string

	Correct    bool
	AnsweredAt time.Time
}

// Answered reports whether the student picked anything.
func (a Attempt) Answered() bool {
	return a.Selected != nil
}

// Grade checks the student's input against q.
//
// Input is matched, after trimming, against:
//   - an option's text (case-insensitive)
//   - a 1-based option number ("2")
//   - an option letter ("b", "B)")
//
// Blank input counts as unanswered and incorrect.
func Grade(q questiongen.Question, input string, now time.Time) Attempt {
	a := Attempt{Question: q, AnsweredAt: now}

	input = strings.TrimSpace(input)
	if input == "" {
		return a
	}

	selected := input
	if idx := ResolveOption(q, input); idx >= 0 {
		selected = q.Options[idx]
	}
	a.Selected = &selected
	a.Correct = selected == q.Correct
	return a
}

// ResolveOption returns the index of the option named by input, or -1.
func ResolveOption(q questiongen.Question, input string) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return -1
	}

	for i, o := range q.Options {
		if strings.EqualFold(strings.TrimSpace(o), input) {
			return i
		}
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return n - 1
		}
		return -1
	}

	letter := strings.TrimRight(input, ").:")
	if len(letter) == 1 {
		c := letter[0] | 0x20 // lower-case ASCII
		if c >= 'a' && int(c-'a') < len(q.Options) {
			return int(c - 'a')
		}
	}
	return -1
}
