package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write reading comprehension quizzes for high-school students.

Rules:
- Every question must be answerable from the passage.
- Give each question exactly 4 options. Exactly one option is correct.
- "correct" must repeat the text of the correct option exactly, not its letter or number.
- Do not prefix options with letters or numbers.
- Distractors should be plausible to a student who skimmed the passage.
- Reply with JSON only. No commentary before or after it.`

// buildUserMessage constructs the user message for a question set.
func buildUserMessage(input GenerateInput, count int) string {
	var b strings.Builder

	if input.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	}
	if input.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", input.Level)
	}

	b.WriteString("\nPassage:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(input.Passage))
	b.WriteString("\n\"\"\"\n\n")

	fmt.Fprintf(&b, "Write %d multiple-choice questions with 4 options each.\n", count)
	b.WriteString(categoryMix(count))

	b.WriteString(`
Format:
[
  {"question": "What does X mean in the passage?", "options": ["A", "B", "C", "D"], "correct": "A", "category": "vocabulary"}
]`)

	return b.String()
}

// categoryMix describes how many questions of each category to write.
func categoryMix(count int) string {
	counts := make(map[Category]int)
	for i := 0; i < count; i++ {
		counts[categoryForPosition(i)]++
	}

	var b strings.Builder
	for _, c := range Categories {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(&b, "- %d %s\n", n, c)
		}
	}
	return b.String()
}
