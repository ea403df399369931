package passage

import (
	"fmt"
	"strings"

	"github.com/abhisek/lectio/internal/leveling"
)

const systemPrompt = `You write reading passages for high-school students practicing reading comprehension.

Rules:
- Start with a short title as a markdown heading, then the passage in plain paragraphs.
- Use vocabulary appropriate for high-school students at the requested level.
- The passage must be factual, self-contained, and rich enough to ask vocabulary, inference, and critical-thinking questions about.
- Do not include questions, answers, or notes for the instructor.`

// targetWords returns the approximate passage length for a level.
func targetWords(l leveling.Level) int {
	if l < leveling.LevelBeginner {
		l = leveling.LevelBeginner
	}
	return 150 + 75*int(l-leveling.LevelBeginner)
}

func buildUserMessage(topic string, level leveling.Level) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a reading passage at the %s level about: %s.\n", level.Label(), topic)
	fmt.Fprintf(&b, "Length: about %d words.\n", targetWords(level))
	b.WriteString("Include vocabulary appropriate for high-school students.")
	return b.String()
}
