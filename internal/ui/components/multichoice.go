package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector with two to four options.
// It does not know the correct answer; grading happens after all
// questions are answered.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int // -1 until an option is picked
}

// NewMultiChoice creates a selector. chosen is the previously picked
// option index or -1.
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	} else {
		chosen = -1
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update handles arrow navigation, number keys and enter. picked reports
// whether this message selected an option.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
		return m, true
	default:
		if idx, ok := optionIndex(key, len(m.Options)); ok {
			m.Cursor = idx
			m.Chosen = idx
			return m, true
		}
	}
	return m, false
}

// Answer returns the chosen option text, or "" when nothing was picked.
func (m MultiChoice) Answer() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// View renders the question and its options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "•"
		}
		line := fmt.Sprintf("%s%c) %s %s", prefix, 'A'+rune(i), opt, mark)

		style := theme.Unselected
		if i == m.Cursor {
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// optionIndex maps "1".."4" and "a".."d" to an option index.
func optionIndex(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var idx int
	switch {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	default:
		return 0, false
	}
	return idx, idx < n
}
