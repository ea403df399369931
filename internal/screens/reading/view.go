package reading

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/ui/layout"
	"github.com/abhisek/lectio/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *Screen) View(width, height int) string {
	col := layout.ColumnWidth(width)
	var body string
	switch s.phase {
	case phaseTopic:
		body = s.renderTopic(col)
	case phaseGenerating:
		body = s.renderSpinner("Writing a passage and questions for you...")
	case phaseSubmitting:
		body = s.renderSpinner("Grading your answers...")
	case phaseReading:
		body = s.renderPassage(col, height)
	case phaseQuestions:
		body = s.renderQuestion(col)
	case phaseReview:
		body = s.renderReview()
	case phaseError:
		body = "\n\n" + theme.ErrorText.Render(s.errMsg)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *Screen) renderTopic(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("What would you like to read about?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Difficulty: ◂ " + s.difficultyLabel() + " ▸"))
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Width(width).Render("Topic: " + s.topic.View()))
	return b.String()
}

func (s *Screen) difficultyLabel() string {
	if s.level != 0 {
		return s.level.Label()
	}
	if s.account != nil {
		return "my level (" + s.account.Level.Label() + ")"
	}
	return "my level"
}

func (s *Screen) renderSpinner(label string) string {
	frame := spinnerFrames[s.spinner%len(spinnerFrames)]
	return "\n\n\n" + lipgloss.NewStyle().Foreground(theme.Primary).Render(frame) +
		" " + theme.Muted.Render(label)
}

func (s *Screen) renderPassage(width, height int) string {
	p := s.session.Passage
	lines := wrapLines(p.Body, width-8)

	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := s.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %d words", s.session.Level.Label(), p.Words())))
	if s.session.Degraded {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("  (%d of the questions could be used)", len(s.session.Questions))))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Passage.Render(strings.Join(lines[s.scroll:end], "\n")))
	if end < len(lines) {
		b.WriteString("\n" + theme.Hint.Render("  ↓ more"))
	}
	return b.String()
}

func (s *Screen) renderQuestion(width int) string {
	mc := s.choices[s.current]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Question %d of %d", s.current+1, len(s.choices))))
	cat := string(s.session.Questions[s.current].Category)
	b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render(cat))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")
	b.WriteString(mc.View(width))
	b.WriteString("\n")
	b.WriteString(s.renderDots())
	return b.String()
}

// renderDots shows one marker per question: answered, unanswered, current.
func (s *Screen) renderDots() string {
	parts := make([]string, len(s.choices))
	for i, mc := range s.choices {
		dot := "○"
		style := theme.Muted
		if mc.Answer() != "" {
			dot = "●"
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		if i == s.current {
			style = theme.Selected
		}
		parts[i] = style.Render(dot)
	}
	return strings.Join(parts, " ")
}

func (s *Screen) renderReview() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render("Submit your answers?"))
	b.WriteString("\n\n")
	if n := s.unanswered(); n > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("%d unanswered question(s) will count as incorrect.", n)))
		b.WriteString("\n\n")
	}
	b.WriteString(s.renderDots())
	return b.String()
}
