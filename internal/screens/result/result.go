package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/ui/components"
	"github.com/abhisek/lectio/internal/ui/layout"
	"github.com/abhisek/lectio/internal/ui/theme"
)

// Screen shows the graded answers and any level change.
type Screen struct {
	session *practice.Session
	outcome *practice.Outcome
	again   func() screen.Screen
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a result screen. again builds a fresh reading screen; it
// may be nil.
func New(sess *practice.Session, out *practice.Outcome, again func() screen.Screen) *Screen {
	return &Screen{session: sess, outcome: out, again: again}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "Read another"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "n", "N":
		if s.again != nil {
			next := s.again()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	out := s.outcome
	if out == nil {
		return ""
	}
	col := layout.ColumnWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(col).Render(headline(out.Score.Ratio)))
	b.WriteString("\n\n")
	b.WriteString(components.NewScoreBar(
		fmt.Sprintf("%d/%d correct", out.Score.Correct, out.Score.Total),
		out.Score.Percent(), col).View())
	b.WriteString("\n\n")
	b.WriteString(levelLine(out.Decision))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", col)))
	b.WriteString("\n")

	for i, a := range out.Attempts {
		mark, style := "✓", theme.Correct
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d. ", mark, i+1)))
		b.WriteString(theme.Body.Render(a.Question.Text))
		b.WriteString("\n")
		if !a.Correct {
			given := "(no answer)"
			if a.Selected != nil {
				given = *a.Selected
			}
			b.WriteString(theme.Muted.Render("     your answer: " + given))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("     correct: " + a.Question.Correct))
			b.WriteString("\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func headline(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return "Excellent reading!"
	case ratio >= 0.5:
		return "Good effort."
	default:
		return "Keep practicing."
	}
}

// levelLine describes the leveling decision taken after this text.
func levelLine(d leveling.Decision) string {
	switch d.Reason {
	case leveling.ReasonPromoted:
		return theme.Correct.Render(fmt.Sprintf("Level up: %s → %s", d.From.Label(), d.To.Label()))
	case leveling.ReasonDemoted:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("Level adjusted: %s → %s", d.From.Label(), d.To.Label()))
	case leveling.ReasonInsufficientData:
		return theme.Muted.Render(fmt.Sprintf("Level %s · %d answers so far, more are needed before it changes",
			d.To.Label(), d.Samples))
	default:
		return theme.Muted.Render(fmt.Sprintf("Level %s · recent accuracy %.0f%%", d.To.Label(), d.Accuracy*100))
	}
}
