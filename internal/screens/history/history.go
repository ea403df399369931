package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/ui/components"
	"github.com/abhisek/lectio/internal/ui/layout"
	"github.com/abhisek/lectio/internal/ui/theme"
)

// Limit is the number of recent texts listed.
const Limit = 50

// Reporter loads a user's progress report.
type Reporter interface {
	Progress(ctx context.Context, userID int64, limit int) (*practice.Report, error)
}

type reportLoadedMsg struct {
	Report *practice.Report
	Err    error
}

// Screen lists scores of past texts, newest first.
type Screen struct {
	reporter Reporter
	account  *screen.Account
	report   *practice.Report
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a progress screen.
func New(r Reporter, account *screen.Account) *Screen {
	return &Screen{reporter: r, account: account}
}

func (s *Screen) Init() tea.Cmd {
	userID := s.account.UserID
	return func() tea.Msg {
		rep, err := s.reporter.Progress(context.Background(), userID, Limit)
		return reportLoadedMsg{Report: rep, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Progress"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.report != nil && s.selected < len(s.report.Entries)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	center := func(str string, style lipgloss.Style) string {
		return layout.Centered(str, width, style)
	}
	switch {
	case s.errMsg != "":
		return "\n\n" + center("Error: "+s.errMsg, theme.ErrorText)
	case !s.loaded:
		return "\n\n" + center("Loading progress...", theme.Muted)
	case len(s.report.Entries) == 0:
		return "\n\n" + center("No texts completed yet. Start a new reading!", theme.Hint)
	}

	col := layout.ColumnWidth(width)
	rep := s.report

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s   %s\n\n",
		theme.Body.Bold(true).Render(fmt.Sprintf("%d texts", rep.Texts)),
		theme.Muted.Render(fmt.Sprintf("level %s", rep.Level.Label()))))
	b.WriteString(components.NewScoreBar("Average", rep.Average, col).View())
	b.WriteString("\n\n")

	// Keep the selected row on screen.
	rows := height - 7
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(rep.Entries))

	for i := start; i < end; i++ {
		e := rep.Entries[i]
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-24s %-18s %5.1f%%",
			prefix, e.CreatedAt.Local().Format("Jan 02 15:04"), truncate(e.Topic, 24), e.Difficulty, e.Score)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
