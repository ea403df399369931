package home

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/ui/components"
	"github.com/abhisek/lectio/internal/ui/layout"
	"github.com/abhisek/lectio/internal/ui/theme"
)

// Routes builds the screens reachable from the home menu.
type Routes struct {
	Reading func() screen.Screen
	History func() screen.Screen
}

// Screen is the main menu shown after sign-in.
type Screen struct {
	account *screen.Account
	menu    components.Menu
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the home screen.
func New(account *screen.Account, routes Routes) *Screen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	return &Screen{
		account: account,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "New reading", Detail: "pick a topic and get a passage at your level", Action: push(routes.Reading)},
			{Label: "Progress", Detail: "scores of past texts", Action: push(routes.History)},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		}),
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Home"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	greeting := "Hello"
	if s.account != nil && s.account.Username != "" {
		greeting = "Hello, " + s.account.Username
	}
	level := ""
	if s.account != nil {
		level = "Current level: " + s.account.Level.Label()
	}

	block := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(greeting),
		theme.Muted.Render(level),
		"",
		s.menu.View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
