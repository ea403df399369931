package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/screens/history"
	"github.com/abhisek/lectio/internal/screens/home"
	"github.com/abhisek/lectio/internal/screens/login"
	"github.com/abhisek/lectio/internal/screens/reading"
	"github.com/abhisek/lectio/internal/screens/result"
	"github.com/abhisek/lectio/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Auth     *auth.Service
	Practice *practice.Service

	// Username pre-fills the sign-in form.
	Username string

	// Timeout bounds each generation call made from the UI.
	Timeout time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	account *screen.Account
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	account := &screen.Account{}

	var newReading func() screen.Screen
	newReading = func() screen.Screen {
		return reading.New(opts.Practice, account, func(sess *practice.Session, out *practice.Outcome) screen.Screen {
			return result.New(sess, out, newReading)
		}, opts.Timeout)
	}
	newHome := func() screen.Screen {
		return home.New(account, home.Routes{
			Reading: newReading,
			History: func() screen.Screen { return history.New(opts.Practice, account) },
		})
	}

	return AppModel{
		router:  router.New(login.New(opts.Auth, account, newHome, opts.Username)),
		account: account,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	level := ""
	if m.account.Username != "" {
		level = m.account.Level.Label()
	}
	header := layout.RenderHeader(active.Title(), m.account.Username, level, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if h := hp.KeyHints(); len(h) > 0 {
			hints = h
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
