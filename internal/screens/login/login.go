package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/store"
	"github.com/abhisek/lectio/internal/ui/components"
	"github.com/abhisek/lectio/internal/ui/layout"
	"github.com/abhisek/lectio/internal/ui/theme"
)

// Authenticator checks and creates local accounts.
type Authenticator interface {
	Verify(ctx context.Context, username, password string) (*store.User, error)
	Register(ctx context.Context, username, password string) (*store.User, error)
}

type authDoneMsg struct {
	User *store.User
	Err  error
}

// Screen is the sign-in form. Ctrl+R registers the entered name instead.
type Screen struct {
	auth    Authenticator
	account *screen.Account
	next    func() screen.Screen

	username components.TextInput
	password components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the login screen. On success the account is filled in and
// the screen is replaced by next().
func New(a Authenticator, account *screen.Account, next func() screen.Screen, username string) *Screen {
	s := &Screen{
		auth:     a,
		account:  account,
		next:     next,
		username: components.NewTextInput("username", false, 32),
		password: components.NewTextInput("password", true, 72),
	}
	s.password.Blur()
	if username != "" {
		s.username.Model.SetValue(username)
		s.username.Blur()
		s.password.Focus()
		s.focus = 1
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	if s.focus == 1 {
		return s.password.Focus()
	}
	return s.username.Init()
}

func (s *Screen) Title() string {
	return "Sign in"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+R", Description: "Register"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.account.UserID = msg.User.ID
		s.account.Username = msg.User.Username
		s.account.Level = leveling.Level(msg.User.Level)
		next := s.next()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "enter":
			if s.focus == 0 {
				return s, s.toggleFocus()
			}
			return s, s.submit(false)
		case "ctrl+r":
			return s, s.submit(true)
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.username, cmd = s.username.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *Screen) toggleFocus() tea.Cmd {
	if s.focus == 0 {
		s.focus = 1
		s.username.Blur()
		return s.password.Focus()
	}
	s.focus = 0
	s.password.Blur()
	return s.username.Focus()
}

func (s *Screen) submit(register bool) tea.Cmd {
	username := strings.TrimSpace(s.username.Value())
	password := s.password.Value()
	if username == "" || password == "" {
		s.errMsg = "Enter a username and a password."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	return func() tea.Msg {
		ctx := context.Background()
		var (
			u   *store.User
			err error
		)
		if register {
			u, err = s.auth.Register(ctx, username, password)
		} else {
			u, err = s.auth.Verify(ctx, username, password)
		}
		return authDoneMsg{User: u, Err: err}
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Unknown username or wrong password."
	case errors.Is(err, store.ErrDuplicateUser):
		return "That username is taken."
	case errors.Is(err, auth.ErrInvalidInput):
		return "Usernames are 3-32 characters without spaces; passwords at least 6."
	default:
		return err.Error()
	}
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Welcome to Lectio"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Reading practice that grows with you"))
	b.WriteString("\n\n")
	b.WriteString(label("Username", s.focus == 0) + s.username.View())
	b.WriteString("\n")
	b.WriteString(label("Password", s.focus == 1) + s.password.View())
	if s.busy {
		b.WriteString("\n\n" + theme.Muted.Render("Checking..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(s.errMsg))
	}

	form := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}

func label(name string, focused bool) string {
	style := theme.Muted
	if focused {
		style = theme.Selected
	}
	return style.Width(10).Render(name)
}
