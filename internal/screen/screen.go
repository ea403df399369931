package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/ui/layout"
)

// Screen is one view on the router stack.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Account is the signed-in reader shared by all screens. Screens that
// change the level update it in place so the header follows.
type Account struct {
	UserID   int64
	Username string
	Level    leveling.Level
}
