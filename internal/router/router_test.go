package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/lectio/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPushPop(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)

	next := &stubScreen{title: "next"}
	r.Update(PushScreenMsg{Screen: next})
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "next", r.Active().Title())
	assert.True(t, next.initRan)

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "root", r.View(80, 24))

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth(), "root is never popped")
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "login"})
	home := &stubScreen{title: "home"}

	r.Update(ReplaceScreenMsg{Screen: home})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
	assert.True(t, home.initRan)
}

func TestPopToRoot(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "reading"})
	r.Push(&stubScreen{title: "result"})

	r.Update(PopToRootMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
}

func TestForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "root"}
	top := &stubScreen{title: "top"}
	r := New(root)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Equal(t, 0, root.updates)
	assert.Equal(t, 1, top.updates)
}
