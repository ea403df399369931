package reading

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/router"
	"github.com/abhisek/lectio/internal/screen"
	"github.com/abhisek/lectio/internal/ui/components"
	"github.com/abhisek/lectio/internal/ui/layout"
)

// Practice is the part of the practice service this screen drives.
type Practice interface {
	Start(ctx context.Context, userID int64, topic string, level leveling.Level) (*practice.Session, error)
	Submit(ctx context.Context, userID, textID int64, answers []string) (*practice.Outcome, error)
}

// ResultFactory builds the screen shown after grading.
type ResultFactory func(sess *practice.Session, out *practice.Outcome) screen.Screen

type phase int

const (
	phaseTopic phase = iota
	phaseGenerating
	phaseReading
	phaseQuestions
	phaseReview
	phaseSubmitting
	phaseError
)

// Screen walks a reader through one text: topic entry, generation,
// reading, answering and submission.
type Screen struct {
	practice Practice
	account  *screen.Account
	result   ResultFactory
	timeout  time.Duration

	phase phase
	topic components.TextInput
	// level is the chosen difficulty; zero reads at the account's level.
	level   leveling.Level
	session *practice.Session
	choices []components.MultiChoice
	current int
	scroll  int
	spinner int
	errMsg  string
	// retry is the phase to return to after an error.
	retry phase
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a reading screen. timeout bounds each generation or
// submission call; zero means no limit.
func New(p Practice, account *screen.Account, result ResultFactory, timeout time.Duration) *Screen {
	return &Screen{
		practice: p,
		account:  account,
		result:   result,
		timeout:  timeout,
		topic:    components.NewTextInput("e.g. volcanoes, jazz, the Silk Road", false, 120),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *Screen) Title() string {
	if s.session != nil && s.session.Passage != nil && s.session.Passage.Title != "" {
		return s.session.Passage.Title
	}
	return "New Reading"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseTopic:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate"},
			{Key: "↑↓", Description: "Difficulty"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseReading:
		return []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}, {Key: "Enter", Description: "Questions"}}
	case phaseQuestions:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "Tab", Description: "Passage"},
			{Key: "S", Description: "Finish"},
		}
	case phaseReview:
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Keep answering"}}
	case phaseError:
		return []layout.KeyHint{{Key: "Enter", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		return s.handleReady(msg)
	case submittedMsg:
		return s.handleSubmitted(msg)
	case spinnerTickMsg:
		if s.phase == phaseGenerating || s.phase == phaseSubmitting {
			s.spinner++
			return s, spinnerCmd()
		}
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseTopic {
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseTopic:
		switch key {
		case "esc":
			return s, popCmd
		case "up":
			s.level = stepLevel(s.level, 1)
			return s, nil
		case "down":
			s.level = stepLevel(s.level, -1)
			return s, nil
		case "enter":
			topic := strings.TrimSpace(s.topic.Value())
			if topic == "" {
				return s, nil
			}
			s.phase = phaseGenerating
			return s, tea.Batch(s.start(topic), spinnerCmd())
		}
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		return s, cmd

	case phaseReading:
		switch key {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		case "enter", "tab":
			s.phase = phaseQuestions
		case "esc":
			return s, popCmd
		}

	case phaseQuestions:
		switch key {
		case "tab":
			s.phase = phaseReading
			return s, nil
		case "left", "h":
			if s.current > 0 {
				s.current--
			}
			return s, nil
		case "right", "l":
			if s.current < len(s.choices)-1 {
				s.current++
			}
			return s, nil
		case "s", "S", "esc":
			s.phase = phaseReview
			return s, nil
		}
		mc, picked := s.choices[s.current].Update(msg)
		s.choices[s.current] = mc
		if picked {
			if s.current < len(s.choices)-1 {
				s.current++
			} else {
				s.phase = phaseReview
			}
		}

	case phaseReview:
		switch key {
		case "enter", "y", "Y":
			s.phase = phaseSubmitting
			return s, tea.Batch(s.submit(), spinnerCmd())
		case "esc", "n", "N":
			s.phase = phaseQuestions
		}

	case phaseError:
		switch key {
		case "enter":
			if s.retry == phaseSubmitting {
				s.phase = phaseSubmitting
				return s, tea.Batch(s.submit(), spinnerCmd())
			}
			s.phase = phaseTopic
			return s, s.topic.Focus()
		case "esc":
			return s, popCmd
		}
	}
	return s, nil
}

func (s *Screen) handleReady(msg sessionReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.fail(msg.Err, phaseTopic)
		return s, nil
	}
	s.session = msg.Session
	s.choices = make([]components.MultiChoice, len(msg.Session.Questions))
	for i, q := range msg.Session.Questions {
		s.choices[i] = components.NewMultiChoice(q.Text, q.Options, -1)
	}
	s.current = 0
	s.scroll = 0
	s.phase = phaseReading
	return s, nil
}

func (s *Screen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.fail(msg.Err, phaseSubmitting)
		return s, nil
	}
	if s.account != nil {
		s.account.Level = msg.Outcome.Level
	}
	next := s.result(s.session, msg.Outcome)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) fail(err error, retry phase) {
	s.errMsg = describeError(err)
	s.retry = retry
	s.phase = phaseError
}

// answers returns one entry per question; "" marks an unanswered question.
func (s *Screen) answers() []string {
	out := make([]string, len(s.choices))
	for i, mc := range s.choices {
		out[i] = mc.Answer()
	}
	return out
}

func (s *Screen) unanswered() int {
	n := 0
	for _, mc := range s.choices {
		if mc.Answer() == "" {
			n++
		}
	}
	return n
}

// stepLevel cycles the difficulty choice: zero (the account's level), then
// beginner through advanced.
func stepLevel(l leveling.Level, delta int) leveling.Level {
	n := int(leveling.LevelAdvanced) + 1
	return leveling.Level(((int(l)+delta)%n + n) % n)
}

func (s *Screen) start(topic string) tea.Cmd {
	userID := s.account.UserID
	level := s.level
	return func() tea.Msg {
		ctx, cancel := s.context()
		defer cancel()
		sess, err := s.practice.Start(ctx, userID, topic, level)
		return sessionReadyMsg{Session: sess, Err: err}
	}
}

func (s *Screen) submit() tea.Cmd {
	userID := s.account.UserID
	textID := s.session.TextID
	answers := s.answers()
	return func() tea.Msg {
		ctx, cancel := s.context()
		defer cancel()
		out, err := s.practice.Submit(ctx, userID, textID, answers)
		return submittedMsg{Outcome: out, Err: err}
	}
}

func (s *Screen) context() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(context.Background(), s.timeout)
	}
	return context.WithCancel(context.Background())
}

// describeError turns pipeline failures into messages for the reader.
func describeError(err error) string {
	var (
		netErr  *llm.ErrNetwork
		upErr   *llm.ErrUpstream
		rateErr *llm.ErrRateLimit
	)
	switch {
	case errors.As(err, &rateErr):
		return "The text generator is busy. Wait a moment and try again."
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return "Could not reach the text generator. Check your connection and try again."
	case errors.As(err, &upErr):
		return "The text generator reported an error. Try again."
	case errors.Is(err, questiongen.ErrMalformedResponse), errors.Is(err, passage.ErrEmptyPassage):
		return "The generated text could not be used. Try again or pick another topic."
	case errors.Is(err, practice.ErrAlreadySubmitted):
		return "These answers were already submitted."
	default:
		return "Something went wrong: " + err.Error()
	}
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }

func spinnerCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// wrapLines renders text at width and splits it into lines.
func wrapLines(text string, width int) []string {
	return strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
}
