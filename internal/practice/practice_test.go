package practice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/store"
)

const passageText = "# Deserts\n\nDeserts are arid. Camels store fat in their humps."

const questionsJSON = `[
  {"question": "What does arid mean?", "options": ["dry", "wet", "cold", "loud"], "correct": "dry", "category": "vocabulary"},
  {"question": "What is a hump?", "options": ["a bump", "a hole", "a leg", "a tail"], "correct": "a bump", "category": "vocabulary"},
  {"question": "Why store fat?", "options": ["energy", "warmth", "speed", "color"], "correct": "energy", "category": "inference"},
  {"question": "Is rain common?", "options": ["no", "yes"], "correct": "no", "category": "inference"},
  {"question": "Should deserts be protected?", "options": ["yes", "no", "depends"], "correct": "depends", "category": "critical-thinking"}
]`

var allCorrect = []string{"dry", "a bump", "energy", "no", "depends"}

type fixture struct {
	store *store.Store
	mock  *llm.MockProvider
	svc   *Service
	user  *store.User
	now   time.Time
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	u, err := s.UserRepo().Create(context.Background(), "ana", "hash", 1)
	require.NoError(t, err)

	f := &fixture{
		store: s,
		mock:  llm.NewMockProvider(responses...),
		user:  u,
		now:   time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Deps{
		Users:     s.UserRepo(),
		Texts:     s.TextRepo(),
		Attempts:  s.AttemptRepo(),
		Progress:  s.ProgressRepo(),
		Passages:  passage.NewService(f.mock, passage.DefaultConfig()),
		Questions: questiongen.New(f.mock, questiongen.DefaultConfig()),
		Policy:    leveling.DefaultPolicy(),
		Now:       func() time.Time { return f.now },
	})
	return f
}

func happyResponses(n int) []llm.MockResponse {
	var out []llm.MockResponse
	for i := 0; i < n; i++ {
		out = append(out,
			llm.MockResponse{Content: json.RawMessage(passageText)},
			llm.MockResponse{Content: json.RawMessage(questionsJSON)},
		)
	}
	return out
}

func TestStart(t *testing.T) {
	f := newFixture(t, happyResponses(1)...)
	ctx := context.Background()

	sess, err := f.svc.Start(ctx, f.user.ID, "  deserts ", 0)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.NotZero(t, sess.TextID)
	assert.Equal(t, leveling.LevelBeginner, sess.Level)
	assert.Equal(t, "Deserts", sess.Passage.Title)
	assert.False(t, sess.Degraded)
	require.Len(t, sess.Questions, 5)
	require.Len(t, sess.QuestionIDs, 5)
	for _, id := range sess.QuestionIDs {
		assert.NotZero(t, id)
	}

	// Both calls ran at the user's level with the passage handed to the question stage.
	require.Len(t, f.mock.Calls, 2)
	assert.Contains(t, f.mock.Calls[0].Messages[0].Content, "beginner")
	assert.Contains(t, f.mock.Calls[1].Messages[0].Content, "Camels store fat")

	text, err := f.store.TextRepo().Get(ctx, sess.TextID)
	require.NoError(t, err)
	assert.Equal(t, "deserts", text.Topic)
	assert.Equal(t, f.user.ID, text.UserID)

	loaded, err := f.svc.Load(ctx, f.user.ID, sess.TextID)
	require.NoError(t, err)
	assert.Equal(t, sess.Questions, loaded.Questions)
	assert.Equal(t, sess.QuestionIDs, loaded.QuestionIDs)
}

func TestStart_EmptyTopic(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Start(context.Background(), f.user.ID, " ", 0)
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Empty(t, f.mock.Calls)
}

func TestStart_MalformedQuestions(t *testing.T) {
	f := newFixture(t,
		llm.MockResponse{Content: json.RawMessage(passageText)},
		llm.MockResponse{Content: json.RawMessage("1. What is arid?\nA) dry\nB) wet")},
	)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
	assert.ErrorIs(t, err, questiongen.ErrMalformedResponse)

	texts, err := f.store.TextRepo().ListByUser(ctx, f.user.ID, store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, texts, "nothing should be stored for a failed generation")
}

func TestStart_DegradedQuestions(t *testing.T) {
	partial := `[{"question": "Q1", "options": ["a", "b"], "correct": "a"}, {"question": "Q2", "options": ["a", "b"], "correct": "z"}]`
	f := newFixture(t,
		llm.MockResponse{Content: json.RawMessage(passageText)},
		llm.MockResponse{Content: json.RawMessage(partial)},
	)

	sess, err := f.svc.Start(context.Background(), f.user.ID, "deserts", 0)
	require.NoError(t, err)
	assert.True(t, sess.Degraded)
	assert.Len(t, sess.Questions, 1)
}

func TestStart_UpstreamFailure(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: &llm.ErrUpstream{StatusCode: 502, Err: errors.New("bad gateway")}})

	_, err := f.svc.Start(context.Background(), f.user.ID, "deserts", 0)
	var up *llm.ErrUpstream
	require.ErrorAs(t, err, &up)
	assert.Equal(t, 502, up.StatusCode)
}

func TestStart_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Start(context.Background(), 999, "deserts", 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit(t *testing.T) {
	f := newFixture(t, happyResponses(1)...)
	ctx := context.Background()

	sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
	require.NoError(t, err)

	// Two correct (by text and by letter), one wrong, two unanswered.
	out, err := f.svc.Submit(ctx, f.user.ID, sess.TextID, []string{"DRY", "a", "speed"})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Score.Correct)
	assert.Equal(t, 5, out.Score.Total)
	assert.InDelta(t, 0.4, out.Score.Ratio, 1e-9)
	require.Len(t, out.Attempts, 5)
	assert.Nil(t, out.Attempts[3].Selected)
	assert.Nil(t, out.Attempts[4].Selected)

	// Five answers are below the ten-answer window.
	assert.Equal(t, leveling.ReasonInsufficientData, out.Decision.Reason)
	assert.Equal(t, leveling.LevelBeginner, out.Level)

	rows, err := f.store.ProgressRepo().List(ctx, f.user.ID, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 40.0, rows[0].Score)
	assert.Equal(t, "beginner", rows[0].Difficulty)
	assert.Equal(t, "deserts", rows[0].Topic)

	recent, err := f.store.AttemptRepo().Recent(ctx, f.user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestSubmit_Twice(t *testing.T) {
	f := newFixture(t, happyResponses(1)...)
	ctx := context.Background()

	sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.user.ID, sess.TextID, allCorrect)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.user.ID, sess.TextID, allCorrect)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmit_OtherUsersText(t *testing.T) {
	f := newFixture(t, happyResponses(1)...)
	ctx := context.Background()

	sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
	require.NoError(t, err)

	other, err := f.store.UserRepo().Create(ctx, "ben", "hash", 1)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, other.ID, sess.TextID, allCorrect)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.svc.Load(ctx, other.ID, sess.TextID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_PromotesAfterFullWindow(t *testing.T) {
	f := newFixture(t, happyResponses(2)...)
	ctx := context.Background()

	first, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
	require.NoError(t, err)
	out, err := f.svc.Submit(ctx, f.user.ID, first.TextID, allCorrect)
	require.NoError(t, err)
	assert.Equal(t, leveling.ReasonInsufficientData, out.Decision.Reason)

	f.now = f.now.Add(time.Minute)
	second, err := f.svc.Start(ctx, f.user.ID, "oceans", 0)
	require.NoError(t, err)
	out, err = f.svc.Submit(ctx, f.user.ID, second.TextID, allCorrect)
	require.NoError(t, err)

	assert.Equal(t, leveling.ReasonPromoted, out.Decision.Reason)
	assert.Equal(t, leveling.LevelElementary, out.Level)
	require.NotNil(t, out.Decision.Transition)
	assert.Equal(t, "promote", out.Decision.Transition.Trigger)

	u, err := f.store.UserRepo().ByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Level)
}

func TestSubmit_PromotionRestartsWindow(t *testing.T) {
	f := newFixture(t, happyResponses(3)...)
	ctx := context.Background()

	var out *Outcome
	for i, topic := range []string{"deserts", "oceans", "forests"} {
		sess, err := f.svc.Start(ctx, f.user.ID, topic, 0)
		require.NoError(t, err)
		f.now = f.now.Add(time.Minute)
		out, err = f.svc.Submit(ctx, f.user.ID, sess.TextID, allCorrect)
		require.NoError(t, err)
		if i == 1 {
			require.Equal(t, leveling.ReasonPromoted, out.Decision.Reason)
		}
	}

	// Five answers at the new level; the five from before the promotion no longer count.
	assert.Equal(t, leveling.ReasonInsufficientData, out.Decision.Reason)
	assert.Equal(t, leveling.LevelElementary, out.Level)

	u, err := f.store.UserRepo().ByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Level)
	assert.NotZero(t, u.WindowAfter)
}

func TestStart_ChosenLevel(t *testing.T) {
	f := newFixture(t, happyResponses(3)...)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sess, err := f.svc.Start(ctx, f.user.ID, "deserts", leveling.LevelUpperIntermediate)
		require.NoError(t, err)
		assert.Equal(t, leveling.LevelUpperIntermediate, sess.Level)
		assert.Contains(t, f.mock.Calls[2*i].Messages[0].Content, "upper-intermediate")

		text, err := f.store.TextRepo().Get(ctx, sess.TextID)
		require.NoError(t, err)
		assert.Equal(t, 4, text.Level)

		f.now = f.now.Add(time.Minute)
		out, err := f.svc.Submit(ctx, f.user.ID, sess.TextID, allCorrect)
		require.NoError(t, err)

		// Answers above the user's level do not move it.
		assert.Equal(t, leveling.ReasonInsufficientData, out.Decision.Reason)
		assert.Equal(t, leveling.LevelBeginner, out.Level)
	}

	rows, err := f.store.ProgressRepo().List(ctx, f.user.ID, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "upper-intermediate", rows[0].Difficulty)

	sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 9)
	require.NoError(t, err)
	assert.Equal(t, leveling.LevelAdvanced, sess.Level, "out-of-range choice is clamped")

	u, err := f.store.UserRepo().ByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Level)
}

func TestSubmit_DemotesAfterFullWindow(t *testing.T) {
	f := newFixture(t, happyResponses(2)...)
	ctx := context.Background()
	require.NoError(t, f.store.UserRepo().SetLevel(ctx, f.user.ID, 3, 0))

	for i := 0; i < 2; i++ {
		sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
		require.NoError(t, err)
		assert.Equal(t, leveling.LevelIntermediate, sess.Level)

		f.now = f.now.Add(time.Minute)
		out, err := f.svc.Submit(ctx, f.user.ID, sess.TextID, nil)
		require.NoError(t, err)
		if i == 1 {
			assert.Equal(t, leveling.ReasonDemoted, out.Decision.Reason)
			assert.Equal(t, leveling.LevelElementary, out.Level)
		}
	}
}

func TestProgressReport(t *testing.T) {
	f := newFixture(t, happyResponses(2)...)
	ctx := context.Background()

	for _, answers := range [][]string{allCorrect, {"dry"}} {
		sess, err := f.svc.Start(ctx, f.user.ID, "deserts", 0)
		require.NoError(t, err)
		_, err = f.svc.Submit(ctx, f.user.ID, sess.TextID, answers)
		require.NoError(t, err)
	}

	r, err := f.svc.Progress(ctx, f.user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "ana", r.Username)
	assert.Equal(t, 2, r.Texts)
	assert.InDelta(t, 60.0, r.Average, 1e-9)
	assert.Equal(t, 20.0, r.Entries[0].Score)
}
