package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/scoring"
	"github.com/abhisek/lectio/internal/store"
)

var (
	// ErrAlreadySubmitted is returned when answers for a text were already graded.
	ErrAlreadySubmitted = errors.New("answers for this text were already submitted")

	// ErrEmptyTopic is returned when Start is called without a topic.
	ErrEmptyTopic = errors.New("topic is required")
)

// PassageGenerator produces reading passages.
type PassageGenerator interface {
	Generate(ctx context.Context, input passage.Input) (*passage.Passage, error)
}

// Deps holds the collaborators of a Service.
type Deps struct {
	Users    store.UserRepo
	Texts    store.TextRepo
	Attempts store.AttemptRepo
	Progress store.ProgressRepo

	Passages  PassageGenerator
	Questions questiongen.Generator

	Policy leveling.Policy

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the practice pipeline: passage, questions, grading, leveling.
// Each stage receives the previous stage's output explicitly.
type Service struct {
	d Deps
}

// NewService creates a practice service.
func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{d: d}
}

// Session is a generated text ready to be answered.
type Session struct {
	ID       string // correlation id of the generation calls
	TextID   int64
	Passage  *passage.Passage
	Level    leveling.Level
	Degraded bool

	Questions   []questiongen.Question
	QuestionIDs []int64
}

// Outcome is the result of submitting answers for a text.
type Outcome struct {
	TextID   int64
	Score    scoring.Score
	Attempts []scoring.Attempt
	Decision leveling.Decision
	Level    leveling.Level
}

// Start generates a passage and questions about topic and stores them.
// level selects the difficulty; zero means the user's current level, and
// other values are clamped to the policy range. Generation failures are
// returned as the typed llm errors or errors matching
// questiongen.ErrMalformedResponse / passage.ErrEmptyPassage.
func (s *Service) Start(ctx context.Context, userID int64, topic string, level leveling.Level) (*Session, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	u, err := s.d.Users.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if level == 0 {
		level = leveling.Level(u.Level)
	}
	level = s.d.Policy.Clamp(level)

	sessionID := uuid.NewString()
	ctx = llm.WithSession(ctx, sessionID)

	p, err := s.d.Passages.Generate(ctx, passage.Input{Topic: topic, Level: level})
	if err != nil {
		return nil, err
	}

	res, err := s.d.Questions.Generate(ctx, questiongen.GenerateInput{
		Passage: p.Body,
		Topic:   topic,
		Level:   level.Label(),
	})
	if err != nil {
		return nil, err
	}

	records := make([]store.QuestionRecord, len(res.Questions))
	for i, q := range res.Questions {
		records[i] = store.QuestionRecord{
			Prompt:   q.Text,
			Options:  q.Options,
			Correct:  q.Correct,
			Category: string(q.Category),
		}
	}
	textID, err := s.d.Texts.Save(ctx, &store.TextRecord{
		UserID:    userID,
		Topic:     topic,
		Level:     int(level),
		Title:     p.Title,
		Body:      p.Body,
		Degraded:  res.Degraded,
		CreatedAt: s.d.Now().UTC(),
	}, records)
	if err != nil {
		return nil, fmt.Errorf("save text: %w", err)
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	return &Session{
		ID:          sessionID,
		TextID:      textID,
		Passage:     p,
		Level:       level,
		Degraded:    res.Degraded,
		Questions:   res.Questions,
		QuestionIDs: ids,
	}, nil
}

// Load returns a previously started text owned by userID.
func (s *Service) Load(ctx context.Context, userID, textID int64) (*Session, error) {
	text, err := s.ownedText(ctx, userID, textID)
	if err != nil {
		return nil, err
	}
	records, err := s.d.Texts.Questions(ctx, textID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	qs, ids := fromRecords(records)
	return &Session{
		TextID: textID,
		Passage: &passage.Passage{
			Title: text.Title,
			Body:  text.Body,
			Topic: text.Topic,
			Level: leveling.Level(text.Level),
		},
		Level:       leveling.Level(text.Level),
		Degraded:    text.Degraded,
		Questions:   qs,
		QuestionIDs: ids,
	}, nil
}

// Submit grades answers for a text, records them, and applies the leveling
// policy. answers[i] answers question i; missing or blank entries count as
// unanswered.
func (s *Service) Submit(ctx context.Context, userID, textID int64, answers []string) (*Outcome, error) {
	text, err := s.ownedText(ctx, userID, textID)
	if err != nil {
		return nil, err
	}

	done, err := s.d.Attempts.HasAttempts(ctx, textID)
	if err != nil {
		return nil, fmt.Errorf("check attempts: %w", err)
	}
	if done {
		return nil, ErrAlreadySubmitted
	}

	records, err := s.d.Texts.Questions(ctx, textID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	questions, ids := fromRecords(records)

	now := s.d.Now().UTC()
	attempts := make([]scoring.Attempt, len(questions))
	rows := make([]store.AttemptRecord, len(questions))
	for i, q := range questions {
		var input string
		if i < len(answers) {
			input = answers[i]
		}
		a := scoring.Grade(q, input, now)
		attempts[i] = a
		rows[i] = store.AttemptRecord{
			QuestionID: ids[i],
			Selected:   a.Selected,
			Correct:    a.Correct,
			AnsweredAt: a.AnsweredAt,
		}
	}
	score := scoring.Tally(attempts)
	if err := s.d.Attempts.Submit(ctx, rows, &store.ProgressRecord{
		UserID:     userID,
		TextID:     textID,
		Topic:      text.Topic,
		Difficulty: leveling.Level(text.Level).Label(),
		Score:      score.Percent(),
		CreatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	decision, err := s.adjustLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		TextID:   textID,
		Score:    score,
		Attempts: attempts,
		Decision: decision,
		Level:    decision.To,
	}, nil
}

// adjustLevel reads the user's recent results at their current level since
// the last level change and stores the new level when the policy changes it.
// A change restarts the window, so answers given at the previous level never
// count toward the next decision.
func (s *Service) adjustLevel(ctx context.Context, userID int64) (leveling.Decision, error) {
	u, err := s.d.Users.ByID(ctx, userID)
	if err != nil {
		return leveling.Decision{}, fmt.Errorf("load user: %w", err)
	}

	recent, err := s.d.Attempts.Window(ctx, userID, u.Level, u.WindowAfter, s.d.Policy.MinSamples)
	if err != nil {
		return leveling.Decision{}, fmt.Errorf("read recent attempts: %w", err)
	}
	results := make([]bool, len(recent))
	for i, a := range recent {
		results[i] = a.Correct
	}

	d := s.d.Policy.Decide(leveling.Level(u.Level), results)
	if d.Changed() {
		if err := s.d.Users.SetLevel(ctx, userID, int(d.To), recent[0].ID); err != nil {
			return leveling.Decision{}, fmt.Errorf("store level: %w", err)
		}
	}
	return d, nil
}

func (s *Service) ownedText(ctx context.Context, userID, textID int64) (*store.TextRecord, error) {
	text, err := s.d.Texts.Get(ctx, textID)
	if err != nil {
		return nil, err
	}
	if text.UserID != userID {
		return nil, store.ErrNotFound
	}
	return text, nil
}

func fromRecords(records []store.QuestionRecord) ([]questiongen.Question, []int64) {
	qs := make([]questiongen.Question, len(records))
	ids := make([]int64, len(records))
	for i, r := range records {
		qs[i] = questiongen.Question{
			Text:     r.Prompt,
			Options:  r.Options,
			Correct:  r.Correct,
			Category: questiongen.Category(r.Category),
		}
		ids[i] = r.ID
	}
	return qs, ids
}
