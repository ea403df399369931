package store

import (
	"context"
	"time"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // id > After
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// User is a registered student.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Level        int
	// WindowAfter is the newest attempt id at the last level change. Only
	// later attempts count toward the next leveling decision.
	WindowAfter int64
	CreatedAt   time.Time
}

// TextRecord is a generated passage served to a user.
type TextRecord struct {
	ID        int64
	UserID    int64
	Topic     string
	Level     int
	Title     string
	Body      string
	Degraded  bool
	CreatedAt time.Time
}

// QuestionRecord is one stored multiple-choice question of a text.
type QuestionRecord struct {
	ID       int64
	TextID   int64
	Position int
	Prompt   string
	Options  []string
	Correct  string
	Category string
}

// AttemptRecord is one graded answer. Selected is nil when unanswered.
type AttemptRecord struct {
	ID         int64
	QuestionID int64
	Selected   *string
	Correct    bool
	AnsweredAt time.Time
}

// ProgressRecord is the score of one completed text.
type ProgressRecord struct {
	ID         int64
	UserID     int64
	TextID     int64
	Topic      string
	Difficulty string
	Score      float64 // percentage 0..100
	CreatedAt  time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events sharing a purpose or a model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// UserRepo manages registered users.
type UserRepo interface {
	// Create registers a user. Returns ErrDuplicateUser if the username is taken.
	Create(ctx context.Context, username, passwordHash string, level int) (*User, error)

	// ByUsername returns the user or ErrNotFound.
	ByUsername(ctx context.Context, username string) (*User, error)

	// ByID returns the user or ErrNotFound.
	ByID(ctx context.Context, id int64) (*User, error)

	// SetLevel stores the user's current difficulty level and restarts the
	// leveling window after attempt id windowAfter.
	SetLevel(ctx context.Context, id int64, level int, windowAfter int64) error
}

// TextRepo stores generated texts and their questions.
type TextRepo interface {
	// Save inserts the text and its questions in one transaction and fills in IDs.
	Save(ctx context.Context, text *TextRecord, questions []QuestionRecord) (int64, error)

	// Get returns the text or ErrNotFound.
	Get(ctx context.Context, id int64) (*TextRecord, error)

	// Questions returns the questions of a text in position order.
	Questions(ctx context.Context, textID int64) ([]QuestionRecord, error)

	// ListByUser returns the user's texts, newest first.
	ListByUser(ctx context.Context, userID int64, opts QueryOpts) ([]TextRecord, error)
}

// AttemptRepo stores graded answers.
type AttemptRepo interface {
	// Append inserts attempts in one transaction.
	Append(ctx context.Context, attempts []AttemptRecord) error

	// Recent returns up to n of the user's most recent attempts, newest first.
	Recent(ctx context.Context, userID int64, n int) ([]AttemptRecord, error)

	// Window returns up to n of the user's most recent attempts on texts at
	// level with an id greater than after, newest first.
	Window(ctx context.Context, userID int64, level int, after int64, n int) ([]AttemptRecord, error)

	// Submit stores the attempts of one text together with its progress
	// row in a single transaction.
	Submit(ctx context.Context, attempts []AttemptRecord, progress *ProgressRecord) error

	// HasAttempts reports whether any question of the text was answered.
	HasAttempts(ctx context.Context, textID int64) (bool, error)
}

// ProgressRepo stores per-text scores.
type ProgressRepo interface {
	// Record appends a progress row.
	Record(ctx context.Context, rec *ProgressRecord) error

	// List returns the user's progress rows, newest first.
	List(ctx context.Context, userID int64, opts QueryOpts) ([]ProgressRecord, error)
}

// EventRepo provides access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents lists events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates events per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates events per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
