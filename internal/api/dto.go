package api

import (
	"encoding/json"
	"time"

	"github.com/abhisek/lectio/internal/practice"
)

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResp struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Level      int    `json:"level"`
	LevelLabel string `json:"level_label"`
}

type loginResp struct {
	AccessToken string   `json:"access_token"`
	User        userResp `json:"user"`
}

type startReq struct {
	Topic string `json:"topic"`
	// Difficulty is a level number (3) or label ("intermediate"). Omitted
	// means the user's current level.
	Difficulty json.RawMessage `json:"difficulty,omitempty"`
}

type questionResp struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

type sessionResp struct {
	TextID     int64          `json:"text_id"`
	Title      string         `json:"title"`
	Passage    string         `json:"passage"`
	Topic      string         `json:"topic"`
	Level      int            `json:"level"`
	LevelLabel string         `json:"level_label"`
	Degraded   bool           `json:"degraded"`
	Questions  []questionResp `json:"questions"`
}

type submitReq struct {
	Answers []string `json:"answers"`
}

type attemptResp struct {
	Question string  `json:"question"`
	Selected *string `json:"selected"`
	Correct  string  `json:"correct"`
	IsRight  bool    `json:"is_correct"`
}

type levelChangeResp struct {
	From    int    `json:"from"`
	To      int    `json:"to"`
	Trigger string `json:"trigger"`
}

type outcomeResp struct {
	TextID      int64            `json:"text_id"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Percent     float64          `json:"percent"`
	Attempts    []attemptResp    `json:"attempts"`
	Level       int              `json:"level"`
	LevelLabel  string           `json:"level_label"`
	Reason      string           `json:"reason"`
	LevelChange *levelChangeResp `json:"level_change,omitempty"`
}

type progressEntryResp struct {
	TextID     int64     `json:"text_id,omitempty"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

type progressResp struct {
	Username   string              `json:"username"`
	Level      int                 `json:"level"`
	LevelLabel string              `json:"level_label"`
	Texts      int                 `json:"texts"`
	Average    float64             `json:"average"`
	Entries    []progressEntryResp `json:"entries"`
}

func toSessionResp(s *practice.Session) sessionResp {
	out := sessionResp{
		TextID:     s.TextID,
		Title:      s.Passage.Title,
		Passage:    s.Passage.Body,
		Topic:      s.Passage.Topic,
		Level:      int(s.Level),
		LevelLabel: s.Level.Label(),
		Degraded:   s.Degraded,
		Questions:  make([]questionResp, len(s.Questions)),
	}
	for i, q := range s.Questions {
		out.Questions[i] = questionResp{
			ID:       s.QuestionIDs[i],
			Question: q.Text,
			Options:  q.Options,
			Category: string(q.Category),
		}
	}
	return out
}

func toOutcomeResp(o *practice.Outcome) outcomeResp {
	out := outcomeResp{
		TextID:     o.TextID,
		Correct:    o.Score.Correct,
		Total:      o.Score.Total,
		Percent:    o.Score.Percent(),
		Attempts:   make([]attemptResp, len(o.Attempts)),
		Level:      int(o.Level),
		LevelLabel: o.Level.Label(),
		Reason:     string(o.Decision.Reason),
	}
	for i, a := range o.Attempts {
		out.Attempts[i] = attemptResp{
			Question: a.Question.Text,
			Selected: a.Selected,
			Correct:  a.Question.Correct,
			IsRight:  a.Correct,
		}
	}
	if t := o.Decision.Transition; t != nil {
		out.LevelChange = &levelChangeResp{From: int(t.From), To: int(t.To), Trigger: t.Trigger}
	}
	return out
}

func toProgressResp(r *practice.Report) progressResp {
	out := progressResp{
		Username:   r.Username,
		Level:      int(r.Level),
		LevelLabel: r.Level.Label(),
		Texts:      r.Texts,
		Average:    r.Average,
		Entries:    make([]progressEntryResp, len(r.Entries)),
	}
	for i, e := range r.Entries {
		out.Entries[i] = progressEntryResp{
			TextID:     e.TextID,
			Topic:      e.Topic,
			Difficulty: e.Difficulty,
			Score:      e.Score,
			CreatedAt:  e.CreatedAt,
		}
	}
	return out
}
