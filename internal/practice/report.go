package practice

import (
	"context"
	"fmt"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/store"
)

// Report summarizes a user's history.
type Report struct {
	Username string
	Level    leveling.Level
	Texts    int
	Average  float64 // mean score percentage; 0 without entries
	Entries  []store.ProgressRecord
}

// Progress returns the user's level and the newest limit progress rows
// (all rows when limit is 0).
func (s *Service) Progress(ctx context.Context, userID int64, limit int) (*Report, error) {
	u, err := s.d.Users.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	entries, err := s.d.Progress.List(ctx, userID, store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	r := &Report{
		Username: u.Username,
		Level:    leveling.Level(u.Level),
		Texts:    len(entries),
		Entries:  entries,
	}
	if len(entries) > 0 {
		var sum float64
		for _, e := range entries {
			sum += e.Score
		}
		r.Average = sum / float64(len(entries))
	}
	return r, nil
}
