package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type progressRepo struct {
	s *Store
}

func (r *progressRepo) Record(ctx context.Context, rec *ProgressRecord) error {
	return r.s.insertProgress(ctx, r.s.db, rec)
}

func (s *Store) insertProgress(ctx context.Context, q querier, rec *ProgressRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	var textID sql.NullInt64
	if rec.TextID > 0 {
		textID = sql.NullInt64{Int64: rec.TextID, Valid: true}
	}

	id, err := s.insertID(ctx, q, s.builder.Insert("progress").
		Columns("user_id", "text_id", "topic", "difficulty", "score", "created_at").
		Values(rec.UserID, textID, rec.Topic, rec.Difficulty, rec.Score, rec.CreatedAt.UnixMilli()))
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *progressRepo) List(ctx context.Context, userID int64, opts QueryOpts) ([]ProgressRecord, error) {
	sel := r.s.builder.Select("id", "user_id", "text_id", "topic", "difficulty", "score", "created_at").
		From(r.s.builder.Table("progress")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id"))
	applyOpts(sel, opts, "created_at")

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		var (
			p       ProgressRecord
			textID  sql.NullInt64
			created int64
		)
		if err := rows.Scan(&p.ID, &p.UserID, &textID, &p.Topic, &p.Difficulty, &p.Score, &created); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.TextID = textID.Int64
		p.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
