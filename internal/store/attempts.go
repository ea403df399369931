package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type attemptRepo struct {
	s *Store
}

func (r *attemptRepo) Append(ctx context.Context, attempts []AttemptRecord) error {
	if len(attempts) == 0 {
		return nil
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := r.insert(ctx, tx, attempts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *attemptRepo) Submit(ctx context.Context, attempts []AttemptRecord, progress *ProgressRecord) error {
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := r.insert(ctx, tx, attempts); err != nil {
		return err
	}
	if err := r.s.insertProgress(ctx, tx, progress); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *attemptRepo) insert(ctx context.Context, tx *sql.Tx, attempts []AttemptRecord) error {
	for i := range attempts {
		a := &attempts[i]
		if a.AnsweredAt.IsZero() {
			a.AnsweredAt = time.Now().UTC()
		}
		var selected sql.NullString
		if a.Selected != nil {
			selected = sql.NullString{String: *a.Selected, Valid: true}
		}
		id, err := r.s.insertID(ctx, tx, r.s.builder.Insert("attempts").
			Columns("question_id", "selected", "correct", "answered_at").
			Values(a.QuestionID, selected, a.Correct, a.AnsweredAt.UnixMilli()))
		if err != nil {
			return fmt.Errorf("insert attempt for question %d: %w", a.QuestionID, err)
		}
		a.ID = id
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, userID int64, n int) ([]AttemptRecord, error) {
	return r.recent(ctx, userID, n, nil)
}

func (r *attemptRepo) Window(ctx context.Context, userID int64, level int, after int64, n int) ([]AttemptRecord, error) {
	return r.recent(ctx, userID, n, func(a, t *entsql.SelectTable) *entsql.Predicate {
		return entsql.And(entsql.EQ(t.C("level"), level), entsql.GT(a.C("id"), after))
	})
}

// recent lists the user's attempts newest first. filter, when set, adds a
// predicate over the attempts and texts tables.
func (r *attemptRepo) recent(ctx context.Context, userID int64, n int, filter func(a, t *entsql.SelectTable) *entsql.Predicate) ([]AttemptRecord, error) {
	b := r.s.builder
	a, q, t := b.Table("attempts"), b.Table("questions"), b.Table("texts")

	where := entsql.EQ(t.C("user_id"), userID)
	if filter != nil {
		where = entsql.And(where, filter(a, t))
	}
	sel := b.Select(a.C("id"), a.C("question_id"), a.C("selected"), a.C("correct"), a.C("answered_at")).
		From(a).
		Join(q).On(a.C("question_id"), q.C("id")).
		Join(t).On(q.C("text_id"), t.C("id")).
		Where(where).
		OrderBy(entsql.Desc(a.C("answered_at")), entsql.Desc(a.C("id")))
	if n > 0 {
		sel.Limit(n)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec      AttemptRecord
			selected sql.NullString
			answered int64
		)
		if err := rows.Scan(&rec.ID, &rec.QuestionID, &selected, &rec.Correct, &answered); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if selected.Valid {
			s := selected.String
			rec.Selected = &s
		}
		rec.AnsweredAt = time.UnixMilli(answered).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *attemptRepo) HasAttempts(ctx context.Context, textID int64) (bool, error) {
	b := r.s.builder
	a, q := b.Table("attempts"), b.Table("questions")

	query, args := b.Select(entsql.Count("*")).
		From(a).
		Join(q).On(a.C("question_id"), q.C("id")).
		Where(entsql.EQ(q.C("text_id"), textID)).
		Query()

	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count attempts: %w", err)
	}
	return n > 0, nil
}
