package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type textRepo struct {
	s *Store
}

func (r *textRepo) Save(ctx context.Context, text *TextRecord, questions []QuestionRecord) (int64, error) {
	if text.CreatedAt.IsZero() {
		text.CreatedAt = time.Now().UTC()
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := r.s.insertID(ctx, tx, r.s.builder.Insert("texts").
		Columns("user_id", "topic", "level", "title", "body", "degraded", "created_at").
		Values(text.UserID, text.Topic, text.Level, text.Title, text.Body, text.Degraded, text.CreatedAt.UnixMilli()))
	if err != nil {
		return 0, fmt.Errorf("insert text: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return 0, fmt.Errorf("encode options: %w", err)
		}
		q.TextID = id
		q.Position = i
		qid, err := r.s.insertID(ctx, tx, r.s.builder.Insert("questions").
			Columns("text_id", "position", "prompt", "options", "correct", "category").
			Values(id, i, q.Prompt, string(opts), q.Correct, q.Category))
		if err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i, err)
		}
		q.ID = qid
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	text.ID = id
	return id, nil
}

func (r *textRepo) Get(ctx context.Context, id int64) (*TextRecord, error) {
	query, args := r.s.builder.Select("id", "user_id", "topic", "level", "title", "body", "degraded", "created_at").
		From(r.s.builder.Table("texts")).
		Where(entsql.EQ("id", id)).
		Query()

	t, err := scanText(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query text: %w", err)
	}
	return t, nil
}

func (r *textRepo) Questions(ctx context.Context, textID int64) ([]QuestionRecord, error) {
	query, args := r.s.builder.Select("id", "text_id", "position", "prompt", "options", "correct", "category").
		From(r.s.builder.Table("questions")).
		Where(entsql.EQ("text_id", textID)).
		OrderBy("position").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRecord
	for rows.Next() {
		var (
			q    QuestionRecord
			opts string
		)
		if err := rows.Scan(&q.ID, &q.TextID, &q.Position, &q.Prompt, &opts, &q.Correct, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of question %d: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *textRepo) ListByUser(ctx context.Context, userID int64, opts QueryOpts) ([]TextRecord, error) {
	sel := r.s.builder.Select("id", "user_id", "topic", "level", "title", "body", "degraded", "created_at").
		From(r.s.builder.Table("texts")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id"))
	applyOpts(sel, opts, "created_at")

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query texts: %w", err)
	}
	defer rows.Close()

	var out []TextRecord
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, fmt.Errorf("scan text: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanText(row scanner) (*TextRecord, error) {
	var (
		t       TextRecord
		created int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Topic, &t.Level, &t.Title, &t.Body, &t.Degraded, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = time.UnixMilli(created).UTC()
	return &t, nil
}

// applyOpts adds QueryOpts filters to a selector. tsCol names the
// millisecond timestamp column.
func applyOpts(sel *entsql.Selector, opts QueryOpts, tsCol string) {
	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(tsCol, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(tsCol, opts.To.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
