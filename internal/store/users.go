package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type userRepo struct {
	s *Store
}

var userColumns = []string{"id", "username", "password_hash", "level", "window_after", "created_at"}

func (r *userRepo) Create(ctx context.Context, username, passwordHash string, level int) (*User, error) {
	now := time.Now().UTC()
	ins := r.s.builder.Insert("users").
		Columns("username", "password_hash", "level", "created_at").
		Values(username, passwordHash, level, now.UnixMilli())

	id, err := r.s.insertID(ctx, r.s.db, ins)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Level:        level,
		CreatedAt:    time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

func (r *userRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	return r.one(ctx, entsql.EQ("username", username))
}

func (r *userRepo) ByID(ctx context.Context, id int64) (*User, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *userRepo) SetLevel(ctx context.Context, id int64, level int, windowAfter int64) error {
	query, args := r.s.builder.Update("users").
		Set("level", level).
		Set("window_after", windowAfter).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user level: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) one(ctx context.Context, where *entsql.Predicate) (*User, error) {
	query, args := r.s.builder.Select(userColumns...).
		From(r.s.builder.Table("users")).
		Where(where).
		Query()

	var (
		u       User
		created int64
	)
	err := r.s.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Level, &u.WindowAfter, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}
