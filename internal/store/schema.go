package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// schemaSQLite is applied on every open; all statements are idempotent.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	level         INTEGER NOT NULL DEFAULT 1,
	window_after  INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS texts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	topic      TEXT NOT NULL,
	level      INTEGER NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	degraded   INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_texts_user ON texts(user_id);
CREATE TABLE IF NOT EXISTS questions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	text_id  INTEGER NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	prompt   TEXT NOT NULL,
	options  TEXT NOT NULL,
	correct  TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_questions_text ON questions(text_id);
CREATE TABLE IF NOT EXISTS attempts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	selected    TEXT,
	correct     INTEGER NOT NULL,
	answered_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_question ON attempts(question_id);
CREATE TABLE IF NOT EXISTS progress (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text_id    INTEGER REFERENCES texts(id) ON DELETE SET NULL,
	topic      TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	score      REAL NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_user ON progress(user_id);
CREATE TABLE IF NOT EXISTS llm_request_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL DEFAULT '',
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL DEFAULT '',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL
);
`

// schemaPostgres mirrors schemaSQLite with Postgres types.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	level         INTEGER NOT NULL DEFAULT 1,
	window_after  BIGINT NOT NULL DEFAULT 0,
	created_at    BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS texts (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	topic      TEXT NOT NULL,
	level      INTEGER NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	degraded   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_texts_user ON texts(user_id);
CREATE TABLE IF NOT EXISTS questions (
	id       BIGSERIAL PRIMARY KEY,
	text_id  BIGINT NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	prompt   TEXT NOT NULL,
	options  TEXT NOT NULL,
	correct  TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_questions_text ON questions(text_id);
CREATE TABLE IF NOT EXISTS attempts (
	id          BIGSERIAL PRIMARY KEY,
	question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	selected    TEXT,
	correct     BOOLEAN NOT NULL,
	answered_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_question ON attempts(question_id);
CREATE TABLE IF NOT EXISTS progress (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text_id    BIGINT REFERENCES texts(id) ON DELETE SET NULL,
	topic      TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_user ON progress(user_id);
CREATE TABLE IF NOT EXISTS llm_request_events (
	id            BIGSERIAL PRIMARY KEY,
	session_id    TEXT NOT NULL DEFAULT '',
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL DEFAULT '',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    BIGINT NOT NULL DEFAULT 0,
	success       BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT '',
	created_at    BIGINT NOT NULL
);
`

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	ddl := schemaSQLite
	if driver == DriverPostgres {
		ddl = schemaPostgres
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
