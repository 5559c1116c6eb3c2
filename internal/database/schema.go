package database

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL UNIQUE,
		translation TEXT NOT NULL,
		grade INTEGER,
		unit TEXT,
		level INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS word_progress (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
		stage INTEGER NOT NULL DEFAULT 1 CHECK (stage BETWEEN 1 AND 4),
		total_correct INTEGER NOT NULL DEFAULT 0,
		total_wrong INTEGER NOT NULL DEFAULT 0,
		correct_streak INTEGER NOT NULL DEFAULT 0,
		avg_answer_time_sec REAL NOT NULL DEFAULT 0,
		last_answered_at TIMESTAMP,
		PRIMARY KEY (user_id, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 1,
		related_units TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER NOT NULL REFERENCES grammar_topics(id) ON DELETE CASCADE,
		question_type TEXT NOT NULL CHECK (question_type IN ('mcq', 'fill')),
		prompt_text TEXT NOT NULL,
		choice1 TEXT,
		choice2 TEXT,
		choice3 TEXT,
		choice4 TEXT,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		UNIQUE (topic_id, prompt_text)
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_progress (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id INTEGER NOT NULL REFERENCES grammar_topics(id) ON DELETE CASCADE,
		correct_count INTEGER NOT NULL DEFAULT 0,
		wrong_count INTEGER NOT NULL DEFAULT 0,
		mastery_level INTEGER NOT NULL DEFAULT 0 CHECK (mastery_level BETWEEN 0 AND 100),
		last_studied_at TIMESTAMP,
		PRIMARY KEY (user_id, topic_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_grade ON words(grade)`,
	`CREATE INDEX IF NOT EXISTS idx_words_unit ON words(unit)`,
	`CREATE INDEX IF NOT EXISTS idx_grammar_questions_topic ON grammar_questions(topic_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL UNIQUE,
		translation TEXT NOT NULL,
		grade INTEGER,
		unit TEXT,
		level INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS word_progress (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		word_id BIGINT NOT NULL REFERENCES words(id) ON DELETE CASCADE,
		stage INTEGER NOT NULL DEFAULT 1 CHECK (stage BETWEEN 1 AND 4),
		total_correct INTEGER NOT NULL DEFAULT 0,
		total_wrong INTEGER NOT NULL DEFAULT 0,
		correct_streak INTEGER NOT NULL DEFAULT 0,
		avg_answer_time_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_answered_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_topics (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 1,
		related_units TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_questions (
		id BIGSERIAL PRIMARY KEY,
		topic_id BIGINT NOT NULL REFERENCES grammar_topics(id) ON DELETE CASCADE,
		question_type TEXT NOT NULL CHECK (question_type IN ('mcq', 'fill')),
		prompt_text TEXT NOT NULL,
		choice1 TEXT,
		choice2 TEXT,
		choice3 TEXT,
		choice4 TEXT,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		UNIQUE (topic_id, prompt_text)
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_progress (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id BIGINT NOT NULL REFERENCES grammar_topics(id) ON DELETE CASCADE,
		correct_count INTEGER NOT NULL DEFAULT 0,
		wrong_count INTEGER NOT NULL DEFAULT 0,
		mastery_level INTEGER NOT NULL DEFAULT 0 CHECK (mastery_level BETWEEN 0 AND 100),
		last_studied_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, topic_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_grade ON words(grade)`,
	`CREATE INDEX IF NOT EXISTS idx_words_unit ON words(unit)`,
	`CREATE INDEX IF NOT EXISTS idx_grammar_questions_topic ON grammar_questions(topic_id)`,
}

// Migrate creates necessary tables if they don't exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to initialize schema")
		}
	}

	slog.DebugContext(ctx, "schema ready", "driver", db.DriverName(), "statements", len(statements))
	return nil
}
