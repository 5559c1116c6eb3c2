package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

// GrammarProgressRepository handles database operations for grammar mastery
type GrammarProgressRepository struct {
	db *sqlx.DB
}

// NewGrammarProgressRepository creates a new repository instance
func NewGrammarProgressRepository(db *sqlx.DB) *GrammarProgressRepository {
	return &GrammarProgressRepository{db: db}
}

const grammarProgressColumns = "user_id, topic_id, correct_count, wrong_count, mastery_level, last_studied_at"

// UpsertGrammarProgress reads, mutates and saves the (user, topic) row in one transaction
func (r *GrammarProgressRepository) UpsertGrammarProgress(ctx context.Context, userID, topicID int64, fn drill.GrammarProgressMutator) (*models.GrammarProgress, error) {
	var saved models.GrammarProgress

	err := runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := requireRow(ctx, tx, "SELECT COUNT(1) FROM users WHERE id = ?", userID)
		if err != nil {
			return mapError(err, "failed to look up user")
		}
		if !found {
			return errors.Wrapf(drill.ErrUserNotFound, "id %d", userID)
		}
		found, err = requireRow(ctx, tx, "SELECT COUNT(1) FROM grammar_topics WHERE id = ?", topicID)
		if err != nil {
			return mapError(err, "failed to look up grammar topic")
		}
		if !found {
			return errors.Wrapf(drill.ErrTopicNotFound, "id %d", topicID)
		}

		p := models.GrammarProgress{UserID: userID, TopicID: topicID}
		query := tx.Rebind("SELECT " + grammarProgressColumns + " FROM grammar_progress WHERE user_id = ? AND topic_id = ?")
		if err := tx.GetContext(ctx, &p, query, userID, topicID); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return mapError(err, "failed to get grammar progress")
		}

		if err := fn(&p); err != nil {
			return err
		}
		p.UserID, p.TopicID = userID, topicID

		upsert := tx.Rebind(`
			INSERT INTO grammar_progress (
				user_id, topic_id, correct_count, wrong_count, mastery_level, last_studied_at
			) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, topic_id) DO UPDATE SET
				correct_count = excluded.correct_count,
				wrong_count = excluded.wrong_count,
				mastery_level = excluded.mastery_level,
				last_studied_at = excluded.last_studied_at
		`)
		_, err = tx.ExecContext(ctx, upsert,
			p.UserID,
			p.TopicID,
			p.CorrectCount,
			p.WrongCount,
			p.MasteryLevel,
			p.LastStudiedAt,
		)
		if err != nil {
			return mapError(err, "failed to save grammar progress")
		}

		saved = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListGrammarProgress returns every grammar progress row of a user
func (r *GrammarProgressRepository) ListGrammarProgress(ctx context.Context, userID int64) ([]models.GrammarProgress, error) {
	var rows []models.GrammarProgress
	query := r.db.Rebind("SELECT " + grammarProgressColumns + " FROM grammar_progress WHERE user_id = ? ORDER BY topic_id")
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, mapError(err, "failed to list grammar progress")
	}
	return rows, nil
}
