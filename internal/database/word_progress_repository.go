package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

// WordProgressRepository handles database operations for word progress
type WordProgressRepository struct {
	db *sqlx.DB
}

// NewWordProgressRepository creates a new repository instance
func NewWordProgressRepository(db *sqlx.DB) *WordProgressRepository {
	return &WordProgressRepository{db: db}
}

const wordProgressColumns = `user_id, word_id, stage, total_correct, total_wrong,
	correct_streak, avg_answer_time_sec, last_answered_at`

// GetWordProgress returns the stored progress for a user and word
func (r *WordProgressRepository) GetWordProgress(ctx context.Context, userID, wordID int64) (*models.WordProgress, error) {
	var p models.WordProgress
	query := r.db.Rebind("SELECT " + wordProgressColumns + " FROM word_progress WHERE user_id = ? AND word_id = ?")
	err := r.db.GetContext(ctx, &p, query, userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to get word progress")
	}
	return &p, nil
}

// UpsertWordProgress applies every update in order within one transaction
func (r *WordProgressRepository) UpsertWordProgress(ctx context.Context, userID int64, updates []drill.WordProgressUpdate) ([]models.WordProgress, error) {
	saved := make([]models.WordProgress, 0, len(updates))

	err := runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := requireRow(ctx, tx, "SELECT COUNT(1) FROM users WHERE id = ?", userID)
		if err != nil {
			return mapError(err, "failed to look up user")
		}
		if !found {
			return errors.Wrapf(drill.ErrUserNotFound, "id %d", userID)
		}

		for _, u := range updates {
			p, err := r.applyOne(ctx, tx, userID, u)
			if err != nil {
				return err
			}
			saved = append(saved, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *WordProgressRepository) applyOne(ctx context.Context, tx *sqlx.Tx, userID int64, u drill.WordProgressUpdate) (*models.WordProgress, error) {
	found, err := requireRow(ctx, tx, "SELECT COUNT(1) FROM words WHERE id = ?", u.WordID)
	if err != nil {
		return nil, mapError(err, "failed to look up word")
	}
	if !found {
		return nil, errors.Wrapf(drill.ErrWordNotFound, "id %d", u.WordID)
	}

	p := models.NewWordProgress(userID, u.WordID)
	query := tx.Rebind("SELECT " + wordProgressColumns + " FROM word_progress WHERE user_id = ? AND word_id = ?")
	err = tx.GetContext(ctx, &p, query, userID, u.WordID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, mapError(err, "failed to get word progress")
	}

	if err := u.Apply(&p); err != nil {
		return nil, err
	}
	p.UserID, p.WordID = userID, u.WordID

	upsert := tx.Rebind(`
		INSERT INTO word_progress (
			user_id, word_id, stage, total_correct, total_wrong,
			correct_streak, avg_answer_time_sec, last_answered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			stage = excluded.stage,
			total_correct = excluded.total_correct,
			total_wrong = excluded.total_wrong,
			correct_streak = excluded.correct_streak,
			avg_answer_time_sec = excluded.avg_answer_time_sec,
			last_answered_at = excluded.last_answered_at
	`)
	_, err = tx.ExecContext(ctx, upsert,
		p.UserID,
		p.WordID,
		p.Stage,
		p.TotalCorrect,
		p.TotalWrong,
		p.CorrectStreak,
		p.AvgAnswerTimeSec,
		p.LastAnsweredAt,
	)
	if err != nil {
		return nil, mapError(err, "failed to save word progress")
	}
	return &p, nil
}
