package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

const wordColumns = "id, text, translation, grade, unit, level"

// GetWord returns a word by ID
func (r *WordRepository) GetWord(ctx context.Context, wordID int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE id = ?"), wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to get word by ID")
	}
	return &word, nil
}

// FindWordByText returns the word with exactly this text
func (r *WordRepository) FindWordByText(ctx context.Context, text string) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE text = ?"), text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to find word by text")
	}
	return &word, nil
}

// CreateWord inserts a new word and sets its ID
func (r *WordRepository) CreateWord(ctx context.Context, word *models.Word) error {
	query := r.db.Rebind(`
		INSERT INTO words (text, translation, grade, unit, level)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query, word.Text, word.Translation, word.Grade, word.Unit, word.Level).Scan(&word.ID)
	return mapError(err, "failed to create word")
}

// candidateRow is one row of words LEFT JOIN word_progress
type candidateRow struct {
	ID               int64      `db:"id"`
	Text             string     `db:"text"`
	Translation      string     `db:"translation"`
	Grade            *int       `db:"grade"`
	Unit             *string    `db:"unit"`
	Level            *int       `db:"level"`
	Stage            int        `db:"stage"`
	TotalCorrect     int        `db:"total_correct"`
	TotalWrong       int        `db:"total_wrong"`
	CorrectStreak    int        `db:"correct_streak"`
	AvgAnswerTimeSec float64    `db:"avg_answer_time_sec"`
	LastAnsweredAt   *time.Time `db:"last_answered_at"`
}

func (c candidateRow) toModel(userID int64) models.WordCandidate {
	return models.WordCandidate{
		Word: models.Word{
			ID:          c.ID,
			Text:        c.Text,
			Translation: c.Translation,
			Grade:       c.Grade,
			Unit:        c.Unit,
			Level:       c.Level,
		},
		Progress: models.WordProgress{
			UserID:           userID,
			WordID:           c.ID,
			Stage:            c.Stage,
			TotalCorrect:     c.TotalCorrect,
			TotalWrong:       c.TotalWrong,
			CorrectStreak:    c.CorrectStreak,
			AvgAnswerTimeSec: c.AvgAnswerTimeSec,
			LastAnsweredAt:   c.LastAnsweredAt,
		},
	}
}

// FetchWordCandidates returns the words matching the filter with the user's
// progress, defaulting to stage 1 and zero counters where none is stored.
func (r *WordRepository) FetchWordCandidates(ctx context.Context, userID int64, filter models.WordFilter) ([]models.WordCandidate, error) {
	var (
		conditions []string
		args       = []interface{}{userID}
	)
	if filter.MinGrade != nil {
		conditions = append(conditions, "w.grade >= ?")
		args = append(args, *filter.MinGrade)
	}
	if filter.MaxGrade != nil {
		conditions = append(conditions, "w.grade <= ?")
		args = append(args, *filter.MaxGrade)
	}
	if filter.Unit != nil {
		conditions = append(conditions, "w.unit = ?")
		args = append(args, *filter.Unit)
	}
	if filter.MaxLevel != nil {
		conditions = append(conditions, "w.level <= ?")
		args = append(args, *filter.MaxLevel)
	}

	query := `
		SELECT w.id, w.text, w.translation, w.grade, w.unit, w.level,
			COALESCE(wp.stage, 1) AS stage,
			COALESCE(wp.total_correct, 0) AS total_correct,
			COALESCE(wp.total_wrong, 0) AS total_wrong,
			COALESCE(wp.correct_streak, 0) AS correct_streak,
			COALESCE(wp.avg_answer_time_sec, 0) AS avg_answer_time_sec,
			wp.last_answered_at
		FROM words w
		LEFT JOIN word_progress wp ON wp.word_id = w.id AND wp.user_id = ?
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY w.id"

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, mapError(err, "failed to fetch word candidates")
	}

	candidates := make([]models.WordCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.toModel(userID))
	}
	return candidates, nil
}
