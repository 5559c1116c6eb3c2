package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabdrill/pkg/models"
)

// StatisticsRepository aggregates progress for reporting
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// CountWordStages counts every word by the user's stage; words without
// progress count as stage 1.
func (r *StatisticsRepository) CountWordStages(ctx context.Context, userID int64) (models.StageCounts, error) {
	var rows []struct {
		Stage int `db:"stage"`
		Count int `db:"n"`
	}
	query := r.db.Rebind(`
		SELECT COALESCE(wp.stage, 1) AS stage, COUNT(*) AS n
		FROM words w
		LEFT JOIN word_progress wp ON wp.word_id = w.id AND wp.user_id = ?
		GROUP BY COALESCE(wp.stage, 1)
	`)

	counts := models.StageCounts{ByStage: map[int]int{}}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return counts, mapError(err, "failed to count word stages")
	}

	for _, row := range rows {
		counts.ByStage[row.Stage] += row.Count
		counts.Total += row.Count
	}
	return counts, nil
}
