package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

func bump(p *models.WordProgress) error {
	p.TotalCorrect++
	return nil
}

func TestUpsertWordProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := seedUser(t, s, "hana")
	apple := seedWord(t, s, "apple", nil, nil, nil)

	saved, err := s.UpsertWordProgress(ctx, user.ID, []drill.WordProgressUpdate{
		{WordID: apple.ID, Apply: bump},
		{WordID: apple.ID, Apply: bump},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, 1, saved[0].TotalCorrect)
	assert.Equal(t, 2, saved[1].TotalCorrect)
	assert.Equal(t, 1, saved[1].Stage)

	stored, err := s.GetWordProgress(ctx, user.ID, apple.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.TotalCorrect)

	missing, err := s.GetWordProgress(ctx, user.ID, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpsertWordProgressRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := seedUser(t, s, "hana")
	apple := seedWord(t, s, "apple", nil, nil, nil)

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.UpsertWordProgress(ctx, 42, []drill.WordProgressUpdate{{WordID: apple.ID, Apply: bump}})
		assert.ErrorIs(t, err, drill.ErrUserNotFound)
	})

	t.Run("unknown word aborts the batch", func(t *testing.T) {
		_, err := s.UpsertWordProgress(ctx, user.ID, []drill.WordProgressUpdate{
			{WordID: apple.ID, Apply: bump},
			{WordID: 999, Apply: bump},
		})
		assert.ErrorIs(t, err, drill.ErrWordNotFound)
		assert.ErrorIs(t, err, drill.ErrNotFound)

		stored, err := s.GetWordProgress(ctx, user.ID, apple.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("mutator error aborts the batch", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := s.UpsertWordProgress(ctx, user.ID, []drill.WordProgressUpdate{
			{WordID: apple.ID, Apply: bump},
			{WordID: apple.ID, Apply: func(*models.WordProgress) error { return boom }},
		})
		assert.ErrorIs(t, err, boom)

		stored, err := s.GetWordProgress(ctx, user.ID, apple.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestWordTrainerAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := seedUser(t, s, "hana")
	apple := seedWord(t, s, "apple", intPtr(1), nil, nil)
	seedWord(t, s, "train", intPtr(1), nil, nil)
	seedWord(t, s, "ship", intPtr(1), nil, nil)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	trainer := drill.NewWordTrainer(s, drill.WordTrainerConfig{Now: func() time.Time { return now }})

	next, err := trainer.SelectNext(ctx, user.ID, models.WordFilter{MinGrade: intPtr(1)})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 1, next.Stage)
	assert.Equal(t, next.Word.Text, next.Hint)

	res, err := trainer.Answer(ctx, user.ID, apple.ID, "Apple", 2)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 2, res.Progress.Stage)

	p, err := trainer.RecordAnswer(ctx, user.ID, apple.ID, false, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stage)
	assert.Equal(t, 1, p.TotalWrong)
	assert.Equal(t, 2.0, p.AvgAnswerTimeSec)

	stats, err := trainer.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Zero(t, stats.Stage1ClearedPct)
}
