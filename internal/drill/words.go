package drill

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// WordTrainerConfig tunes a WordTrainer. Zero values produce the defaults:
// streak promotion, a window of 50, a time-seeded rand and time.Now.
type WordTrainerConfig struct {
	Policy          PromotionPolicy
	CandidateWindow int
	Rand            Rand
	Now             func() time.Time
}

// WordTrainer runs the word stage engine against a WordStore
type WordTrainer struct {
	store    WordStore
	selector *Selector
	engine   StageEngine
	rng      Rand
	now      func() time.Time
}

// WordAnswer is one entry of a bulk answer submission
type WordAnswer struct {
	WordID        int64   `json:"word_id"`
	Correct       bool    `json:"correct"`
	AnswerTimeSec float64 `json:"answer_time_sec"`
}

// NewWordTrainer creates a new word trainer
func NewWordTrainer(store WordStore, cfg WordTrainerConfig) *WordTrainer {
	rng := cfg.Rand
	if rng == nil {
		rng = NewRand()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &WordTrainer{
		store:    store,
		selector: &Selector{Window: cfg.CandidateWindow, Rand: rng},
		engine:   StageEngine{Policy: cfg.Policy},
		rng:      rng,
		now:      now,
	}
}

// SelectNext picks the next word for the user, or returns nil when no word
// matches the filter.
func (t *WordTrainer) SelectNext(ctx context.Context, userID int64, filter models.WordFilter) (*models.NextWord, error) {
	candidates, err := t.store.FetchWordCandidates(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word candidates: %w", err)
	}

	picked := t.selector.Pick(candidates, filter, t.now())
	if picked == nil {
		slog.DebugContext(ctx, "no word matches filter", "user_id", userID, "candidates", len(candidates))
		return nil, nil
	}

	stage := clampStage(picked.Progress.Stage)
	return &models.NextWord{
		Word:             picked.Word,
		Stage:            stage,
		Hint:             Hint(stage, picked.Word.Text, t.rng),
		CorrectStreak:    picked.Progress.CorrectStreak,
		AvgAnswerTimeSec: picked.Progress.AvgAnswerTimeSec,
	}, nil
}

// RecordAnswer applies one answer to the user's progress on a word
func (t *WordTrainer) RecordAnswer(ctx context.Context, userID, wordID int64, correct bool, answerTimeSec float64) (*models.WordProgress, error) {
	saved, err := t.RecordAnswers(ctx, userID, []WordAnswer{{WordID: wordID, Correct: correct, AnswerTimeSec: answerTimeSec}})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// RecordAnswers applies a batch of answers in order inside one transaction.
// Either every answer is recorded or none is.
func (t *WordTrainer) RecordAnswers(ctx context.Context, userID int64, answers []WordAnswer) ([]models.WordProgress, error) {
	if len(answers) == 0 {
		return nil, nil
	}

	now := t.now()
	updates := make([]WordProgressUpdate, 0, len(answers))
	for _, a := range answers {
		if a.AnswerTimeSec < 0 || math.IsNaN(a.AnswerTimeSec) || math.IsInf(a.AnswerTimeSec, 0) {
			return nil, fmt.Errorf("%w: answer time for word %d must be a non-negative number, got %v", ErrValidation, a.WordID, a.AnswerTimeSec)
		}
		a := a
		updates = append(updates, WordProgressUpdate{
			WordID: a.WordID,
			Apply: func(p *models.WordProgress) error {
				t.engine.Apply(p, a.Correct, a.AnswerTimeSec, now)
				return nil
			},
		})
	}

	saved, err := t.store.UpsertWordProgress(ctx, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to record answers: %w", err)
	}

	slog.InfoContext(ctx, "recorded word answers",
		"user_id", userID,
		"count", len(saved),
		"policy", t.engine.Policy.String())
	return saved, nil
}

// Answer checks a typed answer against the word's text and records the outcome.
// The comparison ignores case and surrounding whitespace.
func (t *WordTrainer) Answer(ctx context.Context, userID, wordID int64, submitted string, answerTimeSec float64) (*models.WordAnswerResult, error) {
	word, err := t.store.GetWord(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	if word == nil {
		return nil, fmt.Errorf("%w: id %d", ErrWordNotFound, wordID)
	}

	correct := AnswersMatch(submitted, word.Text)
	progress, err := t.RecordAnswer(ctx, userID, wordID, correct, answerTimeSec)
	if err != nil {
		return nil, err
	}

	return &models.WordAnswerResult{
		IsCorrect:     correct,
		CorrectAnswer: word.Text,
		Progress:      *progress,
	}, nil
}

// Stats reports the share of words the user has moved past stages 1, 2 and 3
func (t *WordTrainer) Stats(ctx context.Context, userID int64) (*models.WordStats, error) {
	counts, err := t.store.CountWordStages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count word stages: %w", err)
	}
	return StatsFromCounts(counts), nil
}

// StatsFromCounts derives the cleared percentages. Stage N is cleared when
// the word's stage is greater than N.
func StatsFromCounts(counts models.StageCounts) *models.WordStats {
	stats := &models.WordStats{TotalItems: counts.Total}
	if counts.Total == 0 {
		return stats
	}

	cleared := func(stage int) float64 {
		n := 0
		for s, c := range counts.ByStage {
			if s > stage {
				n += c
			}
		}
		return math.Round(float64(n)/float64(counts.Total)*1000) / 10
	}

	stats.Stage1ClearedPct = cleared(1)
	stats.Stage2ClearedPct = cleared(2)
	stats.Stage3ClearedPct = cleared(3)
	return stats
}

// AnswersMatch compares a submitted answer with the canonical one,
// ignoring case and surrounding whitespace.
func AnswersMatch(submitted, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(canonical))
}
