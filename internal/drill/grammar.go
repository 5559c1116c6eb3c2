package drill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// Mastery moves for grammar answers
const (
	MasteryGain    = 5
	MasteryPenalty = 7
	MaxMastery     = 100
)

// GrammarTrainerConfig tunes a GrammarTrainer; zero values use defaults
type GrammarTrainerConfig struct {
	Rand Rand
	Now  func() time.Time
}

// GrammarTrainer serves grammar questions and tracks per-topic mastery
type GrammarTrainer struct {
	store GrammarStore
	rng   Rand
	now   func() time.Time
}

// NewGrammarTrainer creates a new grammar trainer
func NewGrammarTrainer(store GrammarStore, cfg GrammarTrainerConfig) *GrammarTrainer {
	rng := cfg.Rand
	if rng == nil {
		rng = NewRand()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &GrammarTrainer{store: store, rng: rng, now: now}
}

// ListTopics returns all grammar topics ordered by level
func (t *GrammarTrainer) ListTopics(ctx context.Context) ([]models.GrammarTopic, error) {
	topics, err := t.store.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grammar topics: %w", err)
	}
	return topics, nil
}

// Topic returns a topic by ID, or nil when there is none
func (t *GrammarTrainer) Topic(ctx context.Context, topicID int64) (*models.GrammarTopic, error) {
	topic, err := t.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar topic: %w", err)
	}
	return topic, nil
}

// NextQuestion picks a question of the topic uniformly at random.
// It returns nil when the topic has no questions.
func (t *GrammarTrainer) NextQuestion(ctx context.Context, userID, topicID int64) (*models.GrammarQuestion, error) {
	questions, err := t.store.FetchQuestions(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grammar questions: %w", err)
	}
	if len(questions) == 0 {
		slog.DebugContext(ctx, "grammar topic has no questions", "user_id", userID, "topic_id", topicID)
		return nil, nil
	}

	q := questions[t.rng.Intn(len(questions))]
	return &q, nil
}

// CheckAnswer grades an answer and updates the user's mastery of the
// question's topic. It returns nil when the question does not exist.
func (t *GrammarTrainer) CheckAnswer(ctx context.Context, userID, questionID int64, answer string) (*models.GrammarResult, error) {
	q, err := t.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar question: %w", err)
	}
	if q == nil {
		return nil, nil
	}

	correct := AnswersMatch(answer, q.CorrectAnswer)
	now := t.now()
	progress, err := t.store.UpsertGrammarProgress(ctx, userID, q.TopicID, func(p *models.GrammarProgress) error {
		ApplyMastery(p, correct, now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update grammar progress: %w", err)
	}

	slog.InfoContext(ctx, "checked grammar answer",
		"user_id", userID,
		"question_id", questionID,
		"correct", correct,
		"mastery", progress.MasteryLevel)

	return &models.GrammarResult{
		IsCorrect:     correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		MasteryLevel:  progress.MasteryLevel,
	}, nil
}

// ApplyMastery updates counters and mastery for one answer, clamped to [0, 100]
func ApplyMastery(p *models.GrammarProgress, correct bool, now time.Time) {
	if correct {
		p.CorrectCount++
		p.MasteryLevel = min(MaxMastery, p.MasteryLevel+MasteryGain)
	} else {
		p.WrongCount++
		p.MasteryLevel = max(0, p.MasteryLevel-MasteryPenalty)
	}
	studiedAt := now
	p.LastStudiedAt = &studiedAt
}

// Overview lists every topic with the user's progress, zeroed when unstudied
func (t *GrammarTrainer) Overview(ctx context.Context, userID int64) ([]models.TopicMastery, error) {
	topics, err := t.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := t.store.ListGrammarProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grammar progress: %w", err)
	}

	byTopic := make(map[int64]models.GrammarProgress, len(rows))
	for _, r := range rows {
		byTopic[r.TopicID] = r
	}

	overview := make([]models.TopicMastery, 0, len(topics))
	for _, topic := range topics {
		p, ok := byTopic[topic.ID]
		if !ok {
			p = models.GrammarProgress{UserID: userID, TopicID: topic.ID}
		}
		overview = append(overview, models.TopicMastery{Topic: topic, Progress: p})
	}
	return overview, nil
}
