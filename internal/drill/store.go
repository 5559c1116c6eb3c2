package drill

import (
	"context"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// WordProgressMutator changes a progress row in place. The row passed in is
// either the stored one or models.NewWordProgress when none exists yet.
type WordProgressMutator func(p *models.WordProgress) error

// WordProgressUpdate pairs a word with the mutation to apply to its progress row
type WordProgressUpdate struct {
	WordID int64
	Apply  WordProgressMutator
}

// WordStore is the data access the word engine needs
type WordStore interface {
	// FetchWordCandidates returns every word matching the filter, left-joined
	// with the user's progress. Missing progress is filled with defaults.
	FetchWordCandidates(ctx context.Context, userID int64, filter models.WordFilter) ([]models.WordCandidate, error)

	// GetWord returns nil, nil when the word does not exist.
	GetWord(ctx context.Context, wordID int64) (*models.Word, error)

	// UpsertWordProgress applies the updates in order inside one transaction:
	// read (or default) each row, mutate it, then insert-or-update it by
	// (user, word). Any error rolls back the whole batch.
	UpsertWordProgress(ctx context.Context, userID int64, updates []WordProgressUpdate) ([]models.WordProgress, error)

	// CountWordStages counts all words by the user's current stage.
	CountWordStages(ctx context.Context, userID int64) (models.StageCounts, error)
}

// GrammarProgressMutator changes a grammar progress row in place
type GrammarProgressMutator func(p *models.GrammarProgress) error

// GrammarStore is the data access the grammar engine needs
type GrammarStore interface {
	ListTopics(ctx context.Context) ([]models.GrammarTopic, error)
	// GetTopic returns nil, nil when the topic does not exist.
	GetTopic(ctx context.Context, topicID int64) (*models.GrammarTopic, error)
	FetchQuestions(ctx context.Context, topicID int64) ([]models.GrammarQuestion, error)
	// GetQuestion returns nil, nil when the question does not exist.
	GetQuestion(ctx context.Context, questionID int64) (*models.GrammarQuestion, error)
	// UpsertGrammarProgress reads, mutates and writes the (user, topic) row in one transaction.
	UpsertGrammarProgress(ctx context.Context, userID, topicID int64, fn GrammarProgressMutator) (*models.GrammarProgress, error)
	ListGrammarProgress(ctx context.Context, userID int64) ([]models.GrammarProgress, error)
}

// UserStore is the data access for learners
type UserStore interface {
	CreateUser(ctx context.Context, name string, createdAt time.Time) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser returns nil, nil when the user does not exist.
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	// DeleteUser returns ErrUserNotFound when nothing was deleted.
	DeleteUser(ctx context.Context, userID int64) error
}
