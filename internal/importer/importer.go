// Package importer bulk-loads reference data: vocabulary words from JSON,
// CSV or Excel files and grammar topics with their questions from JSON.
// Existing records are skipped, never updated.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/example/vocabdrill/pkg/models"
)

// WordWriter is the storage the word import needs
type WordWriter interface {
	FindWordByText(ctx context.Context, text string) (*models.Word, error)
	CreateWord(ctx context.Context, word *models.Word) error
}

// GrammarWriter is the storage the grammar import needs
type GrammarWriter interface {
	FindTopicByTitle(ctx context.Context, title string) (*models.GrammarTopic, error)
	CreateTopic(ctx context.Context, topic *models.GrammarTopic) error
	FindQuestion(ctx context.Context, topicID int64, prompt string) (*models.GrammarQuestion, error)
	CreateQuestion(ctx context.Context, q *models.GrammarQuestion) error
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

func (r *ImportResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Importer loads reference data into a store
type Importer struct {
	words    WordWriter
	grammar  GrammarWriter
	validate *validator.Validate
}

// New creates an importer. Either writer may be nil when that kind of data
// is never imported.
func New(words WordWriter, grammar GrammarWriter) *Importer {
	return &Importer{
		words:    words,
		grammar:  grammar,
		validate: validator.New(),
	}
}

func logSummary(ctx context.Context, kind string, result *ImportResult) {
	slog.InfoContext(ctx, "import finished",
		"kind", kind,
		"processed", result.TotalProcessed,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
}
