package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/vocabdrill/pkg/models"
)

// TopicRecord is one grammar topic as read from JSON
type TopicRecord struct {
	Title        string       `json:"title" validate:"required"`
	Description  string       `json:"description"`
	Level        *int         `json:"level" validate:"omitempty,gte=0"`
	RelatedUnits []flexString `json:"related_units"`
}

// QuestionRecord is one grammar question as read from JSON
type QuestionRecord struct {
	GrammarTitle  string  `json:"grammar_title" validate:"required"`
	QuestionType  string  `json:"question_type" validate:"required,oneof=mcq fill"`
	PromptText    string  `json:"prompt_text" validate:"required"`
	Choice1       *string `json:"choice1"`
	Choice2       *string `json:"choice2"`
	Choice3       *string `json:"choice3"`
	Choice4       *string `json:"choice4"`
	CorrectAnswer string  `json:"correct_answer" validate:"required"`
	Explanation   string  `json:"explanation"`
}

// choices returns the filled choices in slot order. A filled slot after an
// empty one is an error so option numbers always match the stored slots.
func (q QuestionRecord) choices() ([]string, error) {
	var out []string
	empty := false
	for i, c := range []*string{q.Choice1, q.Choice2, q.Choice3, q.Choice4} {
		if c == nil || strings.TrimSpace(*c) == "" {
			empty = true
			continue
		}
		if empty {
			return nil, fmt.Errorf("choice%d is set after an empty choice", i+1)
		}
		out = append(out, strings.TrimSpace(*c))
	}
	return out, nil
}

// ImportGrammar imports topics and, when questionsPath is set, questions
func (im *Importer) ImportGrammar(ctx context.Context, topicsPath, questionsPath string) (*ImportResult, error) {
	topics, err := os.Open(topicsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open topics file: %w", err)
	}
	defer topics.Close()

	var questions io.Reader
	if questionsPath != "" {
		file, err := os.Open(questionsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open questions file: %w", err)
		}
		defer file.Close()
		questions = file
	}
	return im.ImportGrammarJSON(ctx, topics, questions)
}

// ImportGrammarJSON imports a JSON array of topics and an optional JSON array
// of questions. Questions name their topic by title; unknown titles are
// reported in the result.
func (im *Importer) ImportGrammarJSON(ctx context.Context, topicsJSON, questionsJSON io.Reader) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}

	var topics []TopicRecord
	if topicsJSON != nil {
		if err := json.NewDecoder(topicsJSON).Decode(&topics); err != nil {
			return nil, fmt.Errorf("failed to decode topics JSON: %w", err)
		}
	}
	for i, rec := range topics {
		if err := im.importTopic(ctx, rec, result, fmt.Sprintf("Topic %d", i+1)); err != nil {
			return result, err
		}
	}

	if questionsJSON != nil {
		var questions []QuestionRecord
		if err := json.NewDecoder(questionsJSON).Decode(&questions); err != nil {
			return result, fmt.Errorf("failed to decode questions JSON: %w", err)
		}
		for i, rec := range questions {
			if err := im.importQuestion(ctx, rec, result, fmt.Sprintf("Question %d", i+1)); err != nil {
				return result, err
			}
		}
	}

	logSummary(ctx, "grammar", result)
	return result, nil
}

func (im *Importer) importTopic(ctx context.Context, rec TopicRecord, result *ImportResult, label string) error {
	result.TotalProcessed++
	rec.Title = strings.TrimSpace(rec.Title)

	if err := im.validate.Struct(rec); err != nil {
		result.addError("%s: %v", label, err)
		return nil
	}

	existing, err := im.grammar.FindTopicByTitle(ctx, rec.Title)
	if err != nil {
		return abortOrRecord(err, result, label)
	}
	if existing != nil {
		slog.DebugContext(ctx, "skipping existing grammar topic", "title", rec.Title)
		result.Skipped++
		return nil
	}

	topic := &models.GrammarTopic{
		Title:       rec.Title,
		Description: strings.TrimSpace(rec.Description),
		Level:       1,
	}
	if rec.Level != nil {
		topic.Level = *rec.Level
	}
	for i := range rec.RelatedUnits {
		if unit := rec.RelatedUnits[i].ptr(); unit != nil {
			topic.RelatedUnits = append(topic.RelatedUnits, *unit)
		}
	}

	if err := im.grammar.CreateTopic(ctx, topic); err != nil {
		return abortOrRecord(err, result, label)
	}
	slog.DebugContext(ctx, "imported grammar topic", "id", topic.ID, "title", topic.Title)
	result.Created++
	return nil
}

func (im *Importer) importQuestion(ctx context.Context, rec QuestionRecord, result *ImportResult, label string) error {
	result.TotalProcessed++
	rec.GrammarTitle = strings.TrimSpace(rec.GrammarTitle)
	rec.PromptText = strings.TrimSpace(rec.PromptText)
	rec.CorrectAnswer = strings.TrimSpace(rec.CorrectAnswer)

	if err := im.validate.Struct(rec); err != nil {
		result.addError("%s: %v", label, err)
		return nil
	}
	choices, err := rec.choices()
	if err != nil {
		result.addError("%s: %v", label, err)
		return nil
	}
	if models.AnswerKind(rec.QuestionType) == models.MultipleChoice && len(choices) < 2 {
		result.addError("%s: multiple-choice question needs at least two choices", label)
		return nil
	}

	topic, err := im.grammar.FindTopicByTitle(ctx, rec.GrammarTitle)
	if err != nil {
		return abortOrRecord(err, result, label)
	}
	if topic == nil {
		result.addError("%s: grammar topic %q not found", label, rec.GrammarTitle)
		return nil
	}

	existing, err := im.grammar.FindQuestion(ctx, topic.ID, rec.PromptText)
	if err != nil {
		return abortOrRecord(err, result, label)
	}
	if existing != nil {
		slog.DebugContext(ctx, "skipping existing grammar question", "topic_id", topic.ID, "prompt", rec.PromptText)
		result.Skipped++
		return nil
	}

	q := &models.GrammarQuestion{
		TopicID:       topic.ID,
		Kind:          models.AnswerKind(rec.QuestionType),
		Prompt:        rec.PromptText,
		Choices:       choices,
		CorrectAnswer: rec.CorrectAnswer,
		Explanation:   strings.TrimSpace(rec.Explanation),
	}
	if err := im.grammar.CreateQuestion(ctx, q); err != nil {
		return abortOrRecord(err, result, label)
	}
	slog.DebugContext(ctx, "imported grammar question", "id", q.ID, "topic_id", q.TopicID)
	result.Created++
	return nil
}
