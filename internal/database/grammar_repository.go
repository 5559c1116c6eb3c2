package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/pkg/models"
)

// GrammarRepository handles database operations for grammar topics and questions
type GrammarRepository struct {
	db *sqlx.DB
}

// NewGrammarRepository creates a new repository instance
func NewGrammarRepository(db *sqlx.DB) *GrammarRepository {
	return &GrammarRepository{db: db}
}

const (
	topicColumns    = "id, title, description, level, related_units"
	questionColumns = `id, topic_id, question_type, prompt_text,
		choice1, choice2, choice3, choice4, correct_answer, explanation`
)

// topicRow stores related units as one comma-separated column
type topicRow struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	Level        int    `db:"level"`
	RelatedUnits string `db:"related_units"`
}

func (t topicRow) toModel() models.GrammarTopic {
	topic := models.GrammarTopic{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Level:       t.Level,
	}
	for _, unit := range strings.Split(t.RelatedUnits, ",") {
		if unit = strings.TrimSpace(unit); unit != "" {
			topic.RelatedUnits = append(topic.RelatedUnits, unit)
		}
	}
	return topic
}

type questionRow struct {
	ID            int64          `db:"id"`
	TopicID       int64          `db:"topic_id"`
	Kind          string         `db:"question_type"`
	Prompt        string         `db:"prompt_text"`
	Choice1       sql.NullString `db:"choice1"`
	Choice2       sql.NullString `db:"choice2"`
	Choice3       sql.NullString `db:"choice3"`
	Choice4       sql.NullString `db:"choice4"`
	CorrectAnswer string         `db:"correct_answer"`
	Explanation   string         `db:"explanation"`
}

func (q questionRow) toModel() models.GrammarQuestion {
	question := models.GrammarQuestion{
		ID:            q.ID,
		TopicID:       q.TopicID,
		Kind:          models.AnswerKind(q.Kind),
		Prompt:        q.Prompt,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	for _, c := range []sql.NullString{q.Choice1, q.Choice2, q.Choice3, q.Choice4} {
		if c.Valid && c.String != "" {
			question.Choices = append(question.Choices, c.String)
		}
	}
	return question
}

// ListTopics returns all topics ordered by level, then ID
func (r *GrammarRepository) ListTopics(ctx context.Context) ([]models.GrammarTopic, error) {
	var rows []topicRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+topicColumns+" FROM grammar_topics ORDER BY level, id"); err != nil {
		return nil, mapError(err, "failed to list grammar topics")
	}

	topics := make([]models.GrammarTopic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.toModel())
	}
	return topics, nil
}

// GetTopic returns a topic by ID
func (r *GrammarRepository) GetTopic(ctx context.Context, topicID int64) (*models.GrammarTopic, error) {
	return r.getTopic(ctx, "id = ?", topicID)
}

// FindTopicByTitle returns the topic with exactly this title
func (r *GrammarRepository) FindTopicByTitle(ctx context.Context, title string) (*models.GrammarTopic, error) {
	return r.getTopic(ctx, "title = ?", title)
}

func (r *GrammarRepository) getTopic(ctx context.Context, where string, arg interface{}) (*models.GrammarTopic, error) {
	var row topicRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT "+topicColumns+" FROM grammar_topics WHERE "+where), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to get grammar topic")
	}
	topic := row.toModel()
	return &topic, nil
}

// CreateTopic inserts a new topic and sets its ID
func (r *GrammarRepository) CreateTopic(ctx context.Context, topic *models.GrammarTopic) error {
	query := r.db.Rebind(`
		INSERT INTO grammar_topics (title, description, level, related_units)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		topic.Title,
		topic.Description,
		topic.Level,
		strings.Join(topic.RelatedUnits, ","),
	).Scan(&topic.ID)
	return mapError(err, "failed to create grammar topic")
}

// FetchQuestions returns every question of a topic
func (r *GrammarRepository) FetchQuestions(ctx context.Context, topicID int64) ([]models.GrammarQuestion, error) {
	var rows []questionRow
	query := r.db.Rebind("SELECT " + questionColumns + " FROM grammar_questions WHERE topic_id = ? ORDER BY id")
	if err := r.db.SelectContext(ctx, &rows, query, topicID); err != nil {
		return nil, mapError(err, "failed to fetch grammar questions")
	}

	questions := make([]models.GrammarQuestion, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.toModel())
	}
	return questions, nil
}

// GetQuestion returns a question by ID
func (r *GrammarRepository) GetQuestion(ctx context.Context, questionID int64) (*models.GrammarQuestion, error) {
	return r.getQuestion(ctx, "id = ?", questionID)
}

// FindQuestion returns the question of a topic with exactly this prompt
func (r *GrammarRepository) FindQuestion(ctx context.Context, topicID int64, prompt string) (*models.GrammarQuestion, error) {
	return r.getQuestion(ctx, "topic_id = ? AND prompt_text = ?", topicID, prompt)
}

func (r *GrammarRepository) getQuestion(ctx context.Context, where string, args ...interface{}) (*models.GrammarQuestion, error) {
	var row questionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT "+questionColumns+" FROM grammar_questions WHERE "+where), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to get grammar question")
	}
	q := row.toModel()
	return &q, nil
}

// CreateQuestion inserts a new question and sets its ID
func (r *GrammarRepository) CreateQuestion(ctx context.Context, q *models.GrammarQuestion) error {
	var choices [models.MaxChoices]sql.NullString
	for i, c := range q.Choices {
		if i >= models.MaxChoices {
			break
		}
		choices[i] = sql.NullString{String: c, Valid: c != ""}
	}

	query := r.db.Rebind(`
		INSERT INTO grammar_questions (
			topic_id, question_type, prompt_text,
			choice1, choice2, choice3, choice4,
			correct_answer, explanation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		q.TopicID,
		string(q.Kind),
		q.Prompt,
		choices[0], choices[1], choices[2], choices[3],
		q.CorrectAnswer,
		q.Explanation,
	).Scan(&q.ID)
	return mapError(err, "failed to create grammar question")
}
