package models

import "time"

// AnswerKind distinguishes multiple-choice from fill-in grammar questions
type AnswerKind string

const (
	MultipleChoice AnswerKind = "mcq"
	FillIn         AnswerKind = "fill"
)

// MaxChoices is the number of choice slots a question can hold
const MaxChoices = 4

// GrammarTopic represents a grammar point with its questions
type GrammarTopic struct {
	ID           int64    `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	Description  string   `json:"description" db:"description"`
	Level        int      `json:"level" db:"level"`
	RelatedUnits []string `json:"related_units,omitempty" db:"-"`
}

// GrammarQuestion belongs to exactly one topic
type GrammarQuestion struct {
	ID            int64      `json:"id" db:"id"`
	TopicID       int64      `json:"topic_id" db:"topic_id"`
	Kind          AnswerKind `json:"question_type" db:"question_type"`
	Prompt        string     `json:"prompt_text" db:"prompt_text"`
	Choices       []string   `json:"choices,omitempty" db:"-"`
	CorrectAnswer string     `json:"correct_answer" db:"correct_answer"`
	Explanation   string     `json:"explanation,omitempty" db:"explanation"`
}

// GrammarProgress tracks a user's mastery of one topic
type GrammarProgress struct {
	UserID        int64      `json:"user_id" db:"user_id"`
	TopicID       int64      `json:"topic_id" db:"topic_id"`
	CorrectCount  int        `json:"correct_count" db:"correct_count"`
	WrongCount    int        `json:"wrong_count" db:"wrong_count"`
	MasteryLevel  int        `json:"mastery_level" db:"mastery_level"`
	LastStudiedAt *time.Time `json:"last_studied_at,omitempty" db:"last_studied_at"`
}

// GrammarResult is returned after a grammar answer was checked
type GrammarResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	MasteryLevel  int    `json:"mastery_level"`
}

// TopicMastery pairs a topic with the user's progress on it
type TopicMastery struct {
	Topic    GrammarTopic    `json:"topic"`
	Progress GrammarProgress `json:"progress"`
}
