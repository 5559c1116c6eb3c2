package models

import "time"

// Stage bounds for word mastery.
const (
	MinStage = 1
	MaxStage = 4
)

// WordProgress tracks a user's mastery stage and answer history for one word
type WordProgress struct {
	UserID           int64      `json:"user_id" db:"user_id"`
	WordID           int64      `json:"word_id" db:"word_id"`
	Stage            int        `json:"stage" db:"stage"`
	TotalCorrect     int        `json:"total_correct" db:"total_correct"`
	TotalWrong       int        `json:"total_wrong" db:"total_wrong"`
	CorrectStreak    int        `json:"correct_streak" db:"correct_streak"`
	AvgAnswerTimeSec float64    `json:"avg_answer_time_sec" db:"avg_answer_time_sec"`
	LastAnsweredAt   *time.Time `json:"last_answered_at,omitempty" db:"last_answered_at"`
}

// NewWordProgress returns the default progress row for a word that was never answered
func NewWordProgress(userID, wordID int64) WordProgress {
	return WordProgress{
		UserID: userID,
		WordID: wordID,
		Stage:  MinStage,
	}
}

// WordCandidate is a word joined with the user's progress (defaults when absent)
type WordCandidate struct {
	Word     Word         `json:"word"`
	Progress WordProgress `json:"progress"`
}

// NextWord is the item chosen for presentation together with its stage hint
type NextWord struct {
	Word             Word    `json:"word"`
	Stage            int     `json:"stage"`
	Hint             string  `json:"hint"`
	CorrectStreak    int     `json:"correct_streak"`
	AvgAnswerTimeSec float64 `json:"avg_answer_time_sec"`
}

// WordAnswerResult is returned after a typed answer was checked and recorded
type WordAnswerResult struct {
	IsCorrect     bool         `json:"is_correct"`
	CorrectAnswer string       `json:"correct_answer"`
	Progress      WordProgress `json:"progress"`
}
