package models

// Word represents a vocabulary item imported as reference data
type Word struct {
	ID          int64   `json:"id" db:"id"`
	Text        string  `json:"text" db:"text"`               // Target-language text the learner types
	Translation string  `json:"translation" db:"translation"` // Source-language prompt
	Grade       *int    `json:"grade,omitempty" db:"grade"`   // Optional difficulty tier
	Unit        *string `json:"unit,omitempty" db:"unit"`     // Optional category/unit tag
	Level       *int    `json:"level,omitempty" db:"level"`
}

// WordFilter restricts the candidate set for word selection.
// A nil field means no restriction.
type WordFilter struct {
	MinGrade *int    `json:"min_grade,omitempty"`
	MaxGrade *int    `json:"max_grade,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	MaxLevel *int    `json:"max_level,omitempty"`
}

// Matches reports whether the word satisfies every active restriction.
// A word without a grade or level never satisfies a filter on that field.
func (f WordFilter) Matches(w Word) bool {
	if f.MinGrade != nil && (w.Grade == nil || *w.Grade < *f.MinGrade) {
		return false
	}
	if f.MaxGrade != nil && (w.Grade == nil || *w.Grade > *f.MaxGrade) {
		return false
	}
	if f.Unit != nil && (w.Unit == nil || *w.Unit != *f.Unit) {
		return false
	}
	if f.MaxLevel != nil && (w.Level == nil || *w.Level > *f.MaxLevel) {
		return false
	}
	return true
}
