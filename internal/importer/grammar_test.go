package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdrill/pkg/models"
)

const topicsJSON = `[
	{"title": "be verbs", "description": "am / is / are", "level": 1, "related_units": [1, "Unit 2"]},
	{"title": "Past tense", "level": 2},
	{"title": ""}
]`

const questionsJSON = `[
	{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "I ___ to school yesterday.",
	 "choice1": "go", "choice2": "went", "choice3": "gone", "correct_answer": "went", "explanation": "go -> went"},
	{"grammar_title": "be verbs", "question_type": "fill", "prompt_text": "I ___ a student.", "correct_answer": "am"},
	{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "I ___ to school yesterday.",
	 "choice1": "go", "choice2": "went", "correct_answer": "went"},
	{"grammar_title": "Relative clauses", "question_type": "fill", "prompt_text": "x", "correct_answer": "who"},
	{"grammar_title": "be verbs", "question_type": "essay", "prompt_text": "y", "correct_answer": "z"},
	{"grammar_title": "be verbs", "question_type": "mcq", "prompt_text": "one choice", "choice1": "is", "correct_answer": "is"}
]`

func TestImportGrammarJSON(t *testing.T) {
	ctx := context.Background()
	w := &memoryWriter{}
	im := New(nil, w)

	result, err := im.ImportGrammarJSON(ctx, strings.NewReader(topicsJSON), strings.NewReader(questionsJSON))
	require.NoError(t, err)

	assert.Equal(t, 9, result.TotalProcessed)
	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 4)

	require.Len(t, w.topics, 2)
	assert.Equal(t, []string{"1", "Unit 2"}, w.topics[0].RelatedUnits)
	assert.Equal(t, 1, w.topics[0].Level)
	assert.Equal(t, 2, w.topics[1].Level)

	require.Len(t, w.questions, 2)
	mcq := w.questions[0]
	assert.Equal(t, models.MultipleChoice, mcq.Kind)
	assert.Equal(t, []string{"go", "went", "gone"}, mcq.Choices)
	assert.Equal(t, w.topics[1].ID, mcq.TopicID)
	assert.Equal(t, models.FillIn, w.questions[1].Kind)
}

func TestImportGrammarIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	topicsPath := filepath.Join(dir, "grammar_topics.json")
	questionsPath := filepath.Join(dir, "grammar_questions.json")
	require.NoError(t, os.WriteFile(topicsPath, []byte(topicsJSON), 0o644))
	require.NoError(t, os.WriteFile(questionsPath, []byte(questionsJSON), 0o644))

	w := &memoryWriter{}
	im := New(nil, w)

	_, err := im.ImportGrammar(ctx, topicsPath, questionsPath)
	require.NoError(t, err)

	again, err := im.ImportGrammar(ctx, topicsPath, questionsPath)
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 5, again.Skipped)
	assert.Len(t, w.topics, 2)
	assert.Len(t, w.questions, 2)

	topicsOnly, err := im.ImportGrammar(ctx, topicsPath, "")
	require.NoError(t, err)
	assert.Equal(t, 3, topicsOnly.TotalProcessed)
}

func TestImportGrammarRejectsChoiceGaps(t *testing.T) {
	ctx := context.Background()
	w := &memoryWriter{}
	im := New(nil, w)

	questions := `[
	{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "gap",
	 "choice2": "went", "choice3": "gone", "correct_answer": "went"},
	{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "blank gap",
	 "choice1": "go", "choice2": " ", "choice3": "gone", "correct_answer": "gone"},
	{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "trailing blanks",
	 "choice1": "go", "choice2": "went", "choice3": "", "correct_answer": "went"}
]`
	result, err := im.ImportGrammarJSON(ctx, strings.NewReader(topicsJSON), strings.NewReader(questions))
	require.NoError(t, err)

	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[1], "choice2 is set after an empty choice")
	assert.Contains(t, result.Errors[2], "choice3 is set after an empty choice")

	require.Len(t, w.questions, 1)
	assert.Equal(t, "trailing blanks", w.questions[0].Prompt)
	assert.Equal(t, []string{"go", "went"}, w.questions[0].Choices)
}
