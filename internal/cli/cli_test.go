package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/importer"
	"github.com/example/vocabdrill/pkg/models"
)

// testEnv points every command at a fresh sqlite file
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("VOCABDRILL_DATABASE_DSN", filepath.Join(dir, "drill.db"))
	t.Setenv("VOCABDRILL_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runApp(t, stdin, args...)
	return out, err
}

// runApp also returns the app so tests can inspect it after the command ends
func runApp(t *testing.T, stdin string, args ...string) (string, *app, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	root := newRootCommand(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := a.execute(context.Background(), root)
	return out.String(), a, err
}

func runJSON(t *testing.T, v interface{}, args ...string) {
	t.Helper()
	out, err := run(t, "", append([]string{"--json"}, args...)...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUsersCommands(t *testing.T) {
	testEnv(t)

	var u models.User
	runJSON(t, &u, "users", "add", "Hana", "Sato")
	assert.Equal(t, "Hana Sato", u.Name)

	out, err := run(t, "", "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hana Sato")

	_, err = run(t, "", "users", "add", " ")
	assert.ErrorIs(t, err, drill.ErrValidation)

	out, err = run(t, "", "users", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted user 1")

	_, err = run(t, "", "users", "delete", "1")
	assert.ErrorIs(t, err, drill.ErrUserNotFound)
}

func TestWordsFlow(t *testing.T) {
	dir := testEnv(t)
	words := writeFile(t, dir, "words.json", `[
		{"english": "apple", "japanese": "りんご", "grade": 1, "unit": "food"},
		{"english": "train", "japanese": "電車", "grade": 2, "unit": "travel"}
	]`)

	var result importer.ImportResult
	runJSON(t, &result, "import", "words", words)
	assert.Equal(t, 2, result.Created)

	var next models.NextWord
	runJSON(t, &next, "words", "next", "--unit", "food")
	assert.Equal(t, "apple", next.Word.Text)
	assert.Equal(t, 1, next.Stage)
	assert.Equal(t, "apple", next.Hint)

	var res models.WordAnswerResult
	runJSON(t, &res, "words", "answer", "1", "APPLE", "--time", "2.5")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 2, res.Progress.Stage)

	var stats models.WordStats
	runJSON(t, &stats, "words", "stats")
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 50.0, stats.Stage1ClearedPct)

	out, err := run(t, "", "words", "next", "--min-grade", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No words match")
}

func TestWordsDrill(t *testing.T) {
	dir := testEnv(t)
	words := writeFile(t, dir, "words.json", `[{"text": "apple", "translation": "りんご"}]`)
	_, err := run(t, "", "import", "words", words)
	require.NoError(t, err)

	out, err := run(t, "apple\nwrong\nq\n", "words", "drill", "--count", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "りんご")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Wrong. Answer: apple")
}

func TestGrammarFlow(t *testing.T) {
	dir := testEnv(t)
	topics := writeFile(t, dir, "topics.json", `[{"title": "Past tense", "level": 2}]`)
	questions := writeFile(t, dir, "questions.json", `[
		{"grammar_title": "Past tense", "question_type": "mcq", "prompt_text": "I ___ home.",
		 "choice1": "go", "choice2": "went", "correct_answer": "went", "explanation": "go -> went"}
	]`)

	var result importer.ImportResult
	runJSON(t, &result, "import", "grammar", topics, questions)
	assert.Equal(t, 2, result.Created)

	var list []models.GrammarTopic
	runJSON(t, &list, "grammar", "topics")
	require.Len(t, list, 1)

	var q models.GrammarQuestion
	runJSON(t, &q, "grammar", "next", "1")
	assert.Equal(t, []string{"go", "went"}, q.Choices)

	var res models.GrammarResult
	runJSON(t, &res, "grammar", "check", "1", "went")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 5, res.MasteryLevel)

	out, err := run(t, "2\n1\n", "grammar", "drill", "1", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Correct! mastery 10%")
	assert.Contains(t, out, "Wrong. Answer: went (mastery 3%)")

	var overview []models.TopicMastery
	runJSON(t, &overview, "grammar", "overview")
	require.Len(t, overview, 1)
	assert.Equal(t, 3, overview[0].Progress.MasteryLevel)

	_, err = run(t, "", "grammar", "check", "99", "x")
	assert.ErrorIs(t, err, drill.ErrQuestionNotFound)
}

func TestUnknownUser(t *testing.T) {
	testEnv(t)
	_, err := run(t, "", "--user", "42", "words", "stats")
	assert.ErrorIs(t, err, drill.ErrUserNotFound)
}

func TestStoreClosedAfterFailedCommand(t *testing.T) {
	testEnv(t)
	_, a, err := runApp(t, "", "--user", "42", "words", "stats")
	require.ErrorIs(t, err, drill.ErrUserNotFound)
	require.NotNil(t, a.store)

	_, err = a.store.ListUsers(context.Background())
	assert.ErrorContains(t, err, "database is closed")
}

func TestChoiceAnswer(t *testing.T) {
	q := &models.GrammarQuestion{Kind: models.MultipleChoice, Choices: []string{"go", "went"}}
	assert.Equal(t, "went", choiceAnswer(q, "2"))
	assert.Equal(t, "7", choiceAnswer(q, "7"))
	assert.Equal(t, "gone", choiceAnswer(q, "gone"))
	assert.Equal(t, "went", choiceAnswer(q, " Went "))

	numeric := &models.GrammarQuestion{Kind: models.MultipleChoice, Choices: []string{"3", "5", "7", "9"}, CorrectAnswer: "3"}
	assert.Equal(t, "3", choiceAnswer(numeric, "3"))
	assert.Equal(t, "9", choiceAnswer(numeric, "9"))
	assert.Equal(t, "5", choiceAnswer(numeric, "2"))

	fill := &models.GrammarQuestion{Kind: models.FillIn}
	assert.Equal(t, "1", choiceAnswer(fill, "1"))
}
