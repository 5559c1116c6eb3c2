package importer

import (
	"context"

	"github.com/example/vocabdrill/pkg/models"
)

type memoryWriter struct {
	words     []models.Word
	topics    []models.GrammarTopic
	questions []models.GrammarQuestion
	failWith  error
}

func (m *memoryWriter) FindWordByText(ctx context.Context, text string) (*models.Word, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, w := range m.words {
		if w.Text == text {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (m *memoryWriter) CreateWord(ctx context.Context, word *models.Word) error {
	word.ID = int64(len(m.words) + 1)
	m.words = append(m.words, *word)
	return nil
}

func (m *memoryWriter) FindTopicByTitle(ctx context.Context, title string) (*models.GrammarTopic, error) {
	for _, t := range m.topics {
		if t.Title == title {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memoryWriter) CreateTopic(ctx context.Context, topic *models.GrammarTopic) error {
	topic.ID = int64(len(m.topics) + 1)
	m.topics = append(m.topics, *topic)
	return nil
}

func (m *memoryWriter) FindQuestion(ctx context.Context, topicID int64, prompt string) (*models.GrammarQuestion, error) {
	for _, q := range m.questions {
		if q.TopicID == topicID && q.Prompt == prompt {
			q := q
			return &q, nil
		}
	}
	return nil, nil
}

func (m *memoryWriter) CreateQuestion(ctx context.Context, q *models.GrammarQuestion) error {
	q.ID = int64(len(m.questions) + 1)
	m.questions = append(m.questions, *q)
	return nil
}
