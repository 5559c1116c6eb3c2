package drill

import (
	"context"
	"sort"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// scriptedRand returns the queued values from Intn (modulo n) and reverses on Shuffle.
type scriptedRand struct {
	ints []int
	pos  int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.pos%len(r.ints)]
	r.pos++
	return v % n
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

type progressKey struct {
	user int64
	item int64
}

// memoryStore is an in-memory WordStore, GrammarStore and UserStore.
type memoryStore struct {
	users     map[int64]models.User
	words     []models.Word
	progress  map[progressKey]models.WordProgress
	topics    []models.GrammarTopic
	questions []models.GrammarQuestion
	grammar   map[progressKey]models.GrammarProgress
	nextUser  int64

	upsertCalls int
	fetchErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[int64]models.User{1: {ID: 1, Name: "learner"}},
		progress: map[progressKey]models.WordProgress{},
		grammar:  map[progressKey]models.GrammarProgress{},
		nextUser: 2,
	}
}

func (m *memoryStore) FetchWordCandidates(ctx context.Context, userID int64, filter models.WordFilter) ([]models.WordCandidate, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []models.WordCandidate
	for _, w := range m.words {
		if !filter.Matches(w) {
			continue
		}
		p, ok := m.progress[progressKey{userID, w.ID}]
		if !ok {
			p = models.NewWordProgress(userID, w.ID)
		}
		out = append(out, models.WordCandidate{Word: w, Progress: p})
	}
	return out, nil
}

func (m *memoryStore) GetWord(ctx context.Context, wordID int64) (*models.Word, error) {
	for _, w := range m.words {
		if w.ID == wordID {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) UpsertWordProgress(ctx context.Context, userID int64, updates []WordProgressUpdate) ([]models.WordProgress, error) {
	m.upsertCalls++
	if _, ok := m.users[userID]; !ok {
		return nil, ErrUserNotFound
	}

	staged := make(map[progressKey]models.WordProgress, len(m.progress))
	for k, v := range m.progress {
		staged[k] = v
	}

	saved := make([]models.WordProgress, 0, len(updates))
	for _, u := range updates {
		if w, _ := m.GetWord(ctx, u.WordID); w == nil {
			return nil, ErrWordNotFound
		}
		key := progressKey{userID, u.WordID}
		p, ok := staged[key]
		if !ok {
			p = models.NewWordProgress(userID, u.WordID)
		}
		if err := u.Apply(&p); err != nil {
			return nil, err
		}
		staged[key] = p
		saved = append(saved, p)
	}

	m.progress = staged
	return saved, nil
}

func (m *memoryStore) CountWordStages(ctx context.Context, userID int64) (models.StageCounts, error) {
	counts := models.StageCounts{Total: len(m.words), ByStage: map[int]int{}}
	for _, w := range m.words {
		stage := models.MinStage
		if p, ok := m.progress[progressKey{userID, w.ID}]; ok {
			stage = p.Stage
		}
		counts.ByStage[stage]++
	}
	return counts, nil
}

func (m *memoryStore) ListTopics(ctx context.Context) ([]models.GrammarTopic, error) {
	out := append([]models.GrammarTopic(nil), m.topics...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (m *memoryStore) GetTopic(ctx context.Context, topicID int64) (*models.GrammarTopic, error) {
	for _, t := range m.topics {
		if t.ID == topicID {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) FetchQuestions(ctx context.Context, topicID int64) ([]models.GrammarQuestion, error) {
	var out []models.GrammarQuestion
	for _, q := range m.questions {
		if q.TopicID == topicID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryStore) GetQuestion(ctx context.Context, questionID int64) (*models.GrammarQuestion, error) {
	for _, q := range m.questions {
		if q.ID == questionID {
			q := q
			return &q, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) UpsertGrammarProgress(ctx context.Context, userID, topicID int64, fn GrammarProgressMutator) (*models.GrammarProgress, error) {
	key := progressKey{userID, topicID}
	p, ok := m.grammar[key]
	if !ok {
		p = models.GrammarProgress{UserID: userID, TopicID: topicID}
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	m.grammar[key] = p
	return &p, nil
}

func (m *memoryStore) ListGrammarProgress(ctx context.Context, userID int64) ([]models.GrammarProgress, error) {
	var out []models.GrammarProgress
	for k, v := range m.grammar {
		if k.user == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateUser(ctx context.Context, name string, createdAt time.Time) (*models.User, error) {
	u := models.User{ID: m.nextUser, Name: name, CreatedAt: createdAt}
	m.users[u.ID] = u
	m.nextUser++
	return &u, nil
}

func (m *memoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryStore) DeleteUser(ctx context.Context, userID int64) error {
	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, userID)
	return nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(t time.Time) *time.Time { return &t }
