package drill

import (
	"sort"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// DefaultCandidateWindow is how many top-scored words the selector picks from
const DefaultCandidateWindow = 50

// ScoredCandidate is a candidate with its priority score
type ScoredCandidate struct {
	models.WordCandidate
	Score float64
}

// Selector picks the next word uniformly among the highest-priority candidates
type Selector struct {
	Window int
	Rand   Rand
}

// Rank scores the candidates and sorts them by descending score.
// Equal scores keep their input order.
func (s *Selector) Rank(candidates []models.WordCandidate, now time.Time) []ScoredCandidate {
	ranked := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, ScoredCandidate{WordCandidate: c, Score: Priority(c.Progress, now)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Pick returns one candidate that satisfies the filter, or nil when none does.
func (s *Selector) Pick(candidates []models.WordCandidate, filter models.WordFilter, now time.Time) *models.WordCandidate {
	matching := make([]models.WordCandidate, 0, len(candidates))
	for _, c := range candidates {
		if filter.Matches(c.Word) {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		return nil
	}

	ranked := s.Rank(matching, now)
	window := min(s.window(), len(ranked))
	picked := ranked[s.Rand.Intn(window)].WordCandidate
	return &picked
}

func (s *Selector) window() int {
	if s.Window <= 0 {
		return DefaultCandidateWindow
	}
	return s.Window
}
