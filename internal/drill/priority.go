package drill

import (
	"math"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

const (
	// neverAnsweredDays stands in for the review gap of a word never answered
	neverAnsweredDays = 999

	defaultStagePenalty = 5
)

var stagePenalties = map[int]float64{
	1: 5,
	2: 3,
	3: 1,
	4: 0,
}

// StagePenalty returns the urgency bonus for a stage; unknown stages get the stage-1 value.
func StagePenalty(stage int) float64 {
	if p, ok := stagePenalties[stage]; ok {
		return p
	}
	return defaultStagePenalty
}

// DaysSinceReview counts calendar days between the last answer and now in
// now's location, with a floor of 1. A nil last answer yields 999.
func DaysSinceReview(lastAnswered *time.Time, now time.Time) int {
	if lastAnswered == nil {
		return neverAnsweredDays
	}
	today := startOfDay(now)
	lastDay := startOfDay(lastAnswered.In(now.Location()))
	days := int(math.Round(today.Sub(lastDay).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Priority scores how urgently a word should be reviewed; higher is more urgent.
//
//	wrong*3 + 4/max(1, streak) + days*1.5 + stagePenalty
func Priority(p models.WordProgress, now time.Time) float64 {
	streak := max(1, p.CorrectStreak)
	days := DaysSinceReview(p.LastAnsweredAt, now)

	return float64(p.TotalWrong)*3 +
		4/float64(streak) +
		float64(days)*1.5 +
		StagePenalty(p.Stage)
}
