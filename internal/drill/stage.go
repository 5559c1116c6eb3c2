package drill

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// AudioOnlyHint is shown at stage 4, where the learner only hears the word
const AudioOnlyHint = "[audio only]"

// PromotionPolicy decides how correct answers move a word up the stages.
// A deployment picks one and never mixes them.
type PromotionPolicy int

const (
	// PolicyStreak promotes once the correct streak reaches the stage's threshold
	PolicyStreak PromotionPolicy = iota
	// PolicyFlat promotes by one stage on every correct answer
	PolicyFlat
)

// streakThresholds is the correct streak needed to leave a stage
var streakThresholds = map[int]int{
	1: 1,
	2: 2,
	3: 3,
}

func (p PromotionPolicy) String() string {
	switch p {
	case PolicyStreak:
		return "streak"
	case PolicyFlat:
		return "flat"
	default:
		return fmt.Sprintf("PromotionPolicy(%d)", int(p))
	}
}

// ParsePromotionPolicy maps a config value to a policy
func ParsePromotionPolicy(s string) (PromotionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "streak":
		return PolicyStreak, nil
	case "flat":
		return PolicyFlat, nil
	default:
		return PolicyStreak, fmt.Errorf("%w: unknown promotion policy %q", ErrValidation, s)
	}
}

// StageEngine applies one answer to a progress row
type StageEngine struct {
	Policy PromotionPolicy
}

// Apply updates counters, streak, stage and running latency for one answer.
// The running average only includes correct answers.
func (e StageEngine) Apply(p *models.WordProgress, correct bool, answerTimeSec float64, now time.Time) {
	p.Stage = clampStage(p.Stage)
	answeredAt := now
	p.LastAnsweredAt = &answeredAt

	if !correct {
		p.TotalWrong++
		p.CorrectStreak = 0
		p.Stage = max(models.MinStage, p.Stage-1)
		return
	}

	p.TotalCorrect++
	p.CorrectStreak++
	n := float64(p.TotalCorrect)
	p.AvgAnswerTimeSec = (p.AvgAnswerTimeSec*(n-1) + answerTimeSec) / n

	if p.Stage >= models.MaxStage {
		return
	}

	switch e.Policy {
	case PolicyFlat:
		p.Stage++
		p.CorrectStreak = 0
	default:
		if p.CorrectStreak >= streakThresholds[p.Stage] {
			p.Stage++
			p.CorrectStreak = 0
		}
	}
}

func clampStage(stage int) int {
	return min(models.MaxStage, max(models.MinStage, stage))
}

// Hint returns the on-screen help for a stage:
// the full text, its characters scrambled, nothing, or the audio-only marker.
func Hint(stage int, text string, rng Rand) string {
	switch stage {
	case 1:
		return text
	case 2:
		return Scramble(text, rng)
	case 3:
		return ""
	default:
		return AudioOnlyHint
	}
}

// Scramble shuffles the characters of text and joins them with single spaces
func Scramble(text string, rng Rand) string {
	chars := []rune(text)
	rng.Shuffle(len(chars), func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})

	parts := make([]string, len(chars))
	for i, c := range chars {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
