package drill

import (
	"math/rand"
	"time"
)

// Rand is the randomness used for candidate picking and hint scrambling.
// *rand.Rand satisfies it; tests inject a deterministic one.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded source. It is not safe for concurrent use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
