package telemetry

import (
	"math/rand"
	"time"
)

// RandomSource draws uniformly distributed integers from the inclusive range [lo, hi].
type RandomSource interface {
	Between(lo, hi int) int
}

type mathRandom struct {
	rng *rand.Rand
}

// NewRandomSource seeds a math/rand backed source. A zero seed uses the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRandom{rng: rand.New(rand.NewSource(seed))}
}

func (m *mathRandom) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + m.rng.Intn(hi-lo+1)
}
