package sim

import "github.com/danmuck/canectl/internal/telemetry"

// countingRandom returns pick(lo, hi) and counts draws.
type countingRandom struct {
	draws int
	pick  func(lo, hi int) int
}

func (r *countingRandom) Between(lo, hi int) int {
	r.draws++
	if r.pick == nil {
		return lo
	}
	return r.pick(lo, hi)
}

func lowest() *countingRandom  { return &countingRandom{pick: func(lo, _ int) int { return lo }} }
func highest() *countingRandom { return &countingRandom{pick: func(_, hi int) int { return hi }} }

type fakeIndicator struct {
	on      bool
	toggles int
}

func (f *fakeIndicator) Toggle() bool {
	f.on = !f.on
	f.toggles++
	return f.on
}

func (f *fakeIndicator) On() bool { return f.on }

func within(v, lo, hi float32) bool {
	const eps = 1e-5
	return v >= lo-eps && v <= hi+eps
}

var _ telemetry.RandomSource = (*countingRandom)(nil)
