package sim

import (
	"fmt"

	"github.com/danmuck/canectl/internal/telemetry"
)

type PhaseKind uint8

const (
	PhaseWalking PhaseKind = iota
	PhaseImpact
	PhaseResting
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseWalking:
		return "walking"
	case PhaseImpact:
		return "impact"
	case PhaseResting:
		return "resting"
	default:
		return fmt.Sprintf("phase(%d)", uint8(k))
	}
}

// FallPhase is the sub-state of the fall sequence. Counter is always zero on entry to a phase.
type FallPhase struct {
	Kind    PhaseKind
	Counter int
}

func (p FallPhase) String() string {
	if p.Kind == PhaseResting {
		return p.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", p.Kind, p.Counter)
}

const (
	walkingSteps = 3
	impactSteps  = 1
)

// FallSequence walks a few steps, hits the ground once, then lies still until reset.
type FallSequence struct {
	phase FallPhase
}

func (f *FallSequence) Phase() FallPhase {
	return f.phase
}

func (f *FallSequence) Reset() {
	f.phase = FallPhase{Kind: PhaseWalking}
}

// Step advances the sequence by one tick. A transition tick emits the new phase's values.
func (f *FallSequence) Step(st *telemetry.SensorState, rnd telemetry.RandomSource) {
	switch f.phase.Kind {
	case PhaseWalking:
		simulateWalking(st, rnd)
		f.phase.Counter++
		if f.phase.Counter >= walkingSteps {
			f.phase = FallPhase{Kind: PhaseImpact}
			simulateImpact(st, rnd)
		}
	case PhaseImpact:
		simulateImpact(st, rnd)
		f.phase.Counter++
		if f.phase.Counter >= impactSteps {
			f.phase = FallPhase{Kind: PhaseResting}
			simulateResting(st)
		}
	default:
		simulateResting(st)
	}
}
