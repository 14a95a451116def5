package sim

import (
	"testing"

	"github.com/danmuck/canectl/internal/telemetry"
	"github.com/danmuck/canectl/internal/testutil/testlog"
)

func TestFallSequenceTiming(t *testing.T) {
	testlog.Start(t)

	var fall FallSequence
	rnd := telemetry.NewRandomSource(5)
	st := telemetry.InitialState()

	wantPhases := []FallPhase{
		{Kind: PhaseWalking, Counter: 1},
		{Kind: PhaseWalking, Counter: 2},
		{Kind: PhaseImpact, Counter: 0},
		{Kind: PhaseResting},
	}
	for i, want := range wantPhases {
		fall.Step(&st, rnd)
		if got := fall.Phase(); got != want {
			t.Fatalf("tick %d: got phase %s want %s", i+1, got, want)
		}
	}

	for tick := 5; tick <= 12; tick++ {
		fall.Step(&st, rnd)
		if fall.Phase().Kind != PhaseResting {
			t.Fatalf("tick %d: left resting: %s", tick, fall.Phase())
		}
		if st.Accelerometer != (telemetry.Vec3{0, 9.8, 0}) {
			t.Fatalf("tick %d: unexpected accelerometer %v", tick, st.Accelerometer)
		}
		if st.Gyroscope != (telemetry.Vec3{}) {
			t.Fatalf("tick %d: unexpected gyroscope %v", tick, st.Gyroscope)
		}
		if st.Pressure != [2]float32{0, 0} {
			t.Fatalf("tick %d: unexpected pressure %v", tick, st.Pressure)
		}
	}
}

func TestFallTransitionTickEmitsImpactValues(t *testing.T) {
	testlog.Start(t)

	var fall FallSequence
	rnd := telemetry.NewRandomSource(9)
	st := telemetry.InitialState()
	for iter := 0; iter < 3; iter++ {
		fall.Step(&st, rnd)
	}
	if st.Pressure != [2]float32{50, 50} {
		t.Fatalf("expected impact pressure on transition tick, got %v", st.Pressure)
	}
	if st.Accelerometer[0] < 20 || st.Accelerometer[0] > 39 {
		t.Fatalf("expected impact accelerometer on transition tick, got %v", st.Accelerometer)
	}

	fall.Step(&st, rnd)
	if st.Accelerometer != (telemetry.Vec3{0, 9.8, 0}) {
		t.Fatalf("expected resting values on tick 4, got %v", st.Accelerometer)
	}
}

func TestFallResetReturnsToWalkingZero(t *testing.T) {
	testlog.Start(t)

	var fall FallSequence
	rnd := telemetry.NewRandomSource(2)
	st := telemetry.InitialState()
	for iter := 0; iter < 6; iter++ {
		fall.Step(&st, rnd)
	}
	fall.Reset()
	if got := fall.Phase(); got != (FallPhase{Kind: PhaseWalking}) {
		t.Fatalf("unexpected phase after reset: %s", got)
	}
}

func TestFallPhaseString(t *testing.T) {
	testlog.Start(t)

	if got := (FallPhase{Kind: PhaseImpact, Counter: 0}).String(); got != "impact(0)" {
		t.Fatalf("unexpected string: %q", got)
	}
	if got := (FallPhase{Kind: PhaseResting}).String(); got != "resting" {
		t.Fatalf("unexpected string: %q", got)
	}
}
