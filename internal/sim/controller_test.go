package sim

import (
	"errors"
	"testing"

	"github.com/danmuck/canectl/internal/telemetry"
	"github.com/danmuck/canectl/internal/testutil/testlog"
)

func TestControllerStartsWalkingWithInitialState(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(1))
	snap := c.Snapshot()
	if snap.Mode != ModeWalking {
		t.Fatalf("unexpected default mode: %s", snap.Mode)
	}
	if snap.State != telemetry.InitialState() {
		t.Fatalf("unexpected initial state: %+v", snap.State)
	}
	if snap.Phase != (FallPhase{Kind: PhaseWalking}) {
		t.Fatalf("unexpected initial phase: %s", snap.Phase)
	}
}

func TestHandleButtonMapping(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(1))
	cases := []struct {
		button Button
		mode   Mode
	}{
		{Button2, ModeFalling},
		{Button3, ModeWobbling},
		{Button4, ModeStanding},
		{Button1, ModeWalking},
	}
	for _, tc := range cases {
		if !c.HandleButton(tc.button) {
			t.Fatalf("button %d not recognized", tc.button)
		}
		if got := c.Mode(); got != tc.mode {
			t.Fatalf("button %d: got mode %s want %s", tc.button, got, tc.mode)
		}
	}
}

func TestHandleButtonIgnoresUnknownIDs(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(1))
	c.HandleButton(Button4)
	if c.HandleButton(Button(9)) {
		t.Fatalf("expected unknown button to be ignored")
	}
	if c.HandleButton(Button(0)) {
		t.Fatalf("expected button 0 to be ignored")
	}
	if got := c.Mode(); got != ModeStanding {
		t.Fatalf("unknown button changed mode to %s", got)
	}
}

func TestButtonTwoAlwaysResetsFallSequence(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(4))
	for ticks := 0; ticks <= 6; ticks++ {
		c.HandleButton(Button2)
		for iter := 0; iter < ticks; iter++ {
			if _, err := c.Tick(); err != nil {
				t.Fatalf("tick: %v", err)
			}
		}
		c.HandleButton(Button2)
		if c.Mode() != ModeFalling {
			t.Fatalf("after %d ticks: unexpected mode %s", ticks, c.Mode())
		}
		if got := c.Phase(); got != (FallPhase{Kind: PhaseWalking}) {
			t.Fatalf("after %d ticks: unexpected phase %s", ticks, got)
		}
	}
}

func TestLeavingFallingResetsPhase(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(4))
	c.HandleButton(Button2)
	for iter := 0; iter < 5; iter++ {
		c.Tick()
	}
	c.HandleButton(Button3)
	if got := c.Phase(); got != (FallPhase{Kind: PhaseWalking}) {
		t.Fatalf("unexpected phase after leaving falling: %s", got)
	}
}

func TestIndicatorTogglesOnlyOnButtonOne(t *testing.T) {
	testlog.Start(t)

	ind := &fakeIndicator{}
	c := NewController(telemetry.NewRandomSource(1), WithIndicator(ind))
	c.HandleButton(Button1)
	c.HandleButton(Button2)
	c.HandleButton(Button3)
	c.HandleButton(Button1)
	c.HandleButton(Button1)

	if ind.toggles != 3 {
		t.Fatalf("expected 3 toggles, got %d", ind.toggles)
	}
	if !c.IndicatorOn() {
		t.Fatalf("expected indicator on after odd toggles")
	}
}

func TestTickFallingReachesRestingOnTickFour(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(8))
	c.HandleButton(Button2)

	var snap Snapshot
	var err error
	for iter := 0; iter < 4; iter++ {
		if snap, err = c.Tick(); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if snap.Phase.Kind != PhaseResting {
		t.Fatalf("expected resting on tick 4, got %s", snap.Phase)
	}
	for iter := 0; iter < 3; iter++ {
		snap, _ = c.Tick()
		if snap.State.Accelerometer != (telemetry.Vec3{0, 9.8, 0}) || snap.State.Pressure != [2]float32{0, 0} {
			t.Fatalf("tick %d: unexpected resting state %+v", snap.Tick, snap.State)
		}
	}
}

func TestTickUnknownModeLeavesStateUntouched(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(1))
	c.HandleButton(Button3)
	if _, err := c.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	before := c.Snapshot()

	c.mu.Lock()
	c.mode = Mode(9)
	c.mu.Unlock()

	if _, err := c.Tick(); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	after := c.Snapshot()
	if after.State != before.State {
		t.Fatalf("state mutated by unknown mode tick")
	}
	if after.Tick != before.Tick {
		t.Fatalf("tick counter advanced on unknown mode: %d -> %d", before.Tick, after.Tick)
	}
}

func TestTickWithMissingGeneratorReportsUnknownMode(t *testing.T) {
	testlog.Start(t)

	gens := DefaultGenerators()
	delete(gens, ModeWobbling)
	c := NewController(telemetry.NewRandomSource(1), WithGenerators(gens))
	c.HandleButton(Button3)
	if _, err := c.Tick(); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestTickUsesCustomGenerator(t *testing.T) {
	testlog.Start(t)

	gens := DefaultGenerators()
	gens[ModeStanding] = GeneratorFunc(func(st *telemetry.SensorState, _ telemetry.RandomSource, _ *FallSequence) {
		st.Pressure = [2]float32{1, 2}
	})
	c := NewController(telemetry.NewRandomSource(1), WithGenerators(gens))
	c.HandleButton(Button4)
	snap, err := c.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if snap.State.Pressure != [2]float32{1, 2} {
		t.Fatalf("custom generator not dispatched: %v", snap.State.Pressure)
	}
}

func TestDrainBatteryIsReflectedInNextSnapshot(t *testing.T) {
	testlog.Start(t)

	c := NewController(telemetry.NewRandomSource(1))
	snap, _ := c.Tick()
	if snap.State.Battery != 85 {
		t.Fatalf("expected full battery on first tick, got %v", snap.State.Battery)
	}
	level := c.DrainBattery()
	snap, _ = c.Tick()
	if snap.State.Battery != level {
		t.Fatalf("expected drained battery %v in snapshot, got %v", level, snap.State.Battery)
	}
}
