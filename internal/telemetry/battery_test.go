package telemetry

import (
	"testing"

	"github.com/danmuck/canectl/internal/testutil/testlog"
)

func TestBatteryWrapsInsteadOfGoingNegative(t *testing.T) {
	testlog.Start(t)

	b := NewBattery(0.05)
	if got := b.Decay(); got != BatteryResetLevel {
		t.Fatalf("expected wrap to %v, got %v", BatteryResetLevel, got)
	}
}

func TestBatteryWrapsOnStep851FromReset(t *testing.T) {
	testlog.Start(t)

	b := NewBattery(BatteryResetLevel)
	for i := 1; i <= 850; i++ {
		level := b.Decay()
		if level < 0 || level > BatteryMaxLevel {
			t.Fatalf("step %d: level out of range: %v", i, level)
		}
		if level == BatteryResetLevel {
			t.Fatalf("step %d: wrapped early", i)
		}
	}
	if got := b.Level(); got != 0 {
		t.Fatalf("expected empty battery after 850 steps, got %v", got)
	}
	if got := b.Decay(); got != BatteryResetLevel {
		t.Fatalf("expected step 851 to wrap, got %v", got)
	}
	if got := b.Decay(); got >= BatteryResetLevel || got < BatteryResetLevel-0.11 {
		t.Fatalf("expected drain to resume after wrap, got %v", got)
	}
}

func TestNewBatteryClampsLevel(t *testing.T) {
	testlog.Start(t)

	if got := NewBattery(140).Level(); got != BatteryMaxLevel {
		t.Fatalf("expected clamp to max, got %v", got)
	}
	if got := NewBattery(-3).Level(); got != 0 {
		t.Fatalf("expected clamp to zero, got %v", got)
	}
}

func TestInitialState(t *testing.T) {
	testlog.Start(t)

	st := InitialState()
	if st.Accelerometer != (Vec3{0, 0, 9.8}) {
		t.Fatalf("unexpected accelerometer: %v", st.Accelerometer)
	}
	if st.Battery != 85.0 {
		t.Fatalf("unexpected battery: %v", st.Battery)
	}
	if st.Magnetometer != (Vec3{30, -15, 42}) {
		t.Fatalf("unexpected magnetometer: %v", st.Magnetometer)
	}
}
