package telemetry

const (
	BatteryResetLevel float32 = 85.0
	BatteryMaxLevel   float32 = 100.0

	// Each drain step removes 1/drainStepsPerUnit of a percent (0.1).
	drainStepsPerUnit = 10
)

// Battery drains by a fixed step and wraps back to BatteryResetLevel instead of going negative.
// The level is derived from the steps taken since the last reset, so float error never accumulates.
type Battery struct {
	base    float64
	drained int
}

func NewBattery(level float32) *Battery {
	if level < 0 {
		level = 0
	}
	if level > BatteryMaxLevel {
		level = BatteryMaxLevel
	}
	return &Battery{base: float64(level)}
}

func (b *Battery) Level() float32 {
	return float32(b.value())
}

// Decay removes one drain step and returns the new level.
func (b *Battery) Decay() float32 {
	b.drained++
	if b.value() < 0 {
		b.base = float64(BatteryResetLevel)
		b.drained = 0
	}
	return b.Level()
}

func (b *Battery) value() float64 {
	return b.base - float64(b.drained)/drainStepsPerUnit
}
