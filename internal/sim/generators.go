package sim

import "github.com/danmuck/canectl/internal/telemetry"

// Generator rewrites the motion and pressure channels for one mode.
// Battery is left to the drain model; every other field is overwritten.
type Generator interface {
	Generate(st *telemetry.SensorState, rnd telemetry.RandomSource, fall *FallSequence)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(st *telemetry.SensorState, rnd telemetry.RandomSource, fall *FallSequence)

func (f GeneratorFunc) Generate(st *telemetry.SensorState, rnd telemetry.RandomSource, fall *FallSequence) {
	f(st, rnd, fall)
}

type walkingGenerator struct{}

func (walkingGenerator) Generate(st *telemetry.SensorState, rnd telemetry.RandomSource, _ *FallSequence) {
	simulateWalking(st, rnd)
}

type fallingGenerator struct{}

func (fallingGenerator) Generate(st *telemetry.SensorState, rnd telemetry.RandomSource, fall *FallSequence) {
	fall.Step(st, rnd)
}

type wobblingGenerator struct{}

func (wobblingGenerator) Generate(st *telemetry.SensorState, rnd telemetry.RandomSource, _ *FallSequence) {
	simulateWobbling(st, rnd)
}

type standingGenerator struct{}

func (standingGenerator) Generate(st *telemetry.SensorState, _ telemetry.RandomSource, _ *FallSequence) {
	simulateStanding(st)
}

// DefaultGenerators binds every defined mode to its generator.
func DefaultGenerators() map[Mode]Generator {
	return map[Mode]Generator{
		ModeWalking:  walkingGenerator{},
		ModeFalling:  fallingGenerator{},
		ModeWobbling: wobblingGenerator{},
		ModeStanding: standingGenerator{},
	}
}

// Stable gait: near-zero motion, pressure within a tenth of baseline.
func simulateWalking(st *telemetry.SensorState, rnd telemetry.RandomSource) {
	for i := 0; i < 3; i++ {
		st.Accelerometer[i] = float32(rnd.Between(-2, 2)) / 100
		st.Gyroscope[i] = float32(rnd.Between(-2, 2)) / 100
	}
	st.Magnetometer = telemetry.MagneticField
	st.Pressure[0] = telemetry.BaselinePressure[0] + float32(rnd.Between(-1, 1))/10
	st.Pressure[1] = telemetry.BaselinePressure[1] + float32(rnd.Between(-1, 1))/10
}

// Unstable gait: wide motion with an occasional lurch on each axis.
func simulateWobbling(st *telemetry.SensorState, rnd telemetry.RandomSource) {
	for i := 0; i < 3; i++ {
		st.Accelerometer[i] = float32(rnd.Between(-1000, 1000)) / 50
		st.Gyroscope[i] = float32(rnd.Between(-1000, 1000)) / 50
		if rnd.Between(0, 4) == 0 {
			st.Accelerometer[i] += float32(rnd.Between(-500, 500)) / 10
			st.Gyroscope[i] += float32(rnd.Between(-500, 500)) / 10
		}
	}
	st.Magnetometer = telemetry.MagneticField
	st.Pressure[0] = telemetry.BaselinePressure[0] + float32(rnd.Between(-50, 50))/5
	st.Pressure[1] = telemetry.BaselinePressure[1] + float32(rnd.Between(-50, 50))/5
}

func simulateStanding(st *telemetry.SensorState) {
	st.Accelerometer = telemetry.Gravity
	st.Gyroscope = telemetry.Still
	st.Magnetometer = telemetry.MagneticField
	st.Pressure = telemetry.BaselinePressure
}

func simulateImpact(st *telemetry.SensorState, rnd telemetry.RandomSource) {
	st.Accelerometer = telemetry.Vec3{
		float32(rnd.Between(20, 39)),
		float32(rnd.Between(-10, 10)),
		float32(rnd.Between(-20, 20)),
	}
	for i := 0; i < 3; i++ {
		st.Gyroscope[i] = float32(rnd.Between(0, 199)) / 10
	}
	st.Magnetometer = telemetry.MagneticField
	st.Pressure = telemetry.ImpactPressure
}

// The cane lies on the ground: gravity along y, no load on either sensor.
func simulateResting(st *telemetry.SensorState) {
	st.Accelerometer = telemetry.GravityTipped
	st.Gyroscope = telemetry.Still
	st.Magnetometer = telemetry.MagneticField
	st.Pressure = telemetry.NoPressure
}
