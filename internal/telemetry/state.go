package telemetry

// Vec3 is one three-axis sample.
type Vec3 [3]float32

// SensorState is the current value of every telemetry channel.
type SensorState struct {
	Accelerometer Vec3       `json:"accelerometer"`
	Gyroscope     Vec3       `json:"gyroscope"`
	Magnetometer  Vec3       `json:"magnetometer"`
	Pressure      [2]float32 `json:"pressure"`
	Battery       float32    `json:"battery"`
}

// Fixed readings shared by the generators.
var (
	Gravity          = Vec3{0, 0, 9.8}
	GravityTipped    = Vec3{0, 9.8, 0}
	Still            = Vec3{0, 0, 0}
	MagneticField    = Vec3{30, -15, 42}
	BaselinePressure = [2]float32{20, 22}
	ImpactPressure   = [2]float32{50, 50}
	NoPressure       = [2]float32{0, 0}
)

// InitialState is the power-on reading: upright, loaded, battery at the reset level.
func InitialState() SensorState {
	return SensorState{
		Accelerometer: Gravity,
		Gyroscope:     Still,
		Magnetometer:  MagneticField,
		Pressure:      BaselinePressure,
		Battery:       BatteryResetLevel,
	}
}
