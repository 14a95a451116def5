package monitor

import (
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/canectl/internal/telemetry"
)

var ErrInvalidConfig = errors.New("monitor: invalid config")

type Config struct {
	Window            int
	VarianceThreshold float64
	DeltaThreshold    float64
	DurationThreshold int
}

func DefaultConfig() Config {
	return Config{
		Window:            8,
		VarianceThreshold: 0.5,
		DeltaThreshold:    0.6,
		DurationThreshold: 3,
	}
}

func (c Config) Validate() error {
	if c.Window < 2 {
		return fmt.Errorf("%w: window must be >= 2, got %d", ErrInvalidConfig, c.Window)
	}
	if c.VarianceThreshold < 0 || c.DeltaThreshold < 0 {
		return fmt.Errorf("%w: thresholds must be non-negative", ErrInvalidConfig)
	}
	if c.DurationThreshold < 1 {
		return fmt.Errorf("%w: duration must be >= 1, got %d", ErrInvalidConfig, c.DurationThreshold)
	}
	return nil
}

// Verdict is the detector state after one sample.
type Verdict struct {
	Variance float64 `json:"variance"`
	Unstable bool    `json:"unstable"`
	Run      int     `json:"run"`
	Alert    bool    `json:"alert"`
}

// Detector is not safe for concurrent use.
type Detector struct {
	cfg       Config
	window    []float64
	next      int
	filled    bool
	prev      telemetry.Vec3
	havePrev  bool
	run       int
	triggered bool
}

func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, window: make([]float64, cfg.Window)}, nil
}

// Observe folds one accelerometer sample into the window. Alert is true only
// on the sample where a run first reaches DurationThreshold.
func (d *Detector) Observe(accel telemetry.Vec3) Verdict {
	d.window[d.next] = magnitude(accel)
	d.next = (d.next + 1) % len(d.window)
	if d.next == 0 {
		d.filled = true
	}

	var v Verdict
	if d.filled {
		v.Variance = sampleVariance(d.window)
		v.Unstable = v.Variance > d.cfg.VarianceThreshold
	}
	if d.havePrev {
		moved := 0
		for i := range accel {
			if math.Abs(float64(accel[i])-float64(d.prev[i])) > d.cfg.DeltaThreshold {
				moved++
			}
		}
		if moved >= 2 {
			v.Unstable = true
		}
	}
	d.prev = accel
	d.havePrev = true

	if v.Unstable {
		d.run++
	} else {
		d.run = 0
		d.triggered = false
	}
	if d.run >= d.cfg.DurationThreshold && !d.triggered {
		d.triggered = true
		v.Alert = true
	}
	v.Run = d.run
	return v
}

func (d *Detector) Reset() {
	clear(d.window)
	d.next = 0
	d.filled = false
	d.havePrev = false
	d.run = 0
	d.triggered = false
}

func magnitude(v telemetry.Vec3) float64 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// sampleVariance uses the n-1 denominator.
func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}
