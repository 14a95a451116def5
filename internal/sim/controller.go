package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/telemetry"
	"github.com/rs/zerolog"
)

var ErrUnknownMode = errors.New("sim: unknown mode")

// Indicator is the binary output toggled by the indicator button (LED1 on the dev kit).
type Indicator interface {
	Toggle() bool
	On() bool
}

// Snapshot is an immutable copy of the controller bundle taken at the end of a tick.
type Snapshot struct {
	Tick  uint64
	Mode  Mode
	Phase FallPhase
	State telemetry.SensorState
}

// Controller owns the mode, the fall sequence, the sensor state and the battery.
// Every method takes the same lock, so a tick is atomic with respect to button presses.
type Controller struct {
	mu         sync.Mutex
	mode       Mode
	fall       FallSequence
	state      telemetry.SensorState
	battery    *telemetry.Battery
	rnd        telemetry.RandomSource
	generators map[Mode]Generator
	indicator  Indicator
	ticks      uint64
	log        zerolog.Logger
}

type ControllerOption func(*Controller)

func WithIndicator(ind Indicator) ControllerOption {
	return func(c *Controller) {
		c.indicator = ind
	}
}

// WithGenerators replaces the mode dispatch table.
func WithGenerators(gens map[Mode]Generator) ControllerOption {
	return func(c *Controller) {
		c.generators = gens
	}
}

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = logger
	}
}

func NewController(rnd telemetry.RandomSource, opts ...ControllerOption) *Controller {
	state := telemetry.InitialState()
	c := &Controller{
		mode:       DefaultMode,
		state:      state,
		battery:    telemetry.NewBattery(state.Battery),
		rnd:        rnd,
		generators: DefaultGenerators(),
		log:        observability.Component("sim"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleButton selects the mode bound to b and restarts the fall sequence.
// Unknown buttons are ignored and report false.
func (c *Controller) HandleButton(b Button) bool {
	mode, ok := ModeForButton(b)
	if !ok {
		return false
	}

	c.mu.Lock()
	prev := c.mode
	c.mode = mode
	c.fall.Reset()
	c.mu.Unlock()

	c.log.Info().
		Uint8("button", uint8(b)).
		Stringer("from", prev).
		Stringer("to", mode).
		Msg("mode selected")

	if b == IndicatorButton && c.indicator != nil {
		on := c.indicator.Toggle()
		c.log.Debug().Bool("on", on).Msg("indicator toggled")
	}
	return true
}

// Tick runs the generator for the current mode and returns the resulting snapshot.
// A mode without a generator leaves every field untouched and returns ErrUnknownMode.
func (c *Controller) Tick() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen, ok := c.generators[c.mode]
	if !ok || gen == nil {
		c.log.Error().Uint8("mode", uint8(c.mode)).Msg("no generator for mode; tick skipped")
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(c.mode))
	}

	next := c.state
	gen.Generate(&next, c.rnd, &c.fall)
	next.Battery = c.battery.Level()
	c.state = next
	c.ticks++

	return c.snapshotLocked(), nil
}

// DrainBattery applies one battery drain step and returns the new level.
func (c *Controller) DrainBattery() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	level := c.battery.Decay()
	c.state.Battery = level
	return level
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Phase() FallPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fall.Phase()
}

func (c *Controller) IndicatorOn() bool {
	if c.indicator == nil {
		return false
	}
	return c.indicator.On()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Tick:  c.ticks,
		Mode:  c.mode,
		Phase: c.fall.Phase(),
		State: c.state,
	}
}
