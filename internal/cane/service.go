package cane

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/canectl/internal/input"
	"github.com/danmuck/canectl/internal/monitor"
	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/danmuck/canectl/internal/telemetry"
	"github.com/danmuck/canectl/internal/transport"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidTickInterval = errors.New("cane: invalid tick interval")
	ErrInputBacklog        = errors.New("cane: input backlog full")
	ErrNilController       = errors.New("cane: nil controller")
)

// ServiceConfig configures the simulator runtime.
type ServiceConfig struct {
	DeviceName   string
	TickInterval time.Duration
	InputBuffer  int
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DeviceName:   "Cane Sensor",
		TickInterval: time.Second,
		InputBuffer:  16,
	}
}

// Status is the operator view of the runtime.
type Status struct {
	DeviceName   string                `json:"device_name"`
	Running      bool                  `json:"running"`
	Tick         uint64                `json:"tick"`
	Mode         string                `json:"mode"`
	ModeTag      uint8                 `json:"mode_tag"`
	FallPhase    string                `json:"fall_phase"`
	Sensors      telemetry.SensorState `json:"sensors"`
	Battery      float32               `json:"battery"`
	Indicator    bool                  `json:"indicator"`
	FramesSent   uint64                `json:"frames_sent"`
	SendFailures uint64                `json:"send_failures"`
	SkippedTicks uint64                `json:"skipped_ticks"`
	Monitor      *monitor.Status       `json:"monitor,omitempty"`
}

type ServiceOption func(*Service)

// WithMonitor adds m as a second frame sink and reports its verdict in Status.
func WithMonitor(m *monitor.Monitor) ServiceOption {
	return func(s *Service) {
		s.monitor = m
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = logger
	}
}

// Service runs the tick loop and owns the button queue.
type Service struct {
	cfg     ServiceConfig
	ctrl    *sim.Controller
	tx      *transport.Transmitter
	monitor *monitor.Monitor
	presses chan sim.Button
	log     zerolog.Logger

	tickMu       sync.Mutex
	running      atomic.Bool
	framesSent   atomic.Uint64
	sendFailures atomic.Uint64
	skippedTicks atomic.Uint64
}

func NewService(cfg ServiceConfig, ctrl *sim.Controller, sink transport.Notifier, opts ...ServiceOption) (*Service, error) {
	if ctrl == nil {
		return nil, ErrNilController
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTickInterval, cfg.TickInterval)
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = DefaultServiceConfig().InputBuffer
	}
	if strings.TrimSpace(cfg.DeviceName) == "" {
		cfg.DeviceName = DefaultServiceConfig().DeviceName
	}

	s := &Service{
		cfg:  cfg,
		ctrl: ctrl,
		log:  observability.Component("cane"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.presses = make(chan sim.Button, cfg.InputBuffer)

	notifier := sink
	if s.monitor != nil {
		notifier = transport.Fanout{sink, s.monitor}
	}
	s.tx = transport.NewTransmitter(notifier)
	return s, nil
}

// Press queues a button for the loop. It never blocks.
func (s *Service) Press(b sim.Button) error {
	if _, ok := sim.ModeForButton(b); !ok {
		return fmt.Errorf("%w: %d", input.ErrUnknownButton, uint8(b))
	}
	select {
	case s.presses <- b:
		return nil
	default:
		return ErrInputBacklog
	}
}

// Serve ticks every TickInterval and handles presses between ticks until ctx is done.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.running.Store(true)
	defer s.running.Store(false)

	s.log.Info().
		Str("device", s.cfg.DeviceName).
		Dur("interval", s.cfg.TickInterval).
		Stringer("mode", s.ctrl.Mode()).
		Msg("simulation started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Uint64("ticks", s.ctrl.Snapshot().Tick).Msg("simulation stopped")
			return nil
		case b := <-s.presses:
			s.tickMu.Lock()
			s.handlePress(b)
			s.tickMu.Unlock()
		case <-ticker.C:
			s.TickOnce()
		}
	}
}

// TickOnce runs one full tick. It is safe to call while Serve is not running.
func (s *Service) TickOnce() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.drainPresses()

	snap, err := s.ctrl.Tick()
	if err != nil {
		s.skippedTicks.Add(1)
		observability.RecordUnknownMode()
		s.log.Error().Err(err).Msg("tick skipped")
		return
	}

	sent, err := s.tx.Send(snap)
	s.framesSent.Add(uint64(sent))
	if err != nil {
		s.sendFailures.Add(1)
	}

	level := s.ctrl.DrainBattery()
	observability.RecordTick(snap.Mode.Tag(), level)
	s.log.Debug().
		Uint64("tick", snap.Tick).
		Stringer("mode", snap.Mode).
		Stringer("phase", snap.Phase).
		Int("frames", sent).
		Float32("battery", level).
		Msg("tick")
}

func (s *Service) drainPresses() {
	for {
		select {
		case b := <-s.presses:
			s.handlePress(b)
		default:
			return
		}
	}
}

func (s *Service) handlePress(b sim.Button) {
	if !s.ctrl.HandleButton(b) {
		return
	}
	observability.RecordModeChange(s.ctrl.Mode().String())
}

func (s *Service) Ready() bool {
	return s.running.Load()
}

func (s *Service) Status() Status {
	snap := s.ctrl.Snapshot()
	st := Status{
		DeviceName:   s.cfg.DeviceName,
		Running:      s.running.Load(),
		Tick:         snap.Tick,
		Mode:         snap.Mode.String(),
		ModeTag:      snap.Mode.Tag(),
		FallPhase:    snap.Phase.String(),
		Sensors:      snap.State,
		Battery:      snap.State.Battery,
		Indicator:    s.ctrl.IndicatorOn(),
		FramesSent:   s.framesSent.Load(),
		SendFailures: s.sendFailures.Load(),
		SkippedTicks: s.skippedTicks.Load(),
	}
	if s.monitor != nil {
		ms := s.monitor.Status()
		st.Monitor = &ms
	}
	return st
}
