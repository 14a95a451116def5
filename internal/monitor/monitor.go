package monitor

import (
	"fmt"
	"sync"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/protocol/frame"
	"github.com/danmuck/canectl/internal/transport"
	"github.com/rs/zerolog"
)

// Status is a copy of the monitor counters for the admin surface.
type Status struct {
	Records      uint64  `json:"records"`
	DecodeErrors uint64  `json:"decode_errors"`
	Alerts       uint64  `json:"alerts"`
	LastModeTag  uint8   `json:"last_mode_tag"`
	Last         Verdict `json:"last"`
}

// Monitor is a frame sink. It decodes every notified frame, rebuilds full
// ticks and runs the detector on their accelerometer channel.
type Monitor struct {
	mu        sync.Mutex
	detector  *Detector
	assembler frame.Assembler
	status    Status
	log       zerolog.Logger
}

var _ transport.Notifier = (*Monitor)(nil)

func New(cfg Config) (*Monitor, error) {
	d, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return &Monitor{detector: d, log: observability.Component("monitor")}, nil
}

// Notify never reports a transport failure; malformed frames are counted and dropped.
func (m *Monitor) Notify(payload []byte) error {
	f, err := frame.Decode(payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status.DecodeErrors++
		m.log.Warn().Err(err).Int("len", len(payload)).Msg("frame dropped")
		return nil
	}
	rec, ok := m.assembler.Add(f)
	if !ok {
		return nil
	}

	v := m.detector.Observe(rec.State.Accelerometer)
	m.status.Records++
	m.status.LastModeTag = rec.ModeTag
	m.status.Last = v
	if v.Alert {
		m.status.Alerts++
		m.log.Warn().
			Int("run", v.Run).
			Float64("variance", v.Variance).
			Uint8("mode_tag", rec.ModeTag).
			Msg("instability detected")
	}
	observability.RecordMonitorSample(v.Run, v.Alert)
	return nil
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detector.Reset()
	m.assembler.Reset()
	m.status = Status{}
}

func (s Status) String() string {
	return fmt.Sprintf("records=%d alerts=%d run=%d unstable=%t", s.Records, s.Alerts, s.Last.Run, s.Last.Unstable)
}
