package input

import (
	"sync"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/rs/zerolog"
)

// LED models the indicator output. Level changes are logged.
type LED struct {
	mu   sync.Mutex
	name string
	on   bool
	log  zerolog.Logger
}

var _ sim.Indicator = (*LED)(nil)

func NewLED(name string) *LED {
	return &LED{name: name, log: observability.Component("led")}
}

func (l *LED) Toggle() bool {
	l.mu.Lock()
	l.on = !l.on
	on := l.on
	l.mu.Unlock()

	l.log.Info().Str("led", l.name).Bool("on", on).Msg("indicator")
	return on
}

func (l *LED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
