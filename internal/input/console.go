package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/rs/zerolog"
)

// PressFunc delivers one button press to its consumer.
type PressFunc func(sim.Button) error

// Console reads button ids from a line-oriented reader.
type Console struct {
	r   io.Reader
	log zerolog.Logger
}

func NewConsole(r io.Reader) *Console {
	return &Console{r: r, log: observability.Component("console")}
}

// Run forwards every valid line to press until ctx is done or the reader is
// exhausted. Unknown ids and rejected presses are logged and skipped.
func (c *Console) Run(ctx context.Context, press PressFunc) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			c.handle(line, press)
		}
	}
}

func (c *Console) handle(line string, press PressFunc) {
	if strings.TrimSpace(line) == "" {
		return
	}
	b, err := ParseButton(line)
	if err != nil {
		c.log.Warn().Str("input", line).Msg("ignored: expected a button 1-4")
		return
	}
	if err := press(b); err != nil {
		event := c.log.Warn()
		if errors.Is(err, context.Canceled) {
			event = c.log.Debug()
		}
		event.Err(err).Uint8("button", uint8(b)).Msg("press rejected")
		return
	}
	c.log.Debug().Uint8("button", uint8(b)).Msg("press queued")
}
