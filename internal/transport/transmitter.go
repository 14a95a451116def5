package transport

import (
	"errors"
	"fmt"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/protocol/frame"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/rs/zerolog"
)

// Transmitter encodes a tick snapshot into one frame per channel and hands
// them to a Notifier.
type Transmitter struct {
	notifier Notifier
	log      zerolog.Logger
}

func NewTransmitter(n Notifier) *Transmitter {
	return &Transmitter{
		notifier: n,
		log:      observability.Component("transport"),
	}
}

// Send transmits all channels of snap in wire order, every frame tagged with
// snap.Mode. It returns the number of frames accepted and the joined failures.
// A failed channel never prevents the following channels from being sent.
func (t *Transmitter) Send(snap sim.Snapshot) (int, error) {
	tag := snap.Mode.Tag()
	sent := 0
	var errs []error

	for _, ch := range frame.Channels() {
		payload, err := frame.EncodeState(ch, snap.State, tag)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", ch, err))
			continue
		}
		if err := t.notify(payload); err != nil {
			observability.RecordTransportError(ch.String())
			t.log.Warn().
				Err(err).
				Stringer("channel", ch).
				Uint64("tick", snap.Tick).
				Msg("notify failed")
			errs = append(errs, fmt.Errorf("notify %s: %w", ch, err))
			continue
		}
		observability.RecordFrame(ch.String())
		t.log.Debug().
			Stringer("channel", ch).
			Uint8("mode_tag", tag).
			Hex("frame", payload).
			Msg("frame sent")
		sent++
	}
	return sent, errors.Join(errs...)
}

func (t *Transmitter) notify(payload []byte) error {
	if t.notifier == nil {
		return ErrTransportUnavailable
	}
	err := t.notifier.Notify(payload)
	if err == nil || errors.Is(err, ErrTransportUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
}
