package transport

import (
	"errors"
	"fmt"
)

var ErrTransportUnavailable = errors.New("transport: unavailable")

// Notifier pushes one encoded frame to a subscriber.
type Notifier interface {
	Notify(payload []byte) error
}

type NotifierFunc func(payload []byte) error

func (f NotifierFunc) Notify(payload []byte) error {
	return f(payload)
}

// Fanout delivers every frame to each sink in order. A failing sink does not
// stop delivery to the remaining sinks; failures are joined.
type Fanout []Notifier

func (f Fanout) Notify(payload []byte) error {
	var errs []error
	for i, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(payload); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
