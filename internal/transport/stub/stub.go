// Package stub is an in-memory notification sink for host runs and tests.
package stub

import (
	"sync"

	"github.com/danmuck/canectl/internal/transport"
)

// Sink records notified frames in a bounded ring. It starts subscribed.
type Sink struct {
	mu           sync.Mutex
	frames       ringBuffer
	unsubscribed bool
	notified     uint64
}

func New() *Sink { return &Sink{} }

func (s *Sink) Notify(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribed {
		return transport.ErrTransportUnavailable
	}
	frame := make([]byte, len(payload))
	copy(frame, payload)
	s.frames.push(frame)
	s.notified++
	return nil
}

// SetSubscribed models a central enabling or disabling notifications.
func (s *Sink) SetSubscribed(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribed = !on
}

// Frames returns copies of the retained frames, oldest first.
func (s *Sink) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.snapshot()
}

// Next pops the oldest retained frame.
func (s *Sink) Next() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.pop()
}

// Notified counts every accepted frame, including ones evicted from the ring.
func (s *Sink) Notified() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}

func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = ringBuffer{}
	s.notified = 0
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// overwrite oldest
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, 0, rb.count)
	for c, i := 0, rb.head; c < rb.count; c, i = c+1, (i+1)%ringCapacity {
		cp := make([]byte, len(rb.data[i]))
		copy(cp, rb.data[i])
		out = append(out, cp)
	}
	return out
}
