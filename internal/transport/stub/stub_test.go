package stub

import (
	"errors"
	"testing"

	"github.com/danmuck/canectl/internal/testutil/testlog"
	"github.com/danmuck/canectl/internal/transport"
)

func TestSinkCopiesFrames(t *testing.T) {
	testlog.Start(t)

	s := New()
	buf := []byte{0x05, 1, 2, 3, 4, 1}
	if err := s.Notify(buf); err != nil {
		t.Fatalf("notify: %v", err)
	}
	buf[1] = 0xff

	frames := s.Frames()
	if len(frames) != 1 || frames[0][1] != 1 {
		t.Fatalf("expected stored copy, got %x", frames)
	}
	frames[0][2] = 0xff
	if again := s.Frames(); again[0][2] != 2 {
		t.Fatalf("snapshot leaked internal buffer")
	}
}

func TestSinkUnsubscribedRejects(t *testing.T) {
	testlog.Start(t)

	s := New()
	s.SetSubscribed(false)
	if err := s.Notify([]byte{1}); !errors.Is(err, transport.ErrTransportUnavailable) {
		t.Fatalf("expected ErrTransportUnavailable, got %v", err)
	}
	s.SetSubscribed(true)
	if err := s.Notify([]byte{1}); err != nil {
		t.Fatalf("notify after resubscribe: %v", err)
	}
	if s.Notified() != 1 {
		t.Fatalf("unexpected notified count: %d", s.Notified())
	}
}

func TestSinkRingDropsOldest(t *testing.T) {
	testlog.Start(t)

	s := New()
	for i := 0; i < ringCapacity+6; i++ {
		if err := s.Notify([]byte{byte(i)}); err != nil {
			t.Fatalf("notify %d: %v", i, err)
		}
	}
	frames := s.Frames()
	if len(frames) != ringCapacity {
		t.Fatalf("unexpected retained count: %d", len(frames))
	}
	if frames[0][0] != 6 || frames[len(frames)-1][0] != byte(ringCapacity+5) {
		t.Fatalf("unexpected ring order: first=%d last=%d", frames[0][0], frames[len(frames)-1][0])
	}
	if s.Notified() != uint64(ringCapacity+6) {
		t.Fatalf("unexpected notified count: %d", s.Notified())
	}

	first, ok := s.Next()
	if !ok || first[0] != 6 {
		t.Fatalf("unexpected pop: %v %v", first, ok)
	}
	s.Reset()
	if _, ok := s.Next(); ok {
		t.Fatalf("expected empty ring after reset")
	}
}
