package ble

import (
	"errors"
	"testing"

	"github.com/danmuck/canectl/internal/testutil/testlog"
	"github.com/danmuck/canectl/internal/transport"
)

type fakeHandle struct {
	writes [][]byte
	err    error
}

func (f *fakeHandle) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestDefaultConfigValidates(t *testing.T) {
	testlog.Start(t)

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	testlog.Start(t)

	cfg := DefaultConfig()
	cfg.ServiceUUID = "not-a-uuid"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidUUID) {
		t.Fatalf("expected ErrInvalidUUID, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.DeviceName = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestParseUUIDRoundTrip(t *testing.T) {
	testlog.Start(t)

	id, err := ParseUUID(" " + DefaultServiceUUID + " ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := id.String(); got != DefaultServiceUUID {
		t.Fatalf("unexpected uuid: %s", got)
	}
}

func TestNotifyBeforeStartIsUnavailable(t *testing.T) {
	testlog.Start(t)

	p := New(DefaultConfig())
	if err := p.Notify([]byte{1}); !errors.Is(err, transport.ErrTransportUnavailable) {
		t.Fatalf("expected ErrTransportUnavailable, got %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("stop before start: %v", err)
	}
}

func TestNotifyWritesCharacteristic(t *testing.T) {
	testlog.Start(t)

	h := &fakeHandle{}
	p := New(DefaultConfig())
	p.handle = h

	if err := p.Notify([]byte{0x05, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(h.writes) != 1 || len(h.writes[0]) != 6 {
		t.Fatalf("unexpected writes: %x", h.writes)
	}

	h.err = errors.New("no central")
	if err := p.Notify([]byte{1}); !errors.Is(err, transport.ErrTransportUnavailable) {
		t.Fatalf("expected ErrTransportUnavailable, got %v", err)
	}
}
