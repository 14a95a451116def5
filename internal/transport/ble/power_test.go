package ble

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/canectl/internal/testutil/testlog"
)

type fakeRunner struct {
	calls []string
	out   string
	err   error
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return []byte(f.out), f.err
}

func TestSetAdapterPower(t *testing.T) {
	testlog.Start(t)

	r := &fakeRunner{}
	if err := SetAdapterPower(r, true); err != nil {
		t.Fatalf("power on: %v", err)
	}
	if err := SetAdapterPower(r, false); err != nil {
		t.Fatalf("power off: %v", err)
	}
	if len(r.calls) != 2 || r.calls[0] != "bluetoothctl power on" || r.calls[1] != "bluetoothctl power off" {
		t.Fatalf("unexpected commands: %v", r.calls)
	}
}

func TestSetAdapterPowerReportsOutput(t *testing.T) {
	testlog.Start(t)

	r := &fakeRunner{out: "No default controller available\n", err: errors.New("exit status 1")}
	err := SetAdapterPower(r, true)
	if err == nil || !strings.Contains(err.Error(), "No default controller available") {
		t.Fatalf("expected command output in error, got %v", err)
	}
}
