package ble

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs a host command and returns its combined output.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return nil, fmt.Errorf("ble: %s not available: %w", name, err)
	}
	return out.Bytes(), err
}

// SetAdapterPower switches the host controller through bluetoothctl.
func SetAdapterPower(r CommandRunner, on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	out, err := r.Run("bluetoothctl", "power", state)
	if err != nil {
		return fmt.Errorf("ble: power %s: %w (%s)", state, err, strings.TrimSpace(string(out)))
	}
	return nil
}
