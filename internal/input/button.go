package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/canectl/internal/sim"
)

var ErrUnknownButton = errors.New("input: unknown button")

// ParseButton accepts "1".."4", optionally prefixed with "b" or "button".
func ParseButton(raw string) (sim.Button, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "button")
	s = strings.TrimPrefix(s, "b")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownButton, raw)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownButton, n)
	}
	b := sim.Button(n)
	if _, ok := sim.ModeForButton(b); !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownButton, n)
	}
	return b, nil
}
