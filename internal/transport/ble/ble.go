// Package ble exposes the cane frames as notifications on a GATT characteristic.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"
)

const (
	DefaultDeviceName         = "Cane Sensor"
	DefaultServiceUUID        = "12345678-1234-5678-1234-56789abcdef0"
	DefaultCharacteristicUUID = "abcdef12-3456-7890-1234-56789abcdef1"
)

var (
	ErrInvalidUUID    = errors.New("ble: invalid uuid")
	ErrEmptyName      = errors.New("ble: empty device name")
	ErrAlreadyStarted = errors.New("ble: peripheral already started")
)

type Config struct {
	DeviceName         string
	ServiceUUID        string
	CharacteristicUUID string
	// PowerOn switches the host adapter on with bluetoothctl before enabling it.
	PowerOn bool
	Backoff Backoff
}

func DefaultConfig() Config {
	return Config{
		DeviceName:         DefaultDeviceName,
		ServiceUUID:        DefaultServiceUUID,
		CharacteristicUUID: DefaultCharacteristicUUID,
		Backoff:            DefaultBackoff(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DeviceName) == "" {
		return ErrEmptyName
	}
	if _, err := ParseUUID(c.ServiceUUID); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if _, err := ParseUUID(c.CharacteristicUUID); err != nil {
		return fmt.Errorf("characteristic: %w", err)
	}
	return nil
}

// ParseUUID converts a 128-bit textual UUID into the radio stack representation.
func ParseUUID(raw string) (bluetooth.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return bluetooth.UUID{}, fmt.Errorf("%w: %q: %v", ErrInvalidUUID, raw, err)
	}
	return bluetooth.NewUUID(id), nil
}

// characteristic is the part of a GATT handle the peripheral writes to.
type characteristic interface {
	Write(p []byte) (int, error)
}

// Peripheral advertises one service carrying one read+notify characteristic.
type Peripheral struct {
	cfg     Config
	adapter *bluetooth.Adapter
	runner  CommandRunner

	mu     sync.Mutex
	handle characteristic
	adv    *bluetooth.Advertisement
	log    zerolog.Logger
}

var _ transport.Notifier = (*Peripheral)(nil)

func New(cfg Config) *Peripheral {
	return &Peripheral{
		cfg:     cfg,
		adapter: bluetooth.DefaultAdapter,
		runner:  ExecRunner{},
		log:     observability.Component("ble"),
	}
}

// Start enables the adapter, registers the GATT service and begins advertising.
// Adapter bring-up is retried with the configured backoff.
func (p *Peripheral) Start(ctx context.Context) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	serviceUUID, _ := ParseUUID(p.cfg.ServiceUUID)
	charUUID, _ := ParseUUID(p.cfg.CharacteristicUUID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		return ErrAlreadyStarted
	}

	err := retry(ctx, p.cfg.Backoff, "ble: enable adapter", p.log, func() error {
		if p.cfg.PowerOn {
			if err := SetAdapterPower(p.runner, true); err != nil {
				return err
			}
		}
		return p.adapter.Enable()
	})
	if err != nil {
		return err
	}

	var handle bluetooth.Characteristic
	err = p.adapter.AddService(&bluetooth.Service{
		UUID: serviceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &handle,
				UUID:   charUUID,
				Value:  make([]byte, 0, 14),
				Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicNotifyPermission,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ble: add service: %w", err)
	}

	adv := p.adapter.DefaultAdvertisement()
	err = adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    p.cfg.DeviceName,
		ServiceUUIDs: []bluetooth.UUID{serviceUUID},
	})
	if err != nil {
		return fmt.Errorf("ble: configure advertisement: %w", err)
	}
	if err := adv.Start(); err != nil {
		return fmt.Errorf("ble: start advertising: %w", err)
	}

	p.handle = &handle
	p.adv = adv
	p.log.Info().
		Str("name", p.cfg.DeviceName).
		Str("service", p.cfg.ServiceUUID).
		Str("characteristic", p.cfg.CharacteristicUUID).
		Msg("advertising")
	return nil
}

// Notify writes one frame to the characteristic, notifying subscribed centrals.
func (p *Peripheral) Notify(payload []byte) error {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()
	if handle == nil {
		return transport.ErrTransportUnavailable
	}
	if _, err := handle.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrTransportUnavailable, err)
	}
	return nil
}

// Stop halts advertising. Notify fails afterwards.
func (p *Peripheral) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = nil
	if p.adv == nil {
		return nil
	}
	err := p.adv.Stop()
	p.adv = nil
	if err != nil {
		return fmt.Errorf("ble: stop advertising: %w", err)
	}
	p.log.Info().Msg("advertising stopped")
	return nil
}
