package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/canectl/internal/admin"
	"github.com/danmuck/canectl/internal/cane"
	"github.com/danmuck/canectl/internal/monitor"
	"github.com/danmuck/canectl/internal/transport/ble"
	"github.com/google/uuid"
)

const (
	TransportBLE      = "ble"
	TransportLoopback = "loopback"
)

var (
	ErrUnknownTransport    = errors.New("config: unknown transport")
	ErrInvalidUUID         = errors.New("config: invalid uuid")
	ErrInvalidTickInterval = errors.New("config: invalid tick interval")
	ErrMissingDeviceName   = errors.New("config: missing device name")
)

// Config is the resolved runtime configuration of canectl.
type Config struct {
	DeviceName         string
	TickInterval       time.Duration
	Transport          string
	ServiceUUID        string
	CharacteristicUUID string
	BLEPowerOn         bool
	AdminAddr          string
	AdminToken         string
	CorsOrigins        []string
	ConsoleInput       bool
	Seed               int64
	Monitor            monitor.Config
}

func Default() Config {
	bleCfg := ble.DefaultConfig()
	return Config{
		DeviceName:         bleCfg.DeviceName,
		TickInterval:       cane.DefaultServiceConfig().TickInterval,
		Transport:          TransportLoopback,
		ServiceUUID:        bleCfg.ServiceUUID,
		CharacteristicUUID: bleCfg.CharacteristicUUID,
		AdminAddr:          "127.0.0.1:7020",
		CorsOrigins:        []string{"http://localhost:3000"},
		ConsoleInput:       true,
		Seed:               0,
		Monitor:            monitor.DefaultConfig(),
	}
}

// File mirrors the on-disk TOML layout.
type File struct {
	DeviceName         string      `toml:"device_name"`
	TickInterval       string      `toml:"tick_interval"`
	TickIntervalMS     int64       `toml:"tick_interval_ms,omitempty"`
	Transport          string      `toml:"transport"`
	ServiceUUID        string      `toml:"service_uuid"`
	CharacteristicUUID string      `toml:"characteristic_uuid"`
	BLEPowerOn         bool        `toml:"ble_power_on"`
	AdminAddr          string      `toml:"admin_addr"`
	AdminToken         string      `toml:"admin_token"`
	CorsOrigins        []string    `toml:"cors_origins"`
	ConsoleInput       bool        `toml:"console_input"`
	Seed               int64       `toml:"seed"`
	Monitor            MonitorFile `toml:"monitor"`
}

type MonitorFile struct {
	Window            int     `toml:"window"`
	VarianceThreshold float64 `toml:"variance_threshold"`
	DeltaThreshold    float64 `toml:"delta_threshold"`
	DurationThreshold int     `toml:"duration_threshold"`
}

// Load applies the keys present in path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw File
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config (%s): %w", path, err)
	}

	if meta.IsDefined("device_name") {
		cfg.DeviceName = strings.TrimSpace(raw.DeviceName)
	}
	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}
	if meta.IsDefined("tick_interval_ms") {
		cfg.TickInterval = time.Duration(raw.TickIntervalMS) * time.Millisecond
	}
	if meta.IsDefined("transport") {
		cfg.Transport = strings.ToLower(strings.TrimSpace(raw.Transport))
	}
	if meta.IsDefined("service_uuid") {
		cfg.ServiceUUID = strings.TrimSpace(raw.ServiceUUID)
	}
	if meta.IsDefined("characteristic_uuid") {
		cfg.CharacteristicUUID = strings.TrimSpace(raw.CharacteristicUUID)
	}
	if meta.IsDefined("ble_power_on") {
		cfg.BLEPowerOn = raw.BLEPowerOn
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("admin_token") {
		cfg.AdminToken = strings.TrimSpace(raw.AdminToken)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeList(raw.CorsOrigins)
	}
	if meta.IsDefined("console_input") {
		cfg.ConsoleInput = raw.ConsoleInput
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("monitor", "window") {
		cfg.Monitor.Window = raw.Monitor.Window
	}
	if meta.IsDefined("monitor", "variance_threshold") {
		cfg.Monitor.VarianceThreshold = raw.Monitor.VarianceThreshold
	}
	if meta.IsDefined("monitor", "delta_threshold") {
		cfg.Monitor.DeltaThreshold = raw.Monitor.DeltaThreshold
	}
	if meta.IsDefined("monitor", "duration_threshold") {
		cfg.Monitor.DurationThreshold = raw.Monitor.DurationThreshold
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DeviceName) == "" {
		return ErrMissingDeviceName
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTickInterval, cfg.TickInterval)
	}
	switch cfg.Transport {
	case TransportBLE, TransportLoopback:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
	if _, err := uuid.Parse(cfg.ServiceUUID); err != nil {
		return fmt.Errorf("%w: service_uuid %q", ErrInvalidUUID, cfg.ServiceUUID)
	}
	if _, err := uuid.Parse(cfg.CharacteristicUUID); err != nil {
		return fmt.Errorf("%w: characteristic_uuid %q", ErrInvalidUUID, cfg.CharacteristicUUID)
	}
	if err := cfg.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

func (c Config) ServiceConfig() cane.ServiceConfig {
	svc := cane.DefaultServiceConfig()
	svc.DeviceName = c.DeviceName
	svc.TickInterval = c.TickInterval
	return svc
}

func (c Config) BLEConfig() ble.Config {
	out := ble.DefaultConfig()
	out.DeviceName = c.DeviceName
	out.ServiceUUID = c.ServiceUUID
	out.CharacteristicUUID = c.CharacteristicUUID
	out.PowerOn = c.BLEPowerOn
	return out
}

func (c Config) AdminConfig() admin.Config {
	return admin.Config{
		Name:        c.DeviceName,
		Addr:        c.AdminAddr,
		CorsOrigins: c.CorsOrigins,
		Token:       c.AdminToken,
	}
}

// ToFile converts a resolved config back to its on-disk form.
func (c Config) ToFile() File {
	return File{
		DeviceName:         c.DeviceName,
		TickInterval:       c.TickInterval.String(),
		Transport:          c.Transport,
		ServiceUUID:        c.ServiceUUID,
		CharacteristicUUID: c.CharacteristicUUID,
		BLEPowerOn:         c.BLEPowerOn,
		AdminAddr:          c.AdminAddr,
		AdminToken:         c.AdminToken,
		CorsOrigins:        c.CorsOrigins,
		ConsoleInput:       c.ConsoleInput,
		Seed:               c.Seed,
		Monitor: MonitorFile{
			Window:            c.Monitor.Window,
			VarianceThreshold: c.Monitor.VarianceThreshold,
			DeltaThreshold:    c.Monitor.DeltaThreshold,
			DurationThreshold: c.Monitor.DurationThreshold,
		},
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
