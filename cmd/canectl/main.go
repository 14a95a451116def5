package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/canectl/internal/admin"
	"github.com/danmuck/canectl/internal/cane"
	"github.com/danmuck/canectl/internal/config"
	"github.com/danmuck/canectl/internal/input"
	"github.com/danmuck/canectl/internal/logging"
	"github.com/danmuck/canectl/internal/monitor"
	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/danmuck/canectl/internal/telemetry"
	"github.com/danmuck/canectl/internal/transport"
	"github.com/danmuck/canectl/internal/transport/ble"
	"github.com/danmuck/canectl/internal/transport/stub"
)

func main() {
	path := flag.String("config", "", "config path (defaults apply when empty)")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("canectl")

	if err := run(*path); err != nil {
		fmt.Fprintf(os.Stderr, "canectl: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	log := observability.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, closeSink, err := openTransport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	mon, err := monitor.New(cfg.Monitor)
	if err != nil {
		return err
	}
	ctrl := sim.NewController(
		telemetry.NewRandomSource(cfg.Seed),
		sim.WithIndicator(input.NewLED("led1")),
	)
	svc, err := cane.NewService(cfg.ServiceConfig(), ctrl, sink, cane.WithMonitor(mon))
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	if cfg.AdminAddr != "" {
		srv := admin.New(cfg.AdminConfig(), svc)
		go func() {
			errCh <- srv.Serve(ctx)
		}()
	}
	if cfg.ConsoleInput {
		log.Info().Msg("console input enabled: type 1-4 and press enter")
		go func() {
			if err := input.NewConsole(os.Stdin).Run(ctx, svc.Press); err != nil {
				log.Warn().Err(err).Msg("console input stopped")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- svc.Serve(ctx)
	}()

	select {
	case err := <-serveErr:
		return err
	case err := <-errCh:
		if err != nil {
			stop()
			<-serveErr
			return fmt.Errorf("admin: %w", err)
		}
		return <-serveErr
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func openTransport(ctx context.Context, cfg config.Config) (transport.Notifier, func(), error) {
	switch cfg.Transport {
	case config.TransportBLE:
		p := ble.New(cfg.BLEConfig())
		if err := p.Start(ctx); err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Stop() }, nil
	case config.TransportLoopback:
		return stub.New(), func() {}, nil
	default:
		return nil, nil, errors.New("unsupported transport: " + cfg.Transport)
	}
}
