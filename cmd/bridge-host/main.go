//go:build linux || darwin

// bridge-host runs the button bridge on a workstation. The button is a host
// pin driven by SIGUSR1; the status pin only logs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"buttonbridge-go/services/bridge"
	"buttonbridge-go/services/config"
	"buttonbridge-go/services/hal"
	"buttonbridge-go/services/hal/gpioirq"
	"buttonbridge-go/types"
	"buttonbridge-go/x/logx"
)

func main() {
	cfgPath := flag.String("config", "", "YAML settings file; embedded -device config when empty")
	device := flag.String("device", "bench", "embedded config name")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	log, sync, err := logx.New(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer sync()

	if err := run(log, *cfgPath, *device); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("bridge-host: %v", err)
		sync()
		os.Exit(1)
	}
}

func loadSettings(path, device string) (types.Settings, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.ForDevice(device)
}

func run(log logx.Logger, cfgPath, device string) error {
	settings, err := loadSettings(cfgPath, device)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	pins := hal.NewHostPinFactory()
	claims := hal.NewClaims(pins)
	btn, err := claims.Claim("button", settings.ButtonPin)
	if err != nil {
		return err
	}
	status, err := claims.Claim("status", settings.StatusPin)
	if err != nil {
		return err
	}
	if err := status.ConfigureOutput(false); err != nil {
		return err
	}

	latch := gpioirq.NewLatch()
	detach, err := gpioirq.Install(btn, latch)
	if err != nil {
		return fmt.Errorf("button irq: %w", err)
	}
	defer detach()

	out, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(settings.OutboundPort)})
	if err != nil {
		return fmt.Errorf("bind outbound: %w", err)
	}
	defer out.Close()
	in, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(settings.InboundPort)})
	if err != nil {
		return fmt.Errorf("bind inbound: %w", err)
	}
	defer in.Close()
	log.Infof("sockets bound: outbound=%s inbound=%s", out.LocalAddr(), in.LocalAddr())

	b, err := bridge.New(bridge.Deps{
		Settings: settings,
		Latch:    latch,
		Status:   loggedPin{GPIOPin: status, log: log},
		Outbound: out,
		Inbound:  in,
		Log:      log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fp, _ := pins.Get(settings.ButtonPin)
	go pressOnSignal(ctx, fp, log)

	if settings.MetricsAddr != "" {
		go func() {
			log.Infof("metrics on %s/metrics", settings.MetricsAddr)
			if err := serveMetrics(ctx, settings.MetricsAddr, newRegistry(b, latch)); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	return b.Run(ctx)
}

// pressOnSignal presses the host button once per SIGUSR1. The edge handler
// runs on this goroutine, which stands in for interrupt context.
func pressOnSignal(ctx context.Context, pin *hal.FakePin, log logx.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	defer signal.Stop(sig)
	log.Infof("send SIGUSR1 to pid %d to press the button", os.Getpid())
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			pin.Press()
		}
	}
}

type loggedPin struct {
	hal.GPIOPin
	log logx.Logger
}

func (p loggedPin) Set(level bool) {
	p.GPIOPin.Set(level)
	p.log.Debugf("status pin %d -> %t", p.Number(), level)
}
