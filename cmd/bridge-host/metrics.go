//go:build linux || darwin

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buttonbridge-go/services/bridge"
	"buttonbridge-go/services/hal/gpioirq"
)

const metricsNamespace = "buttonbridge"

func newRegistry(b *bridge.Bridge, latch *gpioirq.Latch) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	counter := func(name, help string, pick func(bridge.StatsSnapshot) uint32) {
		reg.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Namespace: metricsNamespace, Name: name, Help: help},
			func() float64 { return float64(pick(b.Stats().Snapshot())) },
		))
	}

	counter("presses_total", "Logical button presses drained from the latch.",
		func(s bridge.StatsSnapshot) uint32 { return s.Presses })
	counter("telemetry_sent_total", "Telemetry datagrams sent.",
		func(s bridge.StatsSnapshot) uint32 { return s.TelemetrySent })
	counter("telemetry_failed_total", "Telemetry datagrams that failed to send.",
		func(s bridge.StatsSnapshot) uint32 { return s.TelemetryFailed })
	counter("control_received_total", "Inbound control datagrams received.",
		func(s bridge.StatsSnapshot) uint32 { return s.ControlRecv })
	counter("control_dropped_total", "Inbound control datagrams dropped as malformed.",
		func(s bridge.StatsSnapshot) uint32 { return s.ControlDropped })
	counter("control_ignored_total", "Inbound control datagrams with an unknown type.",
		func(s bridge.StatsSnapshot) uint32 { return s.ControlIgnored })
	counter("target_updates_total", "Accepted updateTarget commands.",
		func(s bridge.StatsSnapshot) uint32 { return s.TargetUpdates })
	counter("acks_sent_total", "updateTarget acknowledgements sent.",
		func(s bridge.StatsSnapshot) uint32 { return s.AcksSent })
	counter("acks_failed_total", "updateTarget acknowledgements that failed to send.",
		func(s bridge.StatsSnapshot) uint32 { return s.AcksFailed })
	counter("pings_answered_total", "udpPing replies sent.",
		func(s bridge.StatsSnapshot) uint32 { return s.PingsAnswered })
	counter("pings_failed_total", "udpPing replies that failed to send.",
		func(s bridge.StatsSnapshot) uint32 { return s.PingsFailed })

	reg.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "irq_coalesced_total",
			Help:      "Button edges absorbed by an already-pending notification.",
		},
		func() float64 { return float64(latch.Coalesced()) },
	))
	return reg
}

// serveMetrics blocks until ctx is done or the listener fails.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
