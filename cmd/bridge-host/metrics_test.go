//go:build linux || darwin

package main

import (
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buttonbridge-go/services/bridge"
	"buttonbridge-go/services/config"
	"buttonbridge-go/services/hal"
	"buttonbridge-go/services/hal/gpioirq"
)

type discardConn struct{}

func (discardConn) ReadFrom([]byte) (int, net.Addr, error)    { return 0, nil, io.EOF }
func (discardConn) WriteTo(p []byte, _ net.Addr) (int, error) { return len(p), nil }
func (discardConn) SetReadDeadline(time.Time) error           { return nil }

func TestRegistryExportsCounters(t *testing.T) {
	s := config.Default()
	latch := gpioirq.NewLatch()
	b, err := bridge.New(bridge.Deps{
		Settings: s,
		Latch:    latch,
		Status:   hal.NewFakePin(s.StatusPin),
		Outbound: discardConn{},
		Inbound:  discardConn{},
		Sleep:    func(time.Duration) {},
	})
	require.NoError(t, err)

	latch.Signal()
	latch.Signal()
	reg := newRegistry(b, latch)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "buttonbridge_irq_coalesced_total 1")
	assert.Contains(t, string(body), "buttonbridge_presses_total 0")
}

func TestLoadSettingsEmbedded(t *testing.T) {
	s, err := loadSettings("", "bench")
	require.NoError(t, err)
	assert.Equal(t, "bench", s.Area)

	_, err = loadSettings("", "no-such-device")
	assert.Error(t, err)
}
