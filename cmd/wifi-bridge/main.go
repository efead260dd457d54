//go:build rp2040 && (challenger_rp2040 || ninafw)

// wifi-bridge is the firmware image for rp2040 boards with a netlink Wi-Fi
// module (Challenger RP2040 WiFi over espat, Nano RP2040 Connect over
// ninafw): button on GPIO12, status LED on GPIO17, logs on UART0.
package main

import (
	"context"
	"machine"
	"net"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"buttonbridge-go/services/bridge"
	"buttonbridge-go/services/config"
	"buttonbridge-go/services/hal"
	"buttonbridge-go/services/hal/gpioirq"
	"buttonbridge-go/x/logx"
)

const deviceID = "rp2040-wifi"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	uart := uartx.UART0
	if err := uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		// No log sink yet; the console is all that is left.
		println("fatal: uart:", err.Error())
		park()
	}
	log := logx.New(uart, "info")

	settings, err := config.ForDevice(deviceID)
	if err != nil {
		halt(log, "config", err)
	}

	claims := hal.NewClaims(hal.NewPinFactory())
	btn, err := claims.Claim("button", settings.ButtonPin)
	if err != nil {
		halt(log, "button pin", err)
	}
	status, err := claims.Claim("status", settings.StatusPin)
	if err != nil {
		halt(log, "status pin", err)
	}
	if err := status.ConfigureOutput(false); err != nil {
		halt(log, "status pin", err)
	}

	// The latch exists before the interrupt is enabled and is never replaced.
	latch := gpioirq.NewLatch()
	if _, err := gpioirq.Install(btn, latch); err != nil {
		halt(log, "button irq", err)
	}

	link, _ := probe.Probe()
	if err := link.NetConnect(&netlink.ConnectParams{
		Ssid:       settings.WiFi.SSID,
		Passphrase: settings.WiFi.PSK,
	}); err != nil {
		halt(log, "wifi", err)
	}
	log.Infof("wifi connected: ssid=%s", settings.WiFi.SSID)

	out, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(settings.OutboundPort)})
	if err != nil {
		halt(log, "bind outbound", err)
	}
	in, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(settings.InboundPort)})
	if err != nil {
		halt(log, "bind inbound", err)
	}
	log.Infof("socket bound")

	b, err := bridge.New(bridge.Deps{
		Settings: settings,
		Latch:    latch,
		Status:   status,
		Outbound: out,
		Inbound:  in,
		Log:      log,
	})
	if err != nil {
		halt(log, "bridge", err)
	}
	_ = b.Run(context.Background())
}

// halt reports a startup failure and parks the core; the device cannot do
// its job without the resource that failed.
func halt(log logx.Logger, what string, err error) {
	log.Errorf("fatal: %s: %v", what, err)
	park()
}

func park() {
	for {
		time.Sleep(time.Hour)
	}
}
