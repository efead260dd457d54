package config

import (
	"net/netip"

	"buttonbridge-go/errcode"
	"buttonbridge-go/types"
	"buttonbridge-go/x/jsonx"
)

// FallbackTargetIP is used when the settings carry no target address.
const FallbackTargetIP = "192.168.178.125"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Default returns the firmware's built-in settings.
func Default() types.Settings {
	return types.Settings{
		Area:         "base",
		FlowName:     "Flow Area 0.1",
		Message:      "test",
		TargetIP:     "192.168.0.104",
		TargetPort:   33001,
		OutboundPort: 29000,
		InboundPort:  29001,
		ButtonPin:    12,
		StatusPin:    17,
		AckRepeats:   10,
		Timing: types.Timing{
			ControlIntervalMs:   10,
			TelemetryIntervalMs: 2000,
			RecvTimeoutMs:       10,
			PulseMs:             100,
		},
	}
}

// Decode overlays a JSON document onto Default and validates the result.
// Fields absent from raw keep their defaults.
func Decode(raw []byte) (types.Settings, error) {
	s := Default()
	if len(raw) == 0 {
		return s, Validate(s)
	}
	if err := jsonx.Unmarshal(raw, &s); err != nil {
		return types.Settings{}, errcode.Wrap(errcode.InvalidPayload, "config_decode", err)
	}
	return s, Validate(s)
}

// ForDevice resolves and decodes the embedded config for device.
func ForDevice(device string) (types.Settings, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok {
		return types.Settings{}, errcode.New(errcode.InvalidParams, "config_lookup", "no embedded config for device: "+device)
	}
	return Decode(raw)
}

// Validate rejects settings the bridge cannot start with.
func Validate(s types.Settings) error {
	bad := func(msg string) error { return errcode.New(errcode.InvalidParams, "config_validate", msg) }

	switch {
	case s.TargetPort == 0:
		return bad("target_port must be set")
	case s.OutboundPort == 0 || s.InboundPort == 0:
		return bad("outbound_port and inbound_port must be set")
	case s.OutboundPort == s.InboundPort:
		return bad("outbound_port and inbound_port must differ")
	case s.ButtonPin < 0 || s.StatusPin < 0:
		return bad("pins must be non-negative")
	case s.ButtonPin == s.StatusPin:
		return bad("button_pin and status_pin must differ")
	case s.AckRepeats <= 0:
		return bad("ack_repeats must be positive")
	case s.Timing.ControlIntervalMs <= 0, s.Timing.TelemetryIntervalMs <= 0:
		return bad("cadence intervals must be positive")
	case s.Timing.RecvTimeoutMs <= 0:
		return bad("recv_timeout_ms must be positive")
	case s.Timing.PulseMs < 0:
		return bad("pulse_ms must not be negative")
	}
	if _, err := DefaultTarget(s); err != nil {
		return err
	}
	return nil
}

// DefaultTarget is the startup Current Target: TargetIP:TargetPort, or the
// fallback address when TargetIP is empty.
func DefaultTarget(s types.Settings) (netip.AddrPort, error) {
	ip := s.TargetIP
	if ip == "" {
		ip = FallbackTargetIP
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.AddrPort{}, errcode.Wrap(errcode.InvalidAddress, "config_target", err)
	}
	return netip.AddrPortFrom(addr, s.TargetPort), nil
}
