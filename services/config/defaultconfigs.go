package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID passed to ForDevice.
// Val: raw JSON overlaid onto Default(). Wi-Fi credentials are filled in at
// build time; the checked-in values are placeholders.
// -----------------------------------------------------------------------------

const cfgRP2040WiFi = `{
  "area": "base",
  "flow_name": "Flow Area 0.1",
  "target_ip": "192.168.0.104",
  "target_port": 33001,
  "outbound_port": 29000,
  "inbound_port": 29001,
  "button_pin": 12,
  "status_pin": 17,
  "wifi": {
    "ssid": "",
    "psk": ""
  }
}`

const cfgBench = `{
  "area": "bench",
  "flow_name": "Bench Flow",
  "target_ip": "127.0.0.1",
  "timing": {
    "telemetry_interval_ms": 250,
    "pulse_ms": 20
  }
}`

var embeddedConfigs = map[string][]byte{
	"rp2040-wifi": []byte(cfgRP2040WiFi),
	"bench":       []byte(cfgBench),
}
