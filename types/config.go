package types

// Settings is the immutable startup record. It is decoded once, validated,
// and then only ever read.
type Settings struct {
	Area     string `json:"area" yaml:"area"`
	FlowName string `json:"flow_name" yaml:"flow_name"`
	Message  string `json:"message" yaml:"message"`

	// Default telemetry destination. An empty TargetIP selects the
	// built-in fallback address.
	TargetIP   string `json:"target_ip" yaml:"target_ip"`
	TargetPort uint16 `json:"target_port" yaml:"target_port"`

	OutboundPort uint16 `json:"outbound_port" yaml:"outbound_port"`
	InboundPort  uint16 `json:"inbound_port" yaml:"inbound_port"`

	ButtonPin int `json:"button_pin" yaml:"button_pin"`
	StatusPin int `json:"status_pin" yaml:"status_pin"`

	AckRepeats int    `json:"ack_repeats" yaml:"ack_repeats"`
	Timing     Timing `json:"timing" yaml:"timing"`

	WiFi WiFi `json:"wifi" yaml:"wifi"`

	// Host builds only.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// Timing holds the loop cadences and fixed delays, in milliseconds.
type Timing struct {
	ControlIntervalMs   int `json:"control_interval_ms" yaml:"control_interval_ms"`
	TelemetryIntervalMs int `json:"telemetry_interval_ms" yaml:"telemetry_interval_ms"`
	RecvTimeoutMs       int `json:"recv_timeout_ms" yaml:"recv_timeout_ms"`
	PulseMs             int `json:"pulse_ms" yaml:"pulse_ms"`
}

type WiFi struct {
	SSID string `json:"ssid" yaml:"ssid"`
	PSK  string `json:"psk" yaml:"psk"`
}
