package types

// Inbound control message discriminators.
const (
	MsgUpdateTarget = "updateTarget"
	MsgUDPPing      = "udpPing"
)

// Inbound field names.
const (
	FieldType           = "type"
	FieldTargetPortBase = "target_port_base"
	FieldTarget         = "target"
	FieldReplyTo        = "replyTo"
)

// Telemetry is the datagram sent on a button press.
type Telemetry struct {
	Message string        `json:"message"`
	Meta    TelemetryMeta `json:"meta"`
}

type TelemetryMeta struct {
	FlowName      string `json:"flow_name"`
	ExecutionArea string `json:"execution_area"`
}

// Ack acknowledges an updateTarget command.
type Ack struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

// PingReplyLen is the size of a udpPing reply: big-endian uint64 µs since epoch.
const PingReplyLen = 8
