package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buttonbridge-go/x/jsonx"
)

func TestPressEmitsOneTelemetryDatagram(t *testing.T) {
	h, err := newHarness(testSettings())
	require.NoError(t, err)

	h.latch.Signal()
	h.latch.Signal()
	h.latch.Signal()
	start := h.clock.Now()
	h.b.pollPress()

	sent := h.out.Sent()
	require.Len(t, sent, 1, "edges between checks collapse into one press")
	assert.Equal(t, "192.168.0.104:33001", sent[0].addr.String())
	assert.JSONEq(t, `{"message":"test","meta":{"flow_name":"Flow Area 0.1","execution_area":"base"}}`, string(sent[0].data))

	assert.Equal(t, []bool{true, false}, h.pin.Levels(), "status pin pulses high then low")
	assert.Equal(t, 100*time.Millisecond, h.clock.Now().Sub(start), "pulse width")

	h.b.pollPress()
	assert.Len(t, h.out.Sent(), 1, "no press, no datagram")
}

func TestTelemetryFollowsCurrentTarget(t *testing.T) {
	h, err := newHarness(testSettings())
	require.NoError(t, err)

	require.NoError(t, h.b.dispatch([]byte(`{"type":"updateTarget","target_port_base":5000,"target":"10.0.0.42"}`), udp("10.0.0.7:40000")))
	h.latch.Signal()
	h.b.pollPress()

	sent := h.out.Sent()
	require.Len(t, sent, 11)
	assert.Equal(t, "10.0.0.42:8001", sent[10].addr.String())
}

func TestTelemetryUsesConfiguredMetadata(t *testing.T) {
	s := testSettings()
	s.FlowName = "Line 3"
	s.Area = "hall-b"
	s.Message = "press"
	h, err := newHarness(s)
	require.NoError(t, err)

	h.latch.Signal()
	h.b.pollPress()

	sent := h.out.Sent()
	require.Len(t, sent, 1)
	var got struct {
		Message string `json:"message"`
		Meta    struct {
			FlowName string `json:"flow_name"`
			Area     string `json:"execution_area"`
		} `json:"meta"`
	}
	require.NoError(t, jsonx.Unmarshal(sent[0].data, &got))
	assert.Equal(t, "press", got.Message)
	assert.Equal(t, "Line 3", got.Meta.FlowName)
	assert.Equal(t, "hall-b", got.Meta.Area)
}

func TestTelemetrySendFailureIsNotFatal(t *testing.T) {
	h, err := newHarness(testSettings())
	require.NoError(t, err)
	h.out.writeErr = errNetDown

	h.latch.Signal()
	h.b.pollPress()
	assert.Equal(t, []bool{true, false}, h.pin.Levels())
	assert.EqualValues(t, 1, h.b.Stats().Snapshot().TelemetryFailed)
	require.Len(t, h.log.Errors(), 1)
	assert.Contains(t, h.log.Errors()[0], "telemetry: send_failed: network is down")

	// The next press is a fresh attempt; nothing was queued for retry.
	h.out.writeErr = nil
	h.b.pollPress()
	assert.Empty(t, h.out.Sent())
	h.latch.Signal()
	h.b.pollPress()
	assert.Len(t, h.out.Sent(), 1)
}
