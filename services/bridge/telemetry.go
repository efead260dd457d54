package bridge

import (
	"buttonbridge-go/types"
	"buttonbridge-go/x/jsonx"
)

// pollPress is the telemetry-cadence step: drain the latch, then emit.
func (b *Bridge) pollPress() {
	if b.latch.TryTake() {
		inc(&b.stats.presses)
		b.log.Warnf("button pressed")
		b.emitPress()
	}
}

// emitPress pulses the status pin around one telemetry datagram. The payload
// is built from settings on every press.
func (b *Bridge) emitPress() {
	b.status.Set(true)
	defer b.status.Set(false)

	payload, err := jsonx.Marshal(types.Telemetry{
		Message: b.settings.Message,
		Meta: types.TelemetryMeta{
			FlowName:      b.settings.FlowName,
			ExecutionArea: b.settings.Area,
		},
	})
	if err != nil {
		b.log.Errorf("telemetry encode failed: %v", err)
		inc(&b.stats.telemetryFailed)
		return
	}

	dst := b.target.udpAddr()
	b.log.Infof("sending telemetry to %s: %s", dst, payload)
	if err := b.sendTo("telemetry", payload, dst); err != nil {
		b.log.Errorf("telemetry to %s: %v", dst, err)
		inc(&b.stats.telemetryFailed)
	} else {
		inc(&b.stats.telemetrySent)
	}

	b.sleep(b.pulse)
}
