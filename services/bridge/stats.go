package bridge

import "sync/atomic"

// Stats are monotonically increasing counters, safe to read from any
// goroutine while the loop runs.
type Stats struct {
	presses         uint32
	telemetrySent   uint32
	telemetryFailed uint32
	controlRecv     uint32
	controlDropped  uint32
	controlIgnored  uint32
	targetUpdates   uint32
	acksSent        uint32
	acksFailed      uint32
	pingsAnswered   uint32
	pingsFailed     uint32
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Presses         uint32
	TelemetrySent   uint32
	TelemetryFailed uint32
	ControlRecv     uint32
	ControlDropped  uint32
	ControlIgnored  uint32
	TargetUpdates   uint32
	AcksSent        uint32
	AcksFailed      uint32
	PingsAnswered   uint32
	PingsFailed     uint32
}

func inc(p *uint32) { atomic.AddUint32(p, 1) }

func (s *Stats) Snapshot() StatsSnapshot {
	ld := atomic.LoadUint32
	return StatsSnapshot{
		Presses:         ld(&s.presses),
		TelemetrySent:   ld(&s.telemetrySent),
		TelemetryFailed: ld(&s.telemetryFailed),
		ControlRecv:     ld(&s.controlRecv),
		ControlDropped:  ld(&s.controlDropped),
		ControlIgnored:  ld(&s.controlIgnored),
		TargetUpdates:   ld(&s.targetUpdates),
		AcksSent:        ld(&s.acksSent),
		AcksFailed:      ld(&s.acksFailed),
		PingsAnswered:   ld(&s.pingsAnswered),
		PingsFailed:     ld(&s.pingsFailed),
	}
}
