// Package bridge turns button presses into UDP telemetry and serves the
// small UDP control protocol that retargets it.
//
// All work happens on the goroutine that calls Run (or Step). The only state
// shared with interrupt context is the gpioirq.Latch.
package bridge

import (
	"net"
	"time"

	"buttonbridge-go/errcode"
	"buttonbridge-go/services/config"
	"buttonbridge-go/services/hal/gpioirq"
	"buttonbridge-go/types"
	"buttonbridge-go/x/jsonx"
	"buttonbridge-go/x/logx"
	"buttonbridge-go/x/timex"
)

// recvBufLen bounds one inbound control datagram.
const recvBufLen = 1024

// PacketConn is the subset of *net.UDPConn the bridge uses.
type PacketConn interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
	WriteTo(p []byte, addr net.Addr) (n int, err error)
	SetReadDeadline(t time.Time) error
}

// StatusPin is the output pulsed on each press.
type StatusPin interface {
	Set(level bool)
}

// Deps are the resources the bridge is handed at startup. Sockets are
// already bound and the network is already up.
type Deps struct {
	Settings types.Settings
	Latch    *gpioirq.Latch
	Status   StatusPin
	Outbound PacketConn
	Inbound  PacketConn
	Log      logx.Logger

	// Optional; real clock and time.Sleep when nil.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Bridge owns the poll loop state: the Current Target, both cadences and the
// counters. All methods except Target and Stats belong to the loop goroutine.
type Bridge struct {
	settings types.Settings
	latch    *gpioirq.Latch
	status   StatusPin
	out      PacketConn
	in       PacketConn
	log      logx.Logger
	now      func() time.Time
	sleep    func(time.Duration)

	target Target
	stats  Stats

	ctl timex.Cadence
	tel timex.Cadence

	recvTimeout time.Duration
	pulse       time.Duration
	ack         []byte
	buf         [recvBufLen]byte
}

// New wires a bridge. The Current Target starts at the settings' default.
func New(d Deps) (*Bridge, error) {
	if d.Latch == nil || d.Status == nil || d.Outbound == nil || d.Inbound == nil {
		return nil, errcode.New(errcode.InvalidParams, "bridge_new", "latch, status pin and both sockets are required")
	}
	if err := config.Validate(d.Settings); err != nil {
		return nil, err
	}
	start, err := config.DefaultTarget(d.Settings)
	if err != nil {
		return nil, err
	}
	ack, err := jsonx.Marshal(types.Ack{Type: types.MsgUpdateTarget, Success: true})
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		settings:    d.Settings,
		latch:       d.Latch,
		status:      d.Status,
		out:         d.Outbound,
		in:          d.Inbound,
		log:         d.Log,
		now:         d.Now,
		sleep:       d.Sleep,
		recvTimeout: timex.Ms(d.Settings.Timing.RecvTimeoutMs),
		pulse:       timex.Ms(d.Settings.Timing.PulseMs),
		ack:         ack,
	}
	if b.log == nil {
		b.log = logx.Nop()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.sleep == nil {
		b.sleep = time.Sleep
	}
	b.target.Set(start)

	t0 := b.now()
	b.ctl = timex.NewCadence(timex.Ms(d.Settings.Timing.ControlIntervalMs), t0)
	b.tel = timex.NewCadence(timex.Ms(d.Settings.Timing.TelemetryIntervalMs), t0)
	return b, nil
}

// Target exposes the Current Target for diagnostics.
func (b *Bridge) Target() *Target { return &b.target }

// Stats exposes the loop counters; they are safe to read from any goroutine.
func (b *Bridge) Stats() *Stats { return &b.stats }

// sendTo writes one datagram on the outbound socket. Failures carry
// errcode.SendFailed.
func (b *Bridge) sendTo(op string, p []byte, dst net.Addr) error {
	if _, err := b.out.WriteTo(p, dst); err != nil {
		return errcode.Wrap(errcode.SendFailed, op, err)
	}
	return nil
}
