package bridge

import (
	"encoding/binary"
	"errors"
	"math"
	"net"
	"net/netip"
	"os"
	"strconv"
	"unicode/utf8"

	"buttonbridge-go/errcode"
	"buttonbridge-go/types"
	"buttonbridge-go/x/jsonx"
	"buttonbridge-go/x/timex"
)

// portKeepMod selects the low decimal digits of the default target port that
// survive an updateTarget.
const portKeepMod = 10000

// pollControl is the control-cadence step: one bounded receive, then dispatch.
func (b *Bridge) pollControl() {
	if err := b.in.SetReadDeadline(b.now().Add(b.recvTimeout)); err != nil {
		b.log.Debugf("set read deadline: %v", err)
	}
	n, src, err := b.in.ReadFrom(b.buf[:])
	if err != nil {
		if !isTimeout(err) {
			b.log.Debugf("inbound receive: %v", err)
		}
		return
	}
	inc(&b.stats.controlRecv)
	b.log.Infof("received data from %s: %s", src, b.buf[:n])

	if err := b.dispatch(b.buf[:n], src); err != nil {
		inc(&b.stats.controlDropped)
		b.log.Warnf("dropped control message from %s: %v", src, err)
	}
}

// dispatch decodes one datagram and runs its command. A non-nil error means
// the message was dropped; unknown or missing types are not errors.
func (b *Bridge) dispatch(raw []byte, src net.Addr) error {
	msg, err := decodeControl(raw)
	if err != nil {
		return err
	}
	kind, _ := msg[types.FieldType].(string)
	switch kind {
	case types.MsgUpdateTarget:
		return b.handleUpdateTarget(msg, src)
	case types.MsgUDPPing:
		return b.handlePing(msg)
	default:
		inc(&b.stats.controlIgnored)
		return nil
	}
}

func (b *Bridge) handleUpdateTarget(msg map[string]any, src net.Addr) error {
	port, err := EffectivePort(msg[types.FieldTargetPortBase], b.settings.TargetPort)
	if err != nil {
		return err
	}
	host, ok := msg[types.FieldTarget].(string)
	if !ok {
		return errcode.New(errcode.MissingField, types.MsgUpdateTarget, types.FieldTarget)
	}
	ap, err := netip.ParseAddrPort(net.JoinHostPort(unbracket(host), strconv.Itoa(int(port))))
	if err != nil {
		return errcode.Wrap(errcode.InvalidAddress, types.MsgUpdateTarget, err)
	}

	b.target.Set(ap)
	inc(&b.stats.targetUpdates)
	b.log.Infof("new target %s", ap)

	// Fixed burst: the protocol has no transport reliability and the peer
	// does not acknowledge acks.
	b.log.Infof("sending ack to %s: %s", src, b.ack)
	for i := 0; i < b.settings.AckRepeats; i++ {
		if err := b.sendTo("ack", b.ack, src); err != nil {
			inc(&b.stats.acksFailed)
			b.log.Errorf("ack %d to %s: %v", i+1, src, err)
			continue
		}
		inc(&b.stats.acksSent)
	}
	return nil
}

func (b *Bridge) handlePing(msg map[string]any) error {
	s, ok := msg[types.FieldReplyTo].(string)
	if !ok {
		return errcode.New(errcode.MissingField, types.MsgUDPPing, types.FieldReplyTo)
	}
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return errcode.Wrap(errcode.InvalidAddress, types.MsgUDPPing, err)
	}
	dst := net.UDPAddrFromAddrPort(ap)

	var reply [types.PingReplyLen]byte
	binary.BigEndian.PutUint64(reply[:], timex.MicrosSinceEpoch(b.now()))
	if err := b.sendTo(types.MsgUDPPing, reply[:], dst); err != nil {
		inc(&b.stats.pingsFailed)
		b.log.Errorf("ping reply to %s: %v", dst, err)
		return nil
	}
	inc(&b.stats.pingsAnswered)
	b.log.Infof("sent udp ping response to %s", dst)
	return nil
}

// EffectivePort combines a caller-supplied port base with the low four
// decimal digits of the configured default port:
// base + (defaultPort mod 10000). base must be a JSON number holding an
// integer in [0, 65535] and the sum must fit a port.
func EffectivePort(base any, defaultPort uint16) (uint16, error) {
	f, ok := base.(float64)
	if !ok {
		return 0, errcode.New(errcode.InvalidParams, types.MsgUpdateTarget, types.FieldTargetPortBase+" must be a number")
	}
	if f < 0 || f > math.MaxUint16 || f != math.Trunc(f) {
		return 0, errcode.New(errcode.InvalidParams, types.MsgUpdateTarget, types.FieldTargetPortBase+" out of range")
	}
	sum := uint32(f) + uint32(defaultPort%portKeepMod)
	if sum > math.MaxUint16 {
		return 0, errcode.New(errcode.PortOverflow, types.MsgUpdateTarget, strconv.FormatUint(uint64(sum), 10))
	}
	return uint16(sum), nil
}

// unbracket strips one pair of brackets so "[fd00::1]" and "fd00::1" name
// the same host.
func unbracket(host string) string {
	if len(host) >= 2 && host[0] == '[' && host[len(host)-1] == ']' {
		return host[1 : len(host)-1]
	}
	return host
}

func decodeControl(raw []byte) (map[string]any, error) {
	if !utf8.Valid(raw) {
		return nil, errcode.New(errcode.InvalidPayload, "decode", "not utf-8")
	}
	var msg map[string]any
	if err := jsonx.Unmarshal(raw, &msg); err != nil {
		return nil, errcode.Wrap(errcode.InvalidPayload, "decode", err)
	}
	if msg == nil {
		return nil, errcode.New(errcode.InvalidPayload, "decode", "not an object")
	}
	return msg, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
