package bridge

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"buttonbridge-go/services/config"
	"buttonbridge-go/services/hal/gpioirq"
	"buttonbridge-go/types"
)

type datagram struct {
	data []byte
	addr net.Addr
}

// fakeConn is an in-memory PacketConn. ReadFrom honours the read deadline
// with the real clock; WriteTo records every datagram.
type fakeConn struct {
	mu       sync.Mutex
	inbox    chan datagram
	sent     []datagram
	deadline time.Time
	writeErr error
	// flood makes every ReadFrom return a copy of this datagram at once.
	flood *datagram
}

func newFakeConn() *fakeConn { return &fakeConn{inbox: make(chan datagram, 64)} }

func (c *fakeConn) push(data string, from net.Addr) {
	c.inbox <- datagram{data: []byte(data), addr: from}
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.deadline = t
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) {
	c.mu.Lock()
	dl, flood := c.deadline, c.flood
	c.mu.Unlock()
	if flood != nil {
		return copy(p, flood.data), flood.addr, nil
	}
	wait := time.Until(dl)
	if wait < 0 {
		wait = 0
	}
	select {
	case d := <-c.inbox:
		return copy(p, d.data), d.addr, nil
	case <-time.After(wait):
		return 0, nil, os.ErrDeadlineExceeded
	}
}

func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.sent = append(c.sent, datagram{data: append([]byte(nil), p...), addr: addr})
	return len(p), nil
}

func (c *fakeConn) Sent() []datagram {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]datagram(nil), c.sent...)
}

// recordPin records every level written to it.
type recordPin struct {
	mu     sync.Mutex
	levels []bool
}

func (p *recordPin) Set(level bool) {
	p.mu.Lock()
	p.levels = append(p.levels, level)
	p.mu.Unlock()
}

func (p *recordPin) Levels() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.levels...)
}

// recordLog keeps Error-level lines; the rest are discarded.
type recordLog struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordLog) Debugf(string, ...any) {}
func (l *recordLog) Infof(string, ...any)  {}
func (l *recordLog) Warnf(string, ...any)  {}

func (l *recordLog) Errorf(template string, args ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, fmt.Sprintf(template, args...))
	l.mu.Unlock()
}

func (l *recordLog) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

// fakeClock is advanced by hand and by the bridge's sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type harness struct {
	b     *Bridge
	latch *gpioirq.Latch
	pin   *recordPin
	out   *fakeConn
	in    *fakeConn
	clock *fakeClock
	log   *recordLog
}

var errNetDown = errors.New("network is down")

func testSettings() types.Settings {
	s := config.Default()
	s.TargetIP = "192.168.0.104"
	s.TargetPort = 33001
	return s
}

func newHarness(s types.Settings) (*harness, error) {
	h := &harness{
		latch: gpioirq.NewLatch(),
		pin:   &recordPin{},
		out:   newFakeConn(),
		in:    newFakeConn(),
		clock: &fakeClock{t: time.Unix(1_700_000_000, 0)},
		log:   &recordLog{},
	}
	b, err := New(Deps{
		Settings: s,
		Latch:    h.latch,
		Status:   h.pin,
		Outbound: h.out,
		Inbound:  h.in,
		Log:      h.log,
		Now:      h.clock.Now,
		Sleep:    h.clock.Advance,
	})
	h.b = b
	return h, err
}

func udp(s string) *net.UDPAddr { return net.UDPAddrFromAddrPort(mustAddrPort(s)) }
