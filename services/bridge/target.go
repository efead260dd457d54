package bridge

import (
	"net"
	"net/netip"
	"sync/atomic"
)

// Target is the live telemetry destination. Only the loop goroutine writes
// it; readers on other goroutines see whole values.
type Target struct {
	v atomic.Value // stores netip.AddrPort
}

func (t *Target) Get() netip.AddrPort {
	ap, _ := t.v.Load().(netip.AddrPort)
	return ap
}

func (t *Target) Set(ap netip.AddrPort) { t.v.Store(ap) }

func (t *Target) udpAddr() *net.UDPAddr { return net.UDPAddrFromAddrPort(t.Get()) }
