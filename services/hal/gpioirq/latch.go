// Package gpioirq hands button interrupts to the poll loop.
//
// A Latch is a depth-1 notification slot. The interrupt handler posts into it
// without blocking; the loop drains it with a zero-wait receive. Edges that
// arrive while a notification is pending collapse into it.
package gpioirq

import (
	"sync/atomic"

	"buttonbridge-go/errcode"
	"buttonbridge-go/services/hal"
)

type Latch struct {
	// Written by ISR; MUST NOT block the ISR.
	slot chan struct{}

	coalesced uint32 // edges absorbed by an already-pending notification
}

// NewLatch creates the slot. Create it once, before any IRQ is enabled,
// and pass it to both Install and the consumer.
func NewLatch() *Latch {
	return &Latch{slot: make(chan struct{}, 1)}
}

// Signal is the interrupt-context post. Non-blocking and allocation-free.
func (l *Latch) Signal() {
	select {
	case l.slot <- struct{}{}:
	default:
		atomic.AddUint32(&l.coalesced, 1)
	}
}

// TryTake reports whether a notification was pending and clears it.
// It never waits.
func (l *Latch) TryTake() bool {
	select {
	case _, ok := <-l.slot:
		return ok
	default:
		return false
	}
}

func (l *Latch) Coalesced() uint32 { return atomic.LoadUint32(&l.coalesced) }

// Install configures pin as a pulled-up input and routes its falling edge
// (button down) into l. The returned func detaches the handler.
// Errors here leave the device without its input and are fatal to callers.
func Install(pin hal.IRQPin, l *Latch) (func(), error) {
	if pin == nil || l == nil {
		return nil, errcode.New(errcode.InvalidParams, "install", "nil pin or latch")
	}
	if err := pin.ConfigureInput(hal.PullUp); err != nil {
		return nil, errcode.Wrap(errcode.IRQUnavailable, "configure_input", err)
	}
	if err := pin.SetIRQ(hal.EdgeFalling, l.Signal); err != nil {
		return nil, errcode.Wrap(errcode.IRQUnavailable, "set_irq", err)
	}
	return func() { _ = pin.ClearIRQ() }, nil
}
