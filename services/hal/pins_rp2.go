//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"buttonbridge-go/errcode"
)

type rp2PinFactory struct{}

type rp2Pin struct {
	p machine.Pin
	n int
}

// NewPinFactory returns the RP2 GPIO bank.
func NewPinFactory() PinFactory { return rp2PinFactory{} }

func (rp2PinFactory) ByNumber(n int) (IRQPin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

func (r *rp2Pin) ConfigureInput(p Pull) error {
	var mode machine.PinMode
	switch p {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(b bool)  { r.p.Set(b) }
func (r *rp2Pin) Get() bool   { return r.p.Get() }
func (r *rp2Pin) Number() int { return r.n }

// SetIRQ wires handler to the pin's edge interrupt. The wrapper closure is
// allocated here, once, never in the interrupt path.
func (r *rp2Pin) SetIRQ(edge Edge, handler func()) error {
	var change machine.PinChange
	switch edge {
	case EdgeRising:
		change = machine.PinRising
	case EdgeFalling:
		change = machine.PinFalling
	case EdgeBoth:
		change = machine.PinToggle
	default:
		return r.ClearIRQ()
	}
	if err := r.p.SetInterrupt(change, func(machine.Pin) { handler() }); err != nil {
		return errcode.Wrap(errcode.IRQUnavailable, "set_irq", err)
	}
	return nil
}

func (r *rp2Pin) ClearIRQ() error {
	return r.p.SetInterrupt(0, nil)
}
