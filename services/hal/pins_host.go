//go:build !rp2040 && !rp2350

package hal

import "sync"

// FakePin implements IRQPin for host builds and tests. Level changes made
// through Set invoke the IRQ handler synchronously when the configured edge
// matches, standing in for the hardware interrupt.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	irqEdge Edge
	irqFunc func()
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

// ConfigureInput with PullUp idles the line high, as on hardware.
func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	switch pull {
	case PullUp:
		p.level = true
	case PullDown:
		p.level = false
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// Press pulls an active-low button line down and lets it go again,
// producing one falling and one rising edge.
func (p *FakePin) Press() {
	p.Set(false)
	p.Set(true)
}

func edgeFrom(old, new bool) Edge {
	switch {
	case !old && new:
		return EdgeRising
	case old && !new:
		return EdgeFalling
	default:
		return EdgeNone
	}
}

func irqWanted(cfg, seen Edge) bool {
	switch cfg {
	case EdgeBoth:
		return seen == EdgeRising || seen == EdgeFalling
	case EdgeNone:
		return false
	default:
		return cfg == seen
	}
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func NewHostPinFactory() *HostPinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin)}
}

// NewPinFactory provides the host GPIO bank.
func NewPinFactory() PinFactory { return NewHostPinFactory() }

func (f *HostPinFactory) ByNumber(n int) (IRQPin, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin (e.g. to drive edges).
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}
