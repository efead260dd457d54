// Package hal is the narrow platform layer the bridge needs: digital pins,
// edge interrupts and pin ownership. Concrete pins come from the rp2 or host
// factories selected by build tags.
package hal

import (
	"sync"

	"buttonbridge-go/errcode"
)

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on hardware: it must not block or allocate.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies pins by the board's numbering scheme.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

// Claims tracks which owner holds each pin so two roles cannot share one.
type Claims struct {
	mu     sync.Mutex
	f      PinFactory
	owners map[int]string
}

func NewClaims(f PinFactory) *Claims {
	return &Claims{f: f, owners: make(map[int]string)}
}

// Claim hands pin n to owner. Claiming a pin held by a different owner
// fails with errcode.PinInUse; re-claiming by the same owner is allowed.
func (c *Claims) Claim(owner string, n int) (IRQPin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.owners[n]; ok && cur != owner {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "claim", Msg: owner + " wants pin held by " + cur}
	}
	p, ok := c.f.ByNumber(n)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "claim", Msg: owner}
	}
	c.owners[n] = owner
	return p, nil
}

func (c *Claims) Release(owner string, n int) {
	c.mu.Lock()
	if c.owners[n] == owner {
		delete(c.owners, n)
	}
	c.mu.Unlock()
}
