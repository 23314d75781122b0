package batch

import "github.com/nvpkt/e2d2go/e2derr"

// Combinator is the single operational interface every node in a
// chain implements. Act recurses to the parent first (so a Receive at
// the bottom of the chain always runs before anything downstream),
// then does this node's own per-tick work; Done recurses the same way
// to release whatever the tick left behind.
type Combinator interface {
	Act()
	Done()
	Capacity() int
	PayloadAt(slot int) ([]byte, bool)
	DropPackets(idx []int) (int, error)
	AdjustPayloadSize(slot, delta int) (int, error)
	AdjustHeadroom(slot, delta int) (int, error)

	// Root returns the Root backing this node's chain, so a new node
	// being built on top of this one can share its storage without
	// every constructor needing a separate Root argument.
	Root() *Root
}

// Keep and Drop name the two predicate outcomes for Filter: the
// predicate returns true to drop a packet, matching the reference
// convention ("true removes"). These constants exist so call sites
// read as a decision rather than a bare boolean.
const (
	Keep = false
	Drop = true
)

// base is embedded by every non-Root, non-Send node to provide the
// boilerplate delegation to the shared Root and parent.
type base struct {
	root   *Root
	parent Combinator
}

func (b *base) Capacity() int { return b.root.Capacity() }

func (b *base) Root() *Root { return b.root }

func (b *base) PayloadAt(slot int) ([]byte, bool) { return b.root.PayloadAt(slot) }

func (b *base) DropPackets(idx []int) (int, error) { return b.root.DropPackets(idx) }

func (b *base) AdjustPayloadSize(slot, delta int) (int, error) {
	return b.root.AdjustPayloadSize(slot, delta)
}

func (b *base) AdjustHeadroom(slot, delta int) (int, error) {
	return b.root.AdjustHeadroom(slot, delta)
}

func (b *base) Done() {
	if b.parent != nil {
		b.parent.Done()
	}
}

// sinkViolation panics with an e2derr.Violation for an operation that
// makes no sense on a sink node (Send): a sink has already handed its
// buffers to the driver by the time anything downstream could try to
// iterate, drop, or resize them.
func sinkViolation(op string) {
	e2derr.PanicViolation(op, "operation not permitted on a sink (Send) node")
}
