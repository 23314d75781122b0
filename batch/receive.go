package batch

import (
	"github.com/nvpkt/e2d2go/internal/logging"
	"github.com/nvpkt/e2d2go/pmd"
)

// Receive is the source node of a combinator chain: each Act call
// starts a fresh batch by filling Root from one queue of a pmd.Port.
type Receive struct {
	root     *Root
	port     *pmd.Port
	queue    int
	log      *logging.Logger
	received uint64
}

var _ Combinator = (*Receive)(nil)

// NewReceive builds a Receive node of the given capacity against
// port's queue.
func NewReceive(port *pmd.Port, queue int, capacity int) *Receive {
	return &Receive{root: NewRoot(capacity), port: port, queue: queue, log: logging.Default()}
}

// Root returns the backing Root, for combinators above this node in
// the chain to wrap.
func (rv *Receive) Root() *Root { return rv.root }

func (rv *Receive) Act() {
	rv.root.StartTick()
	n, err := rv.port.Recv(rv.queue, rv.root.RecvSlots())
	if err != nil {
		rv.log.Debug("batch: receive failed", "queue", rv.queue, "err", err)
		return
	}
	rv.root.CommitReceived(n)
	rv.received += uint64(n)
}

// Received returns how many buffers this node has pulled from the
// driver since construction.
func (rv *Receive) Received() uint64 { return rv.received }

// Done releases whatever this tick's Send node didn't consume. A
// correctly built chain (ending in Send) leaves nothing present by
// the time Done reaches here; StartTick on the next Act would also
// catch and count any leftovers, but Done accounts for them at the
// end of the tick they were actually produced in.
func (rv *Receive) Done() {
	leftover := 0
	for i := 0; i < rv.root.Capacity(); i++ {
		if rv.root.Present(i) {
			leftover++
		}
	}
	if leftover > 0 {
		rv.log.Warn("batch: buffers left unsent at Done", "queue", rv.queue, "count", leftover)
		for i := 0; i < rv.root.Capacity(); i++ {
			if rv.root.Present(i) {
				rv.root.DropSlots([]int{i})
			}
		}
	}
}

func (rv *Receive) Capacity() int { return rv.root.Capacity() }

func (rv *Receive) PayloadAt(slot int) ([]byte, bool) { return rv.root.PayloadAt(slot) }

func (rv *Receive) DropPackets(idx []int) (int, error) { return rv.root.DropPackets(idx) }

func (rv *Receive) AdjustPayloadSize(slot, delta int) (int, error) {
	return rv.root.AdjustPayloadSize(slot, delta)
}

func (rv *Receive) AdjustHeadroom(slot, delta int) (int, error) {
	return rv.root.AdjustHeadroom(slot, delta)
}
