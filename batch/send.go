package batch

import (
	"github.com/nvpkt/e2d2go/internal/logging"
	"github.com/nvpkt/e2d2go/pmd"
)

// Send is the sink node of a combinator chain: each Act call gathers
// every packet still present in the batch and offers it to one queue
// of a pmd.Port.
//
// Partial-send policy: when the driver accepts fewer buffers than
// offered, the unaccepted tail is dropped and counted in the Root's
// dropped counter rather than retried. The core never retries a send;
// a caller wanting retry semantics composes it above this node.
//
// Send is a true sink: every Combinator method other than Act/Done/
// Capacity/Root panics with an e2derr.Violation, since by definition
// nothing should be iterating, dropping, or resizing packets a sink
// has already handed to the driver.
type Send struct {
	root   *Root
	parent Combinator
	port   *pmd.Port
	queue  int
	log    *logging.Logger
	sent   uint64
}

var _ Combinator = (*Send)(nil)

// NewSend builds a Send node over parent, offering packets to port's queue.
func NewSend(parent Combinator, port *pmd.Port, queue int) *Send {
	return &Send{root: parent.Root(), parent: parent, port: port, queue: queue, log: logging.Default()}
}

func (s *Send) Act() {
	s.parent.Act()

	buffers, slots := s.root.TakeAll()
	if len(buffers) == 0 {
		return
	}

	n, err := s.port.Send(s.queue, buffers)
	if err != nil {
		s.log.Debug("batch: send failed", "queue", s.queue, "err", err)
		s.root.DropSlots(slots)
		return
	}

	s.sent += uint64(n)
	s.root.Release(slots[:n])
	if n < len(slots) {
		s.root.DropSlots(slots[n:])
	}
}

func (s *Send) Done() {
	// Send has nothing of its own to release: Act already transferred
	// or dropped everything it took. Recurse so upstream Receive still
	// gets a chance to account for anything it never should have kept.
	s.parent.Done()
}

// Sent returns how many buffers this node has successfully handed to
// the driver since construction.
func (s *Send) Sent() uint64 { return s.sent }

func (s *Send) Capacity() int { return s.root.Capacity() }

func (s *Send) Root() *Root { return s.root }

func (s *Send) PayloadAt(slot int) ([]byte, bool) {
	sinkViolation("batch.Send.PayloadAt")
	return nil, false
}

func (s *Send) DropPackets(idx []int) (int, error) {
	sinkViolation("batch.Send.DropPackets")
	return 0, nil
}

func (s *Send) AdjustPayloadSize(slot, delta int) (int, error) {
	sinkViolation("batch.Send.AdjustPayloadSize")
	return 0, nil
}

func (s *Send) AdjustHeadroom(slot, delta int) (int, error) {
	sinkViolation("batch.Send.AdjustHeadroom")
	return 0, nil
}
