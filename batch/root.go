// Package batch implements the packet batch root and the five
// combinators built over it: Receive, Filter, Transform, ResetParse,
// and Send. A combinator tree is built bottom-up, ending in a Send,
// and driven by repeatedly calling the outermost node's Act then Done.
package batch

import (
	"fmt"

	"github.com/nvpkt/e2d2go/mbuf"
)

// Root is the shared backing store every node in a combinator chain
// operates on: a fixed-capacity array of buffer slots, each either
// present or already dropped/sent this tick, plus a per-slot parse
// offset that ResetParse and header-consuming transforms manage.
type Root struct {
	slots   []mbuf.Buffer
	present []bool
	offset  []int
	dropped uint64
}

// NewRoot allocates a Root with room for capacity buffers per tick.
func NewRoot(capacity int) *Root {
	return &Root{
		slots:   make([]mbuf.Buffer, capacity),
		present: make([]bool, capacity),
		offset:  make([]int, capacity),
	}
}

// Capacity is the fixed number of slots in the batch.
func (r *Root) Capacity() int { return len(r.slots) }

// Dropped is the running count of buffers dropped (by Filter or by a
// partial Send) since this Root was created.
func (r *Root) Dropped() uint64 { return r.dropped }

// StartTick clears every slot, preparing the batch for a fresh
// Receive.Act call. Any buffer still present from a prior tick is a
// caller bug (Done should have accounted for everything); StartTick
// counts such leftovers as dropped rather than silently discarding
// them, so the mistake is visible in Dropped().
func (r *Root) StartTick() {
	for i := range r.slots {
		if r.present[i] {
			r.dropped++
		}
		r.slots[i] = nil
		r.present[i] = false
		r.offset[i] = 0
	}
}

// RecvSlots returns the full backing array for Receive.Act to pass to
// driver.Driver.Recv.
func (r *Root) RecvSlots() []mbuf.Buffer { return r.slots }

// CommitReceived marks the first n slots (as just filled by Recv) present.
func (r *Root) CommitReceived(n int) {
	for i := 0; i < n && i < len(r.present); i++ {
		if r.slots[i] != nil {
			r.present[i] = true
		}
	}
}

// PayloadAt returns the unconsumed payload of slot (from its current
// parse offset onward), or (nil, false) if the slot is empty.
func (r *Root) PayloadAt(slot int) ([]byte, bool) {
	if slot < 0 || slot >= len(r.slots) || !r.present[slot] {
		return nil, false
	}
	p := r.slots[slot].Payload()
	off := r.offset[slot]
	if off > len(p) {
		off = len(p)
	}
	return p[off:], true
}

// DropPackets marks each index in idx empty, returning how many were
// actually present (already-empty indices are not double-counted).
func (r *Root) DropPackets(idx []int) (int, error) {
	n := 0
	for _, i := range idx {
		if i < 0 || i >= len(r.slots) {
			return n, fmt.Errorf("batch: drop index %d out of range [0,%d)", i, len(r.slots))
		}
		if r.present[i] {
			r.present[i] = false
			r.slots[i] = nil
			r.dropped++
			n++
		}
	}
	return n, nil
}

// AdjustPayloadSize resizes slot's payload view in place.
func (r *Root) AdjustPayloadSize(slot, delta int) (int, error) {
	if slot < 0 || slot >= len(r.slots) || !r.present[slot] {
		return 0, fmt.Errorf("batch: slot %d not present", slot)
	}
	return r.slots[slot].AdjustPayloadSize(delta)
}

// AdjustHeadroom resizes slot's headroom in place.
func (r *Root) AdjustHeadroom(slot, delta int) (int, error) {
	if slot < 0 || slot >= len(r.slots) || !r.present[slot] {
		return 0, fmt.Errorf("batch: slot %d not present", slot)
	}
	return r.slots[slot].AdjustHeadroom(delta)
}

// Advance moves slot's parse offset forward by n bytes, the effect of
// a header-transform node consuming a header so downstream nodes see
// only what follows it.
func (r *Root) Advance(slot, n int) {
	if slot < 0 || slot >= len(r.offset) {
		return
	}
	r.offset[slot] += n
}

// ResetOffsets restores every present slot's parse offset to zero,
// the effect of a ResetParse node.
func (r *Root) ResetOffsets() {
	for i := range r.offset {
		r.offset[i] = 0
	}
}

// Present reports whether slot currently holds a buffer.
func (r *Root) Present(slot int) bool {
	return slot >= 0 && slot < len(r.present) && r.present[slot]
}

// TakeAll gathers every present buffer in slot order, for Send to
// offer to the driver, alongside the slot each came from.
func (r *Root) TakeAll() (buffers []mbuf.Buffer, slots []int) {
	for i, p := range r.present {
		if p {
			buffers = append(buffers, r.slots[i])
			slots = append(slots, i)
		}
	}
	return buffers, slots
}

// Release marks each of slots empty without counting it as dropped:
// ownership of those buffers has already been transferred elsewhere
// (accepted by a driver Send call).
func (r *Root) Release(slots []int) {
	for _, i := range slots {
		if i >= 0 && i < len(r.present) {
			r.present[i] = false
			r.slots[i] = nil
		}
	}
}

// DropSlots marks each of slots empty and counts them as dropped:
// used for the unaccepted tail of a partial send.
func (r *Root) DropSlots(slots []int) {
	for _, i := range slots {
		if i >= 0 && i < len(r.present) && r.present[i] {
			r.present[i] = false
			r.slots[i] = nil
			r.dropped++
		}
	}
}
