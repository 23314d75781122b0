package batch

import "github.com/nvpkt/e2d2go/e2derr"

// ResetParse restores every packet's parse offset to the start of its
// payload, so a later Filter/Transform sees the whole packet again
// regardless of how much earlier stages consumed. It is the only way
// to "rewind"; there is no partial pop-back, matching the reference
// implementation's reset-parse, which always resets to the base
// payload and panics on any attempt to pop past it.
type ResetParse struct {
	base
}

var _ Combinator = (*ResetParse)(nil)

// NewResetParse builds a ResetParse node over parent.
func NewResetParse(parent Combinator) *ResetParse {
	return &ResetParse{base: base{root: parent.Root(), parent: parent}}
}

func (rp *ResetParse) Act() {
	rp.parent.Act()
	rp.root.ResetOffsets()
}

// Pop is not supported by ResetParse: there is nothing to pop back to
// past a full reset, so this always panics, matching the reference
// implementation's next_payload_popped panic on this node.
func (rp *ResetParse) Pop() {
	e2derr.PanicViolation("batch.ResetParse.Pop", "cannot pop past a reset-parse node")
}
