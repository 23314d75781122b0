package batch

import "github.com/nvpkt/e2d2go/header"

// TransformFunc rewrites a packet's header in place. It is given the
// decoded header, the slot it lives in (for AdjustPayloadSize/
// AdjustHeadroom calls through root), the payload following the
// header, and per-packet context. Returning an error drops the
// packet rather than propagating the error up the chain — a
// malformed or unsupported packet is an expected runtime condition,
// not a fatal one.
type TransformFunc[H header.Header] func(root *Root, slot int, hdr H, payload []byte, ctx any) error

// Transform decodes a header at each packet's current parse offset,
// applies fn to it, and advances the parse offset past the header so
// downstream nodes see what follows. This is the "header-transform"
// combinator: TTL decrement, MAC rewrite, and similar in-place edits
// are built as a TransformFunc.
type Transform[H header.Header] struct {
	base
	decode header.Decoder[H]
	fn     TransformFunc[H]
}

var _ Combinator = (*Transform[header.Header])(nil)

// NewTransform builds a Transform node over parent.
func NewTransform[H header.Header](parent Combinator, decode header.Decoder[H], fn TransformFunc[H]) *Transform[H] {
	return &Transform[H]{base: base{root: parent.Root(), parent: parent}, decode: decode, fn: fn}
}

func (t *Transform[H]) Act() {
	t.parent.Act()

	it := header.Iterate[H](t.root, t.decode)
	var toDrop []int
	for it.Next() {
		slot := it.Slot()
		if err := t.fn(t.root, slot, it.Header(), it.Payload(), it.Context()); err != nil {
			toDrop = append(toDrop, slot)
			continue
		}
		if n := it.Consumed(); n > 0 {
			t.root.Advance(slot, n)
		}
	}
	if len(toDrop) > 0 {
		t.root.DropPackets(toDrop)
	}
}
