package batch

import "github.com/nvpkt/e2d2go/header"

// FilterFunc decides whether to drop a packet: it receives the
// decoded header at the current parse offset, the payload following
// it, and the iterator's per-packet context, which is always nil here:
// context set by an earlier stage is not carried to this one. Returning
// true (Drop) removes the packet from the batch; returning false
// (Keep) leaves it for downstream nodes.
type FilterFunc[H header.Header] func(hdr H, payload []byte, ctx any) bool

// Filter drops packets that match a predicate, without consuming any
// header bytes: a packet kept by Filter is seen by downstream nodes
// at the same parse offset it had coming in.
type Filter[H header.Header] struct {
	base
	decode    header.Decoder[H]
	predicate FilterFunc[H]
}

var _ Combinator = (*Filter[header.Header])(nil)

// NewFilter builds a Filter node over parent, decoding H with decode
// and dropping packets for which predicate returns Drop.
func NewFilter[H header.Header](parent Combinator, decode header.Decoder[H], predicate FilterFunc[H]) *Filter[H] {
	return &Filter[H]{base: base{root: parent.Root(), parent: parent}, decode: decode, predicate: predicate}
}

func (f *Filter[H]) Act() {
	f.parent.Act()

	it := header.Iterate[H](f.root, f.decode)
	var toDrop []int
	for it.Next() {
		if f.predicate(it.Header(), it.Payload(), it.Context()) == Drop {
			toDrop = append(toDrop, it.Slot())
		}
	}
	if len(toDrop) > 0 {
		f.root.DropPackets(toDrop)
	}
}
