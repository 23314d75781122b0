// Package header defines the generic parsing-iterator abstraction:
// given a batch of packet payloads and a way to decode one concrete
// header type from the front of each, walk the batch once yielding
// (slot, header, remaining payload, per-packet context).
package header

// Header is any value that knows how big its own encoding is, given
// the bytes it starts at. Concrete header types (headers package)
// implement this; the core here stays agnostic of any specific wire
// format, per this module's scope.
type Header interface {
	// EncodedLength returns how many leading bytes of data this
	// header occupies. A negative or out-of-range result marks the
	// slot as unparseable; Iterator skips it rather than panicking,
	// since malformed input is an expected runtime condition, not a
	// programmer error.
	EncodedLength(data []byte) int
}

// Decoder constructs a header value of type H from the bytes at the
// front of data. It must not look past what EncodedLength will later
// report as consumed.
type Decoder[H Header] func(data []byte) H

// PacketSource is the view a batch node exposes to an Iterator: a
// fixed number of slots, each either holding a payload or empty
// (already dropped).
type PacketSource interface {
	Capacity() int
	PayloadAt(slot int) ([]byte, bool)
}

// Iterator walks a PacketSource once, slot by slot, decoding H at the
// current parse offset of each non-empty slot. It is single-pass and
// forward-only: there is no Reset; a fresh pass requires a fresh
// Iterator, matching the framework's "cannot rewind without an
// explicit reset-parse" contract (see the batch package's ResetParse
// node, which is what makes a second pass possible at all).
type Iterator[H Header] struct {
	src    PacketSource
	decode Decoder[H]
	idx    int

	curIdx      int
	curHeader   H
	curPayload  []byte
	curCtx      any
	curConsumed int
}

// Iterate returns an Iterator over src, decoding each header with decode.
func Iterate[H Header](src PacketSource, decode Decoder[H]) *Iterator[H] {
	return &Iterator[H]{src: src, decode: decode}
}

// Next advances to the next parseable slot, returning false once the
// source is exhausted. Empty slots (already dropped) and slots whose
// header fails to decode within the available payload are skipped
// silently, matching the reference iterator's "missing/short packets
// are simply absent from the walk" behavior.
func (it *Iterator[H]) Next() bool {
	for it.idx < it.src.Capacity() {
		slot := it.idx
		it.idx++

		data, ok := it.src.PayloadAt(slot)
		if !ok || len(data) == 0 {
			continue
		}
		hdr := it.decode(data)
		hlen := hdr.EncodedLength(data)
		if hlen < 0 || hlen > len(data) {
			continue
		}
		it.curIdx = slot
		it.curHeader = hdr
		it.curPayload = data[hlen:]
		it.curCtx = nil
		it.curConsumed = hlen
		return true
	}
	return false
}

// Slot returns the batch slot index of the current element.
func (it *Iterator[H]) Slot() int { return it.curIdx }

// Header returns the decoded header of the current element.
func (it *Iterator[H]) Header() H { return it.curHeader }

// Payload returns the bytes following the current element's header.
func (it *Iterator[H]) Payload() []byte { return it.curPayload }

// Consumed returns how many bytes the current element's header
// occupied, as reported by its EncodedLength.
func (it *Iterator[H]) Consumed() int { return it.curConsumed }

// Context returns the per-packet side-state attached via SetContext,
// or nil if none was set for the current element.
func (it *Iterator[H]) Context() any { return it.curCtx }

// SetContext attaches arbitrary side-state to the current element,
// valid only until the next call to Next.
func (it *Iterator[H]) SetContext(ctx any) { it.curCtx = ctx }
