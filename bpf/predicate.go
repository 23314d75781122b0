// Package bpf adapts golang.org/x/net/bpf's pure-Go virtual machine
// into a packet-batch filter predicate, with no cgo and no libpcap
// dependency: callers assemble a []bpf.Instruction program themselves
// (e.g. with bpf.Instructions or a hand-built []bpf.RawInstruction)
// and get back something usable as a batch.Filter predicate.
package bpf

import "golang.org/x/net/bpf"

// Predicate runs a compiled BPF program against raw packet bytes.
type Predicate struct {
	vm *bpf.VM
}

// New assembles insns into a runnable Predicate.
func New(insns []bpf.Instruction) (*Predicate, error) {
	vm, err := bpf.NewVM(insns)
	if err != nil {
		return nil, err
	}
	return &Predicate{vm: vm}, nil
}

// NewFromRaw builds a Predicate directly from raw (already-assembled)
// BPF instructions, the form golang.org/x/net/bpf.RawInstruction
// carries and the form a ported pcap-compiled program would arrive in.
func NewFromRaw(raw []bpf.RawInstruction) (*Predicate, error) {
	insns := make([]bpf.Instruction, len(raw))
	for i, r := range raw {
		insns[i] = r
	}
	return New(insns)
}

// Matches reports whether pkt matches the compiled program: a classic
// BPF program "matches" when it returns a non-zero snap length.
func (p *Predicate) Matches(pkt []byte) bool {
	n, err := p.vm.Run(pkt)
	if err != nil {
		return false
	}
	return n > 0
}

// Header is a zero-length header.Header that lets a Predicate be used
// as a batch.Filter[Header] predicate source operating on whole raw
// packets rather than a specific parsed header: EncodedLength always
// reports 0, so the "payload" a Filter node sees is the untouched
// packet the Predicate was compiled to match against.
type Header struct{}

// EncodedLength always returns 0: Header consumes nothing, leaving
// the full packet bytes as payload for Predicate.Matches to inspect.
func (Header) EncodedLength(data []byte) int { return 0 }

// DecodeHeader is the header.Decoder for Header.
func DecodeHeader(data []byte) Header { return Header{} }
