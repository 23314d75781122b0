package header_test

import (
	"testing"

	"github.com/nvpkt/e2d2go/header"
	"github.com/nvpkt/e2d2go/headers"
)

type fakeSource struct {
	slots [][]byte
}

func (f *fakeSource) Capacity() int { return len(f.slots) }

func (f *fakeSource) PayloadAt(slot int) ([]byte, bool) {
	if slot < 0 || slot >= len(f.slots) || f.slots[slot] == nil {
		return nil, false
	}
	return f.slots[slot], true
}

func frame() []byte {
	b := make([]byte, headers.EthernetHdrLen+headers.IPv4HdrLen)
	b[12], b[13] = 0x08, 0x00
	ip := b[headers.EthernetHdrLen:]
	ip[0] = 0x45
	ip[2], ip[3] = 0, byte(headers.IPv4HdrLen)
	return b
}

func TestIteratorSkipsEmptyAndShortSlots(t *testing.T) {
	src := &fakeSource{slots: [][]byte{frame(), nil, make([]byte, 4), frame()}}

	it := header.Iterate[headers.Ethernet](src, headers.DecodeEthernet)
	var got []int
	for it.Next() {
		got = append(got, it.Slot())
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Fatalf("expected slots [0 3], got %v", got)
	}
}

func TestIteratorConsumedAndPayload(t *testing.T) {
	src := &fakeSource{slots: [][]byte{frame()}}
	it := header.Iterate[headers.Ethernet](src, headers.DecodeEthernet)
	if !it.Next() {
		t.Fatal("expected one element")
	}
	if it.Consumed() != headers.EthernetHdrLen {
		t.Fatalf("Consumed() = %d, want %d", it.Consumed(), headers.EthernetHdrLen)
	}
	if len(it.Payload()) != headers.IPv4HdrLen {
		t.Fatalf("Payload() len = %d, want %d", len(it.Payload()), headers.IPv4HdrLen)
	}
}

func TestIteratorContext(t *testing.T) {
	src := &fakeSource{slots: [][]byte{frame()}}
	it := header.Iterate[headers.Ethernet](src, headers.DecodeEthernet)
	it.Next()
	if it.Context() != nil {
		t.Fatal("context should start nil")
	}
	it.SetContext("marked")
	if it.Context() != "marked" {
		t.Fatal("SetContext should be visible via Context")
	}
}
