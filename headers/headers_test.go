package headers

import "testing"

func TestEthernetDecode(t *testing.T) {
	b := make([]byte, EthernetHdrLen+4)
	copy(b[0:6], []byte{1, 2, 3, 4, 5, 6})
	copy(b[6:12], []byte{7, 8, 9, 10, 11, 12})
	b[12], b[13] = 0x08, 0x00

	e := DecodeEthernet(b)
	if e.EtherType != EtherTypeIPv4 {
		t.Fatalf("EtherType = 0x%04x, want 0x%04x", e.EtherType, EtherTypeIPv4)
	}
	if e.EncodedLength(b) != EthernetHdrLen {
		t.Fatalf("EncodedLength = %d, want %d", e.EncodedLength(b), EthernetHdrLen)
	}
	if (Ethernet{}).EncodedLength(b[:4]) != -1 {
		t.Fatal("short buffer should report -1")
	}
}

func TestIPv4DecodeRejectsMangledHeader(t *testing.T) {
	b := make([]byte, IPv4HdrLen)
	b[0] = 0x55 // version 5, not 4
	if (IPv4{}).EncodedLength(b) != -1 {
		t.Fatal("wrong IP version should be rejected")
	}

	b[0] = 0x45
	b[2], b[3] = 0, byte(IPv4HdrLen-1) // total length shorter than the header itself
	if (IPv4{}).EncodedLength(b) != -1 {
		t.Fatal("total length shorter than header should be rejected")
	}
}

func TestIPv4DecodeAcceptsOptions(t *testing.T) {
	b := make([]byte, IPv4HdrLen+4) // IHL of 6 words = 24 bytes
	b[0] = 0x46
	b[2], b[3] = 0, byte(len(b))
	if got := (IPv4{}).EncodedLength(b); got != IPv4HdrLen+4 {
		t.Fatalf("EncodedLength with options = %d, want %d", got, IPv4HdrLen+4)
	}
}

func TestTCPDecode(t *testing.T) {
	b := make([]byte, TCPHdrLen)
	b[0], b[1] = 0, 80
	b[2], b[3] = 0x1f, 0x90
	b[12] = byte(TCPHdrLen << 2 & 0xf0)

	tcp := DecodeTCP(b)
	if tcp.SrcPort != 80 || tcp.DstPort != 8080 {
		t.Fatalf("ports = %d,%d, want 80,8080", tcp.SrcPort, tcp.DstPort)
	}
	if tcp.EncodedLength(b) != TCPHdrLen {
		t.Fatalf("EncodedLength = %d, want %d", tcp.EncodedLength(b), TCPHdrLen)
	}
}

func TestUDPDecode(t *testing.T) {
	b := make([]byte, UDPHdrLen)
	b[4], b[5] = 0, byte(UDPHdrLen)
	if (UDP{}).EncodedLength(b) != UDPHdrLen {
		t.Fatalf("EncodedLength = %d, want %d", (UDP{}).EncodedLength(b), UDPHdrLen)
	}

	b[4], b[5] = 0, byte(UDPHdrLen-1) // length claims less than the UDP header itself
	if (UDP{}).EncodedLength(b) != -1 {
		t.Fatal("undersized length field should be rejected")
	}
}
