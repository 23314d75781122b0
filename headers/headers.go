// Package headers provides example concrete header types satisfying
// header.Header: Ethernet, VLAN, IPv4, TCP, UDP. These exist for
// demos and tests (cmd/e2d2sniff, the batch package's own tests); the
// batch/header packages themselves stay wire-format agnostic.
package headers

import "encoding/binary"

const (
	EthernetHdrLen = 14
	VlanHdrLen     = 4
	MplsHdrLen     = 4
	MacAddrLen     = 6
	IPv4HdrLen     = 20
	TCPHdrLen      = 20
	UDPHdrLen      = 8
)

const (
	EtherTypeIPv4 = 0x0800
	EtherTypeVlan = 0x8100
	EtherTypeIPv6 = 0x86dd
)

const (
	IPProtoTCP = 6
	IPProtoUDP = 17
)

// Ethernet is a decoded Ethernet frame header.
type Ethernet struct {
	Dst, Src  [MacAddrLen]byte
	EtherType uint16
}

// DecodeEthernet decodes an Ethernet header from the front of data.
// EncodedLength rejects undersized data before any field is read, so
// a zero-value Ethernet is a safe return on failure.
func DecodeEthernet(data []byte) Ethernet {
	var e Ethernet
	if len(data) < EthernetHdrLen {
		return e
	}
	copy(e.Dst[:], data[0:MacAddrLen])
	copy(e.Src[:], data[MacAddrLen:2*MacAddrLen])
	e.EtherType = binary.BigEndian.Uint16(data[2*MacAddrLen:])
	return e
}

func (Ethernet) EncodedLength(data []byte) int {
	if len(data) < EthernetHdrLen {
		return -1
	}
	return EthernetHdrLen
}

// Vlan is a decoded 802.1Q tag.
type Vlan struct {
	TCI       uint16
	EtherType uint16
}

func DecodeVlan(data []byte) Vlan {
	var v Vlan
	if len(data) < VlanHdrLen {
		return v
	}
	v.TCI = binary.BigEndian.Uint16(data[0:2])
	v.EtherType = binary.BigEndian.Uint16(data[2:4])
	return v
}

func (Vlan) EncodedLength(data []byte) int {
	if len(data) < VlanHdrLen {
		return -1
	}
	return VlanHdrLen
}

// IPv4 is a decoded IPv4 header (options, if any, are included in the
// consumed length but not individually exposed).
type IPv4 struct {
	Proto     byte
	Src, Dst  [4]byte
	TotalLen  uint16
	HeaderLen int
}

func DecodeIPv4(data []byte) IPv4 {
	var ip IPv4
	if len(data) < IPv4HdrLen {
		return ip
	}
	ver := int(data[0]&0xf0) >> 4
	ihl := int(data[0]&0x0f) << 2
	if ver != 4 || ihl < IPv4HdrLen {
		return ip
	}
	ip.HeaderLen = ihl
	ip.Proto = data[9]
	copy(ip.Src[:], data[12:16])
	copy(ip.Dst[:], data[16:20])
	ip.TotalLen = binary.BigEndian.Uint16(data[2:4])
	return ip
}

func (h IPv4) EncodedLength(data []byte) int {
	if len(data) < IPv4HdrLen {
		return -1
	}
	ver := int(data[0]&0xf0) >> 4
	ihl := int(data[0]&0x0f) << 2
	if ver != 4 || ihl < IPv4HdrLen || len(data) < ihl {
		return -1
	}
	total := int(binary.BigEndian.Uint16(data[2:4]))
	if total < ihl || len(data) < total {
		return -1
	}
	return ihl
}

// TCP is a decoded TCP header.
type TCP struct {
	SrcPort, DstPort uint16
	DataOffset       int
}

func DecodeTCP(data []byte) TCP {
	var t TCP
	if len(data) < TCPHdrLen {
		return t
	}
	t.SrcPort = binary.BigEndian.Uint16(data[0:2])
	t.DstPort = binary.BigEndian.Uint16(data[2:4])
	t.DataOffset = int(data[12]&0xf0) >> 2
	return t
}

func (TCP) EncodedLength(data []byte) int {
	if len(data) < TCPHdrLen {
		return -1
	}
	offset := int(data[12]&0xf0) >> 2
	if offset < TCPHdrLen || len(data) < offset {
		return -1
	}
	return offset
}

// UDP is a decoded UDP header.
type UDP struct {
	SrcPort, DstPort uint16
	Length           uint16
}

func DecodeUDP(data []byte) UDP {
	var u UDP
	if len(data) < UDPHdrLen {
		return u
	}
	u.SrcPort = binary.BigEndian.Uint16(data[0:2])
	u.DstPort = binary.BigEndian.Uint16(data[2:4])
	u.Length = binary.BigEndian.Uint16(data[4:6])
	return u
}

func (UDP) EncodedLength(data []byte) int {
	if len(data) < UDPHdrLen {
		return -1
	}
	total := int(binary.BigEndian.Uint16(data[4:6]))
	if total < UDPHdrLen || len(data) < total {
		return -1
	}
	return UDPHdrLen
}
