// Command e2d2sniff demonstrates a Receive -> Transform -> Send chain
// against an in-process Stub driver, decoding each packet's Ethernet/
// IPv4/TCP headers with gopacket for display. It exists to exercise
// the combinator chain end to end, not as a real packet capture tool:
// there is no real hardware binding in this module.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"runtime"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/nvpkt/e2d2go/batch"
	"github.com/nvpkt/e2d2go/driver"
	"github.com/nvpkt/e2d2go/headers"
	"github.com/nvpkt/e2d2go/mbuf"
	"github.com/nvpkt/e2d2go/pipeline"
	"github.com/nvpkt/e2d2go/pmd"
)

var (
	list    = flag.Bool("list", false, "list the ports the stub driver exposes and exit")
	nPorts  = flag.Int("ports", 1, "number of stub ports to create")
	nPkts   = flag.Int("n", 8, "number of synthetic packets to seed and capture")
	capSize = flag.Int("cap", 32, "batch capacity")
)

func main() {
	flag.Parse()

	drv := driver.NewStub()
	for i := 0; i < *nPorts; i++ {
		if _, _, err := drv.InitPort(i, driver.PortConfig{Kind: driver.KindPhysical, RxQueues: 1, TxQueues: 1}); err != nil {
			log.Fatal(err)
		}
	}

	if *list {
		for i := 0; i < drv.NumPorts(); i++ {
			mac, err := drv.MACAddr(i)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("port %d: mac=%s\n", i, mac)
		}
		return
	}

	port, err := pmd.Open(drv, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	for i := 0; i < *nPkts; i++ {
		drv.SeedRx(0, 0, mbuf.NewView(syntheticPacket(i), 0))
	}

	recv := batch.NewReceive(port, 0, *capSize)
	decode := batch.NewTransform[headers.Ethernet](recv, headers.DecodeEthernet, printEthernet)
	sink := batch.NewSend(decode, port, 0)

	r := pipeline.New(pipeline.Config{Sink: sink, CPU: -1})
	r.Start()
	for drv.Pending(0, 0) > 0 {
		runtime.Gosched()
	}
	r.Stop()

	fmt.Printf("sent=%d dropped=%d\n", sink.Sent(), sink.Root().Dropped())
}

func printEthernet(root *batch.Root, slot int, hdr headers.Ethernet, payload []byte, ctx any) error {
	full, ok := root.PayloadAt(slot)
	if !ok {
		return nil
	}
	pkt := gopacket.NewPacket(full, layers.LayerTypeEthernet, gopacket.NoCopy)
	fmt.Printf("slot=%d src=%s dst=%s ethertype=0x%04x layers=%d\n",
		slot, net.HardwareAddr(hdr.Src[:]), net.HardwareAddr(hdr.Dst[:]), hdr.EtherType, len(pkt.Layers()))
	return nil
}

// syntheticPacket builds a minimal Ethernet+IPv4+TCP frame for demo
// purposes, since this module has no real capture source.
func syntheticPacket(i int) []byte {
	eth := make([]byte, headers.EthernetHdrLen+headers.IPv4HdrLen+headers.TCPHdrLen)
	copy(eth[0:6], []byte{0x02, 0, 0, 0, 0, 1})
	copy(eth[6:12], []byte{0x02, 0, 0, 0, 0, byte(2 + i)})
	eth[12], eth[13] = 0x08, 0x00

	ip := eth[headers.EthernetHdrLen:]
	ip[0] = 0x45
	ip[9] = headers.IPProtoTCP
	totalLen := headers.IPv4HdrLen + headers.TCPHdrLen
	ip[2], ip[3] = byte(totalLen>>8), byte(totalLen)
	ip[12], ip[13], ip[14], ip[15] = 10, 0, 0, 1
	ip[16], ip[17], ip[18], ip[19] = 10, 0, 0, byte(2+i)

	tcp := ip[headers.IPv4HdrLen:]
	tcp[0], tcp[1] = 0, 80
	tcp[2], tcp[3] = byte(1024+i>>8), byte(1024+i)
	tcp[12] = byte(headers.TCPHdrLen<<2) & 0xf0

	return eth
}
