// Command e2d2bench drives a Receive -> Transform(Ethernet) ->
// Filter(IPv4) -> Send chain against the Stub driver until every seeded
// packet has been received, and reports throughput, the way
// examples/5pkts measured a fixed count against real rings.
// There is no real hardware binding in this module; this exists to
// exercise the combinator chain under load.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/nvpkt/e2d2go/batch"
	"github.com/nvpkt/e2d2go/driver"
	"github.com/nvpkt/e2d2go/headers"
	"github.com/nvpkt/e2d2go/mbuf"
	"github.com/nvpkt/e2d2go/pmd"
)

var (
	nPkts   = flag.Int("n", 100000, "number of synthetic packets to push through")
	capSize = flag.Int("cap", 32, "batch capacity")
	dropUDP = flag.Bool("drop-udp", true, "drop UDP packets instead of forwarding them")
)

func main() {
	flag.Parse()

	drv := driver.NewStub()
	if _, _, err := drv.InitPort(0, driver.PortConfig{Kind: driver.KindPhysical, RxQueues: 1, TxQueues: 1}); err != nil {
		log.Fatal(err)
	}
	port, err := pmd.Open(drv, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	tcp := tcpFrame()
	udp := udpFrame()
	for i := 0; i < *nPkts; i++ {
		if i%4 == 0 {
			drv.SeedRx(0, 0, mbuf.NewView(append([]byte(nil), udp...), 0))
		} else {
			drv.SeedRx(0, 0, mbuf.NewView(append([]byte(nil), tcp...), 0))
		}
	}

	recv := batch.NewReceive(port, 0, *capSize)
	filtered := batch.Combinator(recv)
	if *dropUDP {
		eth := batch.NewTransform[headers.Ethernet](recv, headers.DecodeEthernet, func(root *batch.Root, slot int, hdr headers.Ethernet, payload []byte, ctx any) error {
			return nil
		})
		filtered = batch.NewFilter[headers.IPv4](eth, headers.DecodeIPv4, func(hdr headers.IPv4, payload []byte, ctx any) bool {
			return hdr.Proto == headers.IPProtoUDP
		})
	}
	sink := batch.NewSend(filtered, port, 0)

	start := time.Now()
	for drv.Pending(0, 0) > 0 {
		sink.Act()
	}
	sink.Done()
	elapsed := time.Since(start)

	log.Printf("sent=%d dropped=%d elapsed=%s pps=%.0f",
		sink.Sent(), sink.Root().Dropped(), elapsed, float64(sink.Sent())/elapsed.Seconds())
}

func tcpFrame() []byte {
	eth := make([]byte, headers.EthernetHdrLen+headers.IPv4HdrLen+headers.TCPHdrLen)
	eth[12], eth[13] = 0x08, 0x00
	ip := eth[headers.EthernetHdrLen:]
	ip[0] = 0x45
	ip[9] = headers.IPProtoTCP
	total := headers.IPv4HdrLen + headers.TCPHdrLen
	ip[2], ip[3] = byte(total>>8), byte(total)
	tcp := ip[headers.IPv4HdrLen:]
	tcp[12] = byte(headers.TCPHdrLen << 2 & 0xf0)
	return eth
}

func udpFrame() []byte {
	eth := make([]byte, headers.EthernetHdrLen+headers.IPv4HdrLen+headers.UDPHdrLen)
	eth[12], eth[13] = 0x08, 0x00
	ip := eth[headers.EthernetHdrLen:]
	ip[0] = 0x45
	ip[9] = headers.IPProtoUDP
	total := headers.IPv4HdrLen + headers.UDPHdrLen
	ip[2], ip[3] = byte(total>>8), byte(total)
	udp := ip[headers.IPv4HdrLen:]
	udp[4], udp[5] = byte(headers.UDPHdrLen>>8), byte(headers.UDPHdrLen)
	return eth
}
