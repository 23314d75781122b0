package driver

import (
	"net"

	"github.com/nvpkt/e2d2go/mbuf"
)

// Null is the driver behind a null PMD port: it accepts Send silently
// and never yields a buffer from Recv. It is always available at port
// index 0, matching the reference implementation's null-port mode
// used for throughput baselines and drop-everything configurations.
type Null struct{}

var _ Driver = Null{}

func (Null) InitPort(port int, cfg PortConfig) (int, int, error) {
	return cfg.RxQueues, cfg.TxQueues, nil
}

func (Null) FreePort(port int) error { return nil }

func (Null) Recv(port, queue int, slots []mbuf.Buffer) (int, error) { return 0, nil }

func (Null) Send(port, queue int, slots []mbuf.Buffer) (int, error) { return len(slots), nil }

func (Null) NumPorts() int { return 1 }

func (Null) MACAddr(port int) (net.HardwareAddr, error) {
	return net.HardwareAddr{0, 0, 0, 0, 0, 0}, nil
}
