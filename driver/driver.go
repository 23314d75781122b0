// Package driver defines the narrow external contract a PMD port
// wrapper consumes: init/free a port, move buffers through its
// queues, and report identity. Real hardware/vdev bindings are
// external collaborators of this module; this package ships only the
// contract plus a Null and a Stub implementation for testability.
package driver

import (
	"net"

	"github.com/nvpkt/e2d2go/mbuf"
)

// PortKind selects which PMD mode InitPort should bring up.
type PortKind int

const (
	KindPhysical PortKind = iota
	KindSingleQueue
	KindLoopback
	KindBESSRing
	KindOVSRing
	KindNull
)

// PortConfig carries everything InitPort needs to bring up a port.
// RxCores/TxCores are passed through for the driver's own thread/core
// pinning; the driver and pmd packages never pin threads themselves
// (the only pinning in this module is pipeline.Config.CPU).
type PortConfig struct {
	Kind      PortKind
	RxQueues  int
	TxQueues  int
	RxRingLen int
	TxRingLen int
	RxCores   []int
	TxCores   []int
	VdevName  string // for KindBESSRing
	VdevID    int    // for KindOVSRing
}

// DefaultRxRingLen and DefaultTxRingLen are the PMD default ring
// sizes, matching the reference implementation's NUM_RXD/NUM_TXD.
const (
	DefaultRxRingLen = 1024
	DefaultTxRingLen = 256
)

// Driver is the contract a PMD port wrapper consumes. Implementations
// must be safe for use by exactly one pmd.Port at a time per port
// index; this module never calls two Driver methods concurrently for
// the same port.
type Driver interface {
	// InitPort brings up port with cfg, returning the number of rx
	// and tx queues actually available (which may be less than
	// requested for a physical port, but must match exactly for
	// virtual ring ports).
	InitPort(port int, cfg PortConfig) (rxQueues, txQueues int, err error)

	// FreePort tears down port. Calling FreePort on a port that was
	// never initialized, or twice, is a caller bug.
	FreePort(port int) error

	// Recv fills slots with up to len(slots) received buffers on
	// port/queue, returning how many were filled.
	Recv(port, queue int, slots []mbuf.Buffer) (n int, err error)

	// Send hands slots to port/queue, returning how many were
	// accepted. A return value less than len(slots) is a partial
	// send, not an error; ownership of unaccepted buffers remains
	// with the caller.
	Send(port, queue int, slots []mbuf.Buffer) (n int, err error)

	// NumPorts reports how many ports this driver instance exposes.
	NumPorts() int

	// MACAddr reports port's MAC address.
	MACAddr(port int) (net.HardwareAddr, error)
}
