// Package pmd wraps a driver.Driver into the poll-mode-driver port
// abstraction the batch combinators send/receive through: lifecycle,
// queue-bounded Recv/Send, per-queue counters, and port aliasing.
package pmd

import (
	"net"
	"sync/atomic"

	"github.com/nvpkt/e2d2go/driver"
	"github.com/nvpkt/e2d2go/e2derr"
	"github.com/nvpkt/e2d2go/internal/logging"
	"github.com/nvpkt/e2d2go/mbuf"
)

// Stats is a point-in-time snapshot of one queue's counters.
type Stats struct {
	Rx uint64
	Tx uint64
}

// counterSet holds the atomic per-queue counters a Port and all of
// its Copy() aliases share. Counters are never reset on Copy, and
// exactly one owning Port's Close tears down the underlying driver
// port.
type counterSet struct {
	rx []atomic.Uint64
	tx []atomic.Uint64
}

// Port is a single PMD port: some number of rx/tx queues backed by a
// driver.Driver. A Port returned by Open* owns the underlying driver
// port and will free it on Close, except a BESS or OVS ring port, whose
// ring is externally owned; a Port returned by Copy aliases the same
// driver port and counters but does not free anything on Close.
type Port struct {
	drv         driver.Driver
	index       int
	rxQueues    int
	txQueues    int
	counters    *counterSet
	shouldClose bool
	log         *logging.Logger
}

// Option configures a Port at Open time.
type Option func(*driver.PortConfig)

// WithQueues sets the requested rx/tx queue counts. Physical ports
// may receive fewer than requested back from the driver; virtual
// ring ports require an exact match.
func WithQueues(rx, tx int) Option {
	return func(c *driver.PortConfig) { c.RxQueues, c.TxQueues = rx, tx }
}

// WithRingLens overrides the default rx/tx ring sizes
// (driver.DefaultRxRingLen / driver.DefaultTxRingLen).
func WithRingLens(rx, tx int) Option {
	return func(c *driver.PortConfig) { c.RxRingLen, c.TxRingLen = rx, tx }
}

// WithCores passes rx/tx core hints through to the driver for its own
// thread/core affinity; this package never pins threads itself.
func WithCores(rx, tx []int) Option {
	return func(c *driver.PortConfig) { c.RxCores, c.TxCores = rx, tx }
}

func buildConfig(kind driver.PortKind, opts []Option) driver.PortConfig {
	cfg := driver.PortConfig{
		Kind:      kind,
		RxQueues:  1,
		TxQueues:  1,
		RxRingLen: driver.DefaultRxRingLen,
		TxRingLen: driver.DefaultTxRingLen,
	}
	if kind == driver.KindNull {
		cfg.RxQueues, cfg.TxQueues = 0, 0
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ownsRing reports whether a port of this kind owns the driver-side
// resource and must release it on Close. Virtual rings (BESS/OVS) are
// externally owned: the descriptor they were opened from names a ring
// that outlives this process, so Close on a port wrapping one must be
// a no-op.
func ownsRing(kind driver.PortKind) bool {
	return kind != driver.KindBESSRing && kind != driver.KindOVSRing
}

func open(drv driver.Driver, index int, cfg driver.PortConfig) (*Port, error) {
	rx, tx, err := drv.InitPort(index, cfg)
	if err != nil {
		logging.Default().Debug("pmd: InitPort failed", "port", index, "kind", cfg.Kind, "err", err)
		wrapped := e2derr.Wrap("pmd.Open", index, -1, err)
		if wrapped.Code == e2derr.Unknown {
			wrapped.Code = e2derr.FailedToInitializePort
		}
		return nil, wrapped
	}
	p := &Port{
		drv:         drv,
		index:       index,
		rxQueues:    rx,
		txQueues:    tx,
		counters:    &counterSet{rx: make([]atomic.Uint64, rx), tx: make([]atomic.Uint64, tx)},
		shouldClose: ownsRing(cfg.Kind),
		log:         logging.Default(),
	}
	p.log.Debug("pmd: port opened", "port", index, "rxQueues", rx, "txQueues", tx)
	return p, nil
}

// Open brings up a physical, multi-queue port on drv at index.
func Open(drv driver.Driver, index int, opts ...Option) (*Port, error) {
	return open(drv, index, buildConfig(driver.KindPhysical, opts))
}

// OpenSingleQueue brings up a single rx/tx queue physical port,
// ignoring any WithQueues option (it always requests exactly one
// queue each way).
func OpenSingleQueue(drv driver.Driver, index int, opts ...Option) (*Port, error) {
	cfg := buildConfig(driver.KindSingleQueue, opts)
	cfg.RxQueues, cfg.TxQueues = 1, 1
	return open(drv, index, cfg)
}

// OpenLoopback brings up a loopback port: packets sent on a tx queue
// become available on the corresponding rx queue, driver-side.
func OpenLoopback(drv driver.Driver, index int, opts ...Option) (*Port, error) {
	return open(drv, index, buildConfig(driver.KindLoopback, opts))
}

// OpenNull brings up a null port: it has zero rx and zero tx queues
// (unless WithQueues overrides that), so it never performs I/O and
// every Recv or Send on it fails with BadQueue. Useful as a sentinel
// port value.
func OpenNull(drv driver.Driver, index int, opts ...Option) (*Port, error) {
	return open(drv, index, buildConfig(driver.KindNull, opts))
}

// OpenVdev parses a "bess:<name>" or "ovs:<id>" descriptor and opens
// the corresponding virtual ring port, returning BadVdev if vdev is
// malformed.
func OpenVdev(drv driver.Driver, index int, vdev string, opts ...Option) (*Port, error) {
	kind, name, id, err := parseVdev(vdev)
	if err != nil {
		return nil, err
	}
	cfg := buildConfig(kind, opts)
	cfg.VdevName, cfg.VdevID = name, id
	return open(drv, index, cfg)
}

// OpenBESSRing brings up a BESS virtual ring port directly, without
// going through the "bess:<name>" string form.
func OpenBESSRing(drv driver.Driver, index int, name string, opts ...Option) (*Port, error) {
	cfg := buildConfig(driver.KindBESSRing, opts)
	cfg.VdevName = name
	return open(drv, index, cfg)
}

// OpenOVSRing brings up an OVS virtual ring port directly, without
// going through the "ovs:<id>" string form.
func OpenOVSRing(drv driver.Driver, index, id int, opts ...Option) (*Port, error) {
	cfg := buildConfig(driver.KindOVSRing, opts)
	cfg.VdevID = id
	return open(drv, index, cfg)
}

// Close tears down the port if this Port owns it (i.e. it was not
// produced by Copy and does not wrap a BESS or OVS ring). Closing a
// non-owning port is a no-op.
func (p *Port) Close() error {
	if !p.shouldClose {
		return nil
	}
	p.shouldClose = false
	if err := p.drv.FreePort(p.index); err != nil {
		return e2derr.Wrap("pmd.Close", p.index, -1, err)
	}
	return nil
}

// Copy returns a non-owning alias of p: it shares p's driver port and
// counters, but Close on the copy never frees the underlying driver
// port. Exactly one of p and its copies should ever have Close called
// with effect.
func (p *Port) Copy() *Port {
	return &Port{
		drv:         p.drv,
		index:       p.index,
		rxQueues:    p.rxQueues,
		txQueues:    p.txQueues,
		counters:    p.counters,
		shouldClose: false,
		log:         p.log,
	}
}

// NumQueues returns the port's rx and tx queue counts.
func (p *Port) NumQueues() (rx, tx int) { return p.rxQueues, p.txQueues }

// MAC returns the port's MAC address.
func (p *Port) MAC() (net.HardwareAddr, error) {
	mac, err := p.drv.MACAddr(p.index)
	if err != nil {
		return nil, e2derr.Wrap("pmd.MAC", p.index, -1, err)
	}
	return mac, nil
}

// checkQueue enforces the strict out-of-bounds check: queue is valid
// only for 0 <= queue < count. The reference implementation used
// `count < queue`, which admits queue == count; this uses `queue >=
// count`, which does not.
func checkQueue(op string, port, queue, count int) error {
	if queue < 0 || queue >= count {
		return e2derr.NewQueue(op, port, queue, e2derr.BadQueue, "queue index out of range")
	}
	return nil
}

// Recv fills slots with up to len(slots) buffers received on queue,
// returning how many were filled. Counters are only incremented on
// success; a BadQueue error leaves them untouched.
func (p *Port) Recv(queue int, slots []mbuf.Buffer) (int, error) {
	if err := checkQueue("pmd.Recv", p.index, queue, p.rxQueues); err != nil {
		return 0, err
	}
	n, err := p.drv.Recv(p.index, queue, slots)
	if err != nil {
		return 0, &e2derr.Error{Op: "pmd.Recv", Port: p.index, Queue: queue, Code: e2derr.RecvFailure, Msg: err.Error(), Inner: err}
	}
	p.counters.rx[queue].Add(uint64(n))
	return n, nil
}

// Send hands slots to queue, returning how many were accepted. A
// return value less than len(slots) is a partial send, not an error;
// ownership of the unaccepted tail remains with the caller (see
// batch.Send for the drop-to-counter policy built on top of this).
func (p *Port) Send(queue int, slots []mbuf.Buffer) (int, error) {
	if err := checkQueue("pmd.Send", p.index, queue, p.txQueues); err != nil {
		return 0, err
	}
	n, err := p.drv.Send(p.index, queue, slots)
	if err != nil {
		return 0, &e2derr.Error{Op: "pmd.Send", Port: p.index, Queue: queue, Code: e2derr.SendFailure, Msg: err.Error(), Inner: err}
	}
	p.counters.tx[queue].Add(uint64(n))
	return n, nil
}

// Stats returns queue's rx/tx counters.
func (p *Port) Stats(queue int) (Stats, error) {
	if queue < 0 || (queue >= p.rxQueues && queue >= p.txQueues) {
		return Stats{}, e2derr.NewQueue("pmd.Stats", p.index, queue, e2derr.BadQueue, "queue index out of range")
	}
	var s Stats
	if queue < p.rxQueues {
		s.Rx = p.counters.rx[queue].Load()
	}
	if queue < p.txQueues {
		s.Tx = p.counters.tx[queue].Load()
	}
	return s, nil
}
