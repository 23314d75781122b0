package driver

import (
	"fmt"
	"net"
	"sync"

	"github.com/nvpkt/e2d2go/mbuf"
)

// stubPort holds one port's worth of in-memory queue state.
type stubPort struct {
	rxQueues, txQueues int
	mac                net.HardwareAddr
	closed             bool

	rx []([]mbuf.Buffer) // per-queue pending "received" buffers, FIFO
	tx []([]mbuf.Buffer) // per-queue accepted-by-Send log, for assertions

	recvLimit []int   // per-queue cap on buffers returned per Recv call, 0 = unlimited
	sendLimit []int   // per-queue cap on buffers accepted per Send call, 0 = unlimited
	recvErr   []error // per-queue error to return from the next Recv call
	sendErr   []error // per-queue error to return from the next Send call
}

// Stub is an in-process Driver double: it never touches real
// hardware, and every queue's behavior (what Recv yields, how much
// Send accepts, which calls error) is controlled by test code via
// SeedRx/SetRecvLimit/SetSendLimit/SetRecvErr/SetSendErr. It is what
// every test and cmd/e2d2bench run the combinator chain against.
type Stub struct {
	mu    sync.Mutex
	ports map[int]*stubPort
}

var _ Driver = (*Stub)(nil)

// NewStub returns an empty Stub; ports are created lazily by InitPort.
// Calling InitPort again on a port that is already initialized keeps
// its existing queues and reports their counts, so test code can set a
// port up on the Stub before handing the Stub to pmd.Open.
func NewStub() *Stub {
	return &Stub{ports: make(map[int]*stubPort)}
}

func (s *Stub) InitPort(port int, cfg PortConfig) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, exists := s.ports[port]; exists {
		return p.rxQueues, p.txQueues, nil
	}

	rx, tx := cfg.RxQueues, cfg.TxQueues
	if rx <= 0 {
		rx = 1
	}
	if tx <= 0 {
		tx = 1
	}

	p := &stubPort{
		rxQueues:  rx,
		txQueues:  tx,
		mac:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, byte(port)},
		rx:        make([][]mbuf.Buffer, rx),
		tx:        make([][]mbuf.Buffer, tx),
		recvLimit: make([]int, rx),
		sendLimit: make([]int, tx),
		recvErr:   make([]error, rx),
		sendErr:   make([]error, tx),
	}
	s.ports[port] = p
	return rx, tx, nil
}

func (s *Stub) FreePort(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ports[port]
	if !ok {
		return fmt.Errorf("stub: port %d not initialized", port)
	}
	p.closed = true
	return nil
}

func (s *Stub) Recv(port, queue int, slots []mbuf.Buffer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.portQueue(port, queue, true)
	if err != nil {
		return 0, err
	}
	if e := p.recvErr[queue]; e != nil {
		p.recvErr[queue] = nil
		return 0, e
	}

	n := len(slots)
	if avail := len(p.rx[queue]); avail < n {
		n = avail
	}
	if lim := p.recvLimit[queue]; lim > 0 && lim < n {
		n = lim
	}
	copy(slots[:n], p.rx[queue][:n])
	p.rx[queue] = p.rx[queue][n:]
	return n, nil
}

func (s *Stub) Send(port, queue int, slots []mbuf.Buffer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.portQueue(port, queue, false)
	if err != nil {
		return 0, err
	}
	if e := p.sendErr[queue]; e != nil {
		p.sendErr[queue] = nil
		return 0, e
	}

	n := len(slots)
	if lim := p.sendLimit[queue]; lim > 0 && lim < n {
		n = lim
	}
	p.tx[queue] = append(p.tx[queue], slots[:n]...)
	return n, nil
}

func (s *Stub) NumPorts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ports)
}

func (s *Stub) MACAddr(port int) (net.HardwareAddr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ports[port]
	if !ok {
		return nil, fmt.Errorf("stub: port %d not initialized", port)
	}
	return p.mac, nil
}

// portQueue looks up port's stubPort and validates queue is in range
// for the rx (rx=true) or tx (rx=false) queue set. The caller must
// hold s.mu.
func (s *Stub) portQueue(port, queue int, rx bool) (*stubPort, error) {
	p, ok := s.ports[port]
	if !ok {
		return nil, fmt.Errorf("stub: port %d not initialized", port)
	}
	count := p.txQueues
	if rx {
		count = p.rxQueues
	}
	if queue < 0 || queue >= count {
		return nil, fmt.Errorf("stub: queue %d out of range (have %d)", queue, count)
	}
	return p, nil
}

// SeedRx appends buffers to the back of queue's pending-receive FIFO
// on port, to be handed out by subsequent Recv calls in the order seeded.
func (s *Stub) SeedRx(port, queue int, buffers ...mbuf.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ports[port]
	p.rx[queue] = append(p.rx[queue], buffers...)
}

// SetRecvLimit caps how many buffers a single Recv call on port/queue
// returns, regardless of how many slots the caller offers or how many
// are pending. 0 means unlimited.
func (s *Stub) SetRecvLimit(port, queue, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports[port].recvLimit[queue] = n
}

// SetSendLimit caps how many buffers a single Send call on port/queue
// accepts, regardless of how many the caller offers. 0 means
// unlimited, i.e. accept everything offered.
func (s *Stub) SetSendLimit(port, queue, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports[port].sendLimit[queue] = n
}

// SetRecvErr arranges for the next Recv call on port/queue to return
// err instead of its normal behavior; consumed after one call.
func (s *Stub) SetRecvErr(port, queue int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports[port].recvErr[queue] = err
}

// SetSendErr arranges for the next Send call on port/queue to return
// err instead of its normal behavior; consumed after one call.
func (s *Stub) SetSendErr(port, queue int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports[port].sendErr[queue] = err
}

// Sent returns the buffers Send has accepted so far on port/queue, in
// acceptance order, for test assertions.
func (s *Stub) Sent(port, queue int) []mbuf.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mbuf.Buffer(nil), s.ports[port].tx[queue]...)
}

// Pending reports how many buffers remain queued for Recv on
// port/queue.
func (s *Stub) Pending(port, queue int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ports[port].rx[queue])
}

// Closed reports whether FreePort has been called on port, for tests
// asserting that a non-owning pmd.Port (Copy, or a virtual-ring port
// that does not own its backing ring) never tears it down.
func (s *Stub) Closed(port int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ports[port].closed
}
