// Package pipeline drives a combinator chain in a tight loop: it owns
// no domain logic, only the per-core run/stop scaffolding a real
// deployment needs around batch.Combinator.
package pipeline

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/nvpkt/e2d2go/batch"
	"github.com/nvpkt/e2d2go/internal/logging"
)

// Config configures a Runner.
type Config struct {
	// Sink is the outermost node of the combinator chain to drive;
	// typically a *batch.Send.
	Sink batch.Combinator

	// CPU, when >= 0, pins the runner's goroutine to that OS thread
	// affinity before entering the loop. Core/thread affinity is this
	// package's only nod to the driver's scheduling needs; it never
	// makes scheduling decisions on the driver's behalf otherwise.
	CPU int
}

// Runner drives one combinator chain on one goroutine until stopped.
// Exactly one goroutine ever calls Sink.Act/Done: the concurrency
// model this repo implements is single-threaded-per-pipeline.
type Runner struct {
	cfg     Config
	stop    chan struct{}
	stopped chan struct{}
	log     *logging.Logger

	ticks atomic.Uint64
}

// New builds a Runner from cfg.
func New(cfg Config) *Runner {
	return &Runner{
		cfg:     cfg,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		log:     logging.Default(),
	}
}

// Start launches the run loop in a new goroutine and returns
// immediately. Call Stop to end it.
func (r *Runner) Start() {
	go r.loop()
}

func (r *Runner) loop() {
	defer close(r.stopped)

	if r.cfg.CPU >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := pinToCPU(r.cfg.CPU); err != nil {
			r.log.Warn("pipeline: failed to pin to CPU", "cpu", r.cfg.CPU, "err", err)
		}
	}

	for {
		select {
		case <-r.stop:
			r.cfg.Sink.Done()
			return
		default:
			r.cfg.Sink.Act()
			r.ticks.Add(1)
		}
	}
}

// Stop signals the run loop to exit and blocks until it has, calling
// Sink.Done exactly once on the way out.
func (r *Runner) Stop() {
	close(r.stop)
	<-r.stopped
}

// Ticks reports how many Act calls have completed so far; safe to
// call from any goroutine while the loop is running, matching the
// relaxed-read contract spec.md §5 gives the port's own counters.
func (r *Runner) Ticks() uint64 { return r.ticks.Load() }

func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
