package search

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Runtime is the process-wide search context: the stop flag every search
// polls, the registry of running workers and a shared random source.
type Runtime struct {
	threads int
	stop    atomic.Bool
	log     zerolog.Logger

	mu      sync.Mutex
	nextID  uint64
	workers map[uint64]*worker

	rngMu sync.Mutex
	rng   *rand.Rand
}

type worker struct {
	id   uint64
	name string
	done chan struct{}
}

// NewRuntime returns a runtime that lets searches fan out over threads
// workers. threads <= 0 means one per CPU.
func NewRuntime(threads int, seed int64, log zerolog.Logger) *Runtime {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Runtime{
		threads: threads,
		log:     log.With().Str("component", "search").Logger(),
		workers: make(map[uint64]*worker),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (rt *Runtime) Threads() int {
	return rt.threads
}

func (rt *Runtime) Logger() zerolog.Logger {
	return rt.log
}

// Stopped reports whether running searches should wind down.
func (rt *Runtime) Stopped() bool {
	return rt.stop.Load()
}

// Go runs fn on a registered worker.
func (rt *Runtime) Go(name string, fn func()) {
	rt.mu.Lock()
	rt.nextID++
	w := &worker{id: rt.nextID, name: name, done: make(chan struct{})}
	rt.workers[w.id] = w
	rt.mu.Unlock()

	rt.log.Debug().Uint64("worker_id", w.id).Str("worker", name).Msg("worker started")
	go func() {
		defer close(w.done)
		fn()
	}()
}

// Reap forgets workers that have finished and returns how many are still
// running.
func (rt *Runtime) Reap() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for id, w := range rt.workers {
		select {
		case <-w.done:
			delete(rt.workers, id)
			rt.log.Debug().Uint64("worker_id", id).Str("worker", w.name).Msg("worker reaped")
		default:
		}
	}
	return len(rt.workers)
}

// Wait blocks until every registered worker has returned.
func (rt *Runtime) Wait() {
	for _, w := range rt.snapshot() {
		<-w.done
	}
	rt.Reap()
}

// Stop raises the stop flag, joins every worker and lowers the flag again so
// the next search can start.
func (rt *Runtime) Stop() {
	rt.stop.Store(true)
	rt.Wait()
	rt.stop.Store(false)
	rt.log.Debug().Msg("search stopped")
}

// Close stops all workers for good.
func (rt *Runtime) Close() {
	rt.stop.Store(true)
	rt.Wait()
}

func (rt *Runtime) snapshot() []*worker {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	workers := make([]*worker, 0, len(rt.workers))
	for _, w := range rt.workers {
		workers = append(workers, w)
	}
	return workers
}

// Intn is rand.Intn on the shared source.
func (rt *Runtime) Intn(n int) int {
	rt.rngMu.Lock()
	defer rt.rngMu.Unlock()
	return rt.rng.Intn(n)
}

// Float64 is rand.Float64 on the shared source.
func (rt *Runtime) Float64() float64 {
	rt.rngMu.Lock()
	defer rt.rngMu.Unlock()
	return rt.rng.Float64()
}
