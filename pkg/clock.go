package pkg

import (
	"fmt"
	"sync"
	"time"
)

// Clock accumulates the thinking time of one side. It never runs out.
type Clock struct {
	mu      sync.Mutex
	elapsed time.Duration
	started time.Time
	running bool
	now     func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (cl *Clock) String() string {
	e := cl.Elapsed()
	return fmt.Sprintf("%d:%02d", int(e.Minutes()), int(e.Seconds())%60)
}

// Start runs the clock. Starting a running clock does nothing.
func (cl *Clock) Start() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.running {
		return
	}
	cl.running = true
	cl.started = cl.now()
}

func (cl *Clock) Pause() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.running {
		return
	}
	cl.elapsed += cl.now().Sub(cl.started)
	cl.running = false
}

func (cl *Clock) Reset() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.elapsed = 0
	cl.running = false
}

func (cl *Clock) Running() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.running
}

func (cl *Clock) Elapsed() time.Duration {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.running {
		return cl.elapsed + cl.now().Sub(cl.started)
	}
	return cl.elapsed
}
