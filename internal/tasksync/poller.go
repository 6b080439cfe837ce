package tasksync

import (
	"sync"
	"time"
)

// Poller signals the Notifier on a fixed interval. It is the consistency
// fallback for task mutations that never reach this process any other way —
// the chat agent's tool calls in particular have no push channel back to the
// client. Paused while the terminal is unfocused, mirroring the broadcast
// semantics of only polling visible surfaces.
type Poller struct {
	notifier *Notifier
	interval time.Duration

	mu     sync.Mutex
	paused bool

	stopOnce sync.Once
	stop     chan struct{}
}

// NewPoller starts polling immediately.
func NewPoller(notifier *Notifier, interval time.Duration) *Poller {
	p := &Poller{
		notifier: notifier,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			paused := p.paused
			p.mu.Unlock()
			if !paused {
				p.notifier.Publish()
			}
		}
	}
}

// Pause suppresses ticks without stopping the goroutine.
func (p *Poller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume re-enables ticks.
func (p *Poller) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// Stop tears the poller down. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}
