// Package tasksync propagates "tasks changed" notifications between the
// surfaces that display tasks: within a process, across processes on the
// same machine, and on a timed fallback. Every trigger funnels into one
// refresh-requested signal; consumers subscribe once and refetch on each
// delivery. Delivery is fire-and-forget with no ordering guarantee —
// refetches are idempotent and last-write-wins, so duplicates are harmless.
package tasksync

import "sync"

// Notifier fans a signal out to in-process subscribers.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewNotifier constructs an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: map[chan struct{}]struct{}{}}
}

// Subscribe registers a listener. The channel has a buffer of one; a signal
// arriving while one is already pending is dropped, which collapses bursts
// into a single refetch.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.subs, ch)
	n.mu.Unlock()
}

// Publish signals every subscriber without blocking.
func (n *Notifier) Publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
