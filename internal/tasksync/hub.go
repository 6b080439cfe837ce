package tasksync

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Hub wires the four refresh sources — local publishes, cross-process
// broadcasts, focus regained, and the poll timer — into one subscription.
type Hub struct {
	notifier    *Notifier
	broadcaster *Broadcaster
	poller      *Poller
}

// DefaultBroadcastDir is the shared directory for the broadcast file.
func DefaultBroadcastDir() string {
	return filepath.Join(os.TempDir(), "taskflow")
}

// NewHub constructs the hub. A zero poll interval disables the poller.
func NewHub(broadcastDir string, pollInterval time.Duration, logger *zap.Logger) (*Hub, error) {
	notifier := NewNotifier()
	broadcaster, err := NewBroadcaster(notifier, broadcastDir, logger)
	if err != nil {
		return nil, err
	}

	hub := &Hub{notifier: notifier, broadcaster: broadcaster}
	if pollInterval > 0 {
		hub.poller = NewPoller(notifier, pollInterval)
	}
	return hub, nil
}

// Subscribe registers a refresh listener.
func (h *Hub) Subscribe() chan struct{} {
	return h.notifier.Subscribe()
}

// Unsubscribe removes a refresh listener.
func (h *Hub) Unsubscribe(ch chan struct{}) {
	h.notifier.Unsubscribe(ch)
}

// Publish announces that tasks changed, locally and to other processes.
func (h *Hub) Publish() {
	h.broadcaster.Publish()
}

// FocusGained resumes polling and requests an immediate refresh: broadcasts
// received while unfocused may have been consumed already.
func (h *Hub) FocusGained() {
	if h.poller != nil {
		h.poller.Resume()
	}
	h.notifier.Publish()
}

// FocusLost pauses polling. Broadcast events still arrive.
func (h *Hub) FocusLost() {
	if h.poller != nil {
		h.poller.Pause()
	}
}

// Close tears down the poller and the broadcast watcher.
func (h *Hub) Close() error {
	if h.poller != nil {
		h.poller.Stop()
	}
	return h.broadcaster.Close()
}
