package tasksync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EventFileName is the shared broadcast file other taskflow processes watch.
const EventFileName = "taskflow-sync.json"

// EventTasksChanged is the only event type currently broadcast.
const EventTasksChanged = "tasks-changed"

// event is the broadcast payload written to the shared file.
type event struct {
	Peer      string `json:"peer"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcaster delivers task-change notifications to every taskflow process
// on the machine by rewriting a shared event file that each process watches.
// The file system does not echo a meaningful "not yours" signal, so each
// event carries the writer's peer id and a process ignores its own writes;
// Publish signals the local Notifier directly instead.
type Broadcaster struct {
	notifier *Notifier
	logger   *zap.Logger
	path     string
	peer     string
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewBroadcaster starts watching the shared directory and feeds received
// events into the given Notifier.
func NewBroadcaster(notifier *Notifier, dir string, logger *zap.Logger) (*Broadcaster, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating broadcast directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "watching broadcast directory")
	}

	b := &Broadcaster{
		notifier: notifier,
		logger:   logger,
		path:     filepath.Join(dir, EventFileName),
		peer:     uuid.New().String(),
		watcher:  watcher,
		done:     make(chan struct{}),
	}
	go b.watch()
	return b, nil
}

// Publish broadcasts a task-change event to other processes and signals the
// local Notifier, which the broadcast file cannot do for our own writes.
func (b *Broadcaster) Publish() {
	payload, err := json.Marshal(event{
		Peer:      b.peer,
		Type:      EventTasksChanged,
		Timestamp: time.Now().UnixMilli(),
	})
	if err == nil {
		// Best effort: a failed write only delays other processes until
		// their next poll.
		if err := os.WriteFile(b.path, payload, 0644); err != nil {
			b.logger.Warn("writing broadcast event", zap.Error(err))
		}
	}
	b.notifier.Publish()
}

// watch pumps file events into the Notifier until Close.
func (b *Broadcaster) watch() {
	for {
		select {
		case <-b.done:
			return
		case fileEvent, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(fileEvent.Name) != EventFileName {
				continue
			}
			if !fileEvent.Has(fsnotify.Write) && !fileEvent.Has(fsnotify.Create) {
				continue
			}
			if b.fromSelf() {
				continue
			}
			b.notifier.Publish()
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.logger.Warn("broadcast watcher error", zap.Error(err))
		}
	}
}

// fromSelf reports whether the current event file was written by this
// process.
func (b *Broadcaster) fromSelf() bool {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		return false
	}
	var received event
	if err := json.Unmarshal(raw, &received); err != nil {
		return false
	}
	return received.Peer == b.peer
}

// Close stops the watcher goroutine.
func (b *Broadcaster) Close() error {
	close(b.done)
	return b.watcher.Close()
}
