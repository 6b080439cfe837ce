package tasksync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func expectSilence(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("unexpected signal: %s", what)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifierFansOut(t *testing.T) {
	notifier := NewNotifier()
	first := notifier.Subscribe()
	second := notifier.Subscribe()

	notifier.Publish()
	receive(t, first, "first subscriber")
	receive(t, second, "second subscriber")

	notifier.Unsubscribe(second)
	notifier.Publish()
	receive(t, first, "first subscriber after unsubscribe")
	expectSilence(t, second, "unsubscribed channel")
}

func TestNotifierCollapsesBursts(t *testing.T) {
	notifier := NewNotifier()
	ch := notifier.Subscribe()

	notifier.Publish()
	notifier.Publish()
	notifier.Publish()

	receive(t, ch, "collapsed burst")
	expectSilence(t, ch, "second delivery from burst")
}

func TestBroadcasterReachesOtherProcessesNotItself(t *testing.T) {
	dir := t.TempDir()

	senderNotifier := NewNotifier()
	sender, err := NewBroadcaster(senderNotifier, dir, nil)
	require.NoError(t, err)
	defer sender.Close()

	receiverNotifier := NewNotifier()
	receiver, err := NewBroadcaster(receiverNotifier, dir, nil)
	require.NoError(t, err)
	defer receiver.Close()

	senderLocal := senderNotifier.Subscribe()
	receiverRemote := receiverNotifier.Subscribe()

	sender.Publish()

	// The sender fires its own notifier directly (same-process listeners),
	// the receiver hears it through the watched file.
	receive(t, senderLocal, "sender's local notifier")
	receive(t, receiverRemote, "receiver's broadcast delivery")

	// The sender must not receive a second, echoed signal for its own write.
	expectSilence(t, senderLocal, "echo of own broadcast")
}

func TestPollerPauseAndResume(t *testing.T) {
	notifier := NewNotifier()
	ch := notifier.Subscribe()

	poller := NewPoller(notifier, 30*time.Millisecond)
	defer poller.Stop()

	receive(t, ch, "first tick")

	poller.Pause()
	// Drain anything already in flight, then expect quiet.
	select {
	case <-ch:
	default:
	}
	expectSilence(t, ch, "tick while paused")

	poller.Resume()
	receive(t, ch, "tick after resume")
}

func TestHubFocusTriggersRefresh(t *testing.T) {
	hub, err := NewHub(t.TempDir(), 0, nil)
	require.NoError(t, err)
	defer hub.Close()

	ch := hub.Subscribe()
	hub.FocusGained()
	receive(t, ch, "refresh on focus")

	hub.Unsubscribe(ch)
	hub.FocusGained()
	expectSilence(t, ch, "signal after unsubscribe")
}

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub, err := NewHub(t.TempDir(), 0, nil)
	require.NoError(t, err)
	defer hub.Close()

	ch := hub.Subscribe()
	hub.Publish()
	receive(t, ch, "published refresh")
}
