package bot

import (
	"log/slog"
	"testing"
	"time"

	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/settings"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStatusText(t *testing.T) {
	got := StatusText(14)
	want := "Monitoring a total of 14 guilds | -help"
	if got != want {
		t.Errorf("StatusText(14) = %q, want %q", got, want)
	}
}

func TestStatusLoop_DormantUntilSignaled(t *testing.T) {
	cache := settings.New()
	notifier := &fakeNotifier{}
	loop := NewStatusLoop(cache, notifier, 10*time.Millisecond, slog.Default())
	defer loop.Stop()

	time.Sleep(50 * time.Millisecond)
	if n := notifier.presenceCount(); n != 0 {
		t.Fatalf("expected no publishes before Signal, got %d", n)
	}

	loop.Signal()
	waitFor(t, func() bool { return notifier.presenceCount() >= 2 })
}

func TestStatusLoop_PublishesGuildCount(t *testing.T) {
	cache := settings.New()
	cache.SetIfAbsent(1, model.DefaultSettings(1, 1))
	cache.SetIfAbsent(2, model.DefaultSettings(2, 2))

	notifier := &fakeNotifier{}
	loop := NewStatusLoop(cache, notifier, 10*time.Millisecond, slog.Default())
	defer loop.Stop()

	loop.Signal()
	waitFor(t, func() bool { return notifier.presenceCount() >= 1 })

	notifier.mu.Lock()
	first := notifier.presences[0]
	notifier.mu.Unlock()
	if first != "Monitoring a total of 2 guilds | -help" {
		t.Errorf("got status %q", first)
	}
}

func TestStatusLoop_SignalBurstStartsOneLoop(t *testing.T) {
	cache := settings.New()
	notifier := &fakeNotifier{}
	loop := NewStatusLoop(cache, notifier, 20*time.Millisecond, slog.Default())
	defer loop.Stop()

	// The cache-ready signal recurs; five in a burst must still yield a
	// single ticking loop.
	for range 5 {
		loop.Signal()
	}

	waitFor(t, func() bool { return notifier.presenceCount() >= 1 })
	time.Sleep(200 * time.Millisecond)

	// One loop at 20ms publishes roughly 10 times in 200ms. Five loops
	// would publish roughly 50. Split the difference generously.
	if n := notifier.presenceCount(); n > 30 {
		t.Fatalf("too many publishes for a single loop: %d", n)
	}
}

func TestStatusLoop_PublishFailureKeepsTicking(t *testing.T) {
	cache := settings.New()
	notifier := &fakeNotifier{sendErr: errBoom}
	loop := NewStatusLoop(cache, notifier, 10*time.Millisecond, slog.Default())
	defer loop.Stop()

	loop.Signal()
	time.Sleep(60 * time.Millisecond)

	// Publishing keeps failing; the loop must still be alive and recover
	// once the notifier does.
	notifier.mu.Lock()
	notifier.sendErr = nil
	notifier.mu.Unlock()

	waitFor(t, func() bool { return notifier.presenceCount() >= 1 })
}

func TestStatusLoop_StopBeforeSignal(t *testing.T) {
	cache := settings.New()
	notifier := &fakeNotifier{}
	loop := NewStatusLoop(cache, notifier, 10*time.Millisecond, slog.Default())

	loop.Stop()
	loop.Stop() // idempotent

	loop.Signal() // after Stop: dropped, no panic
	time.Sleep(30 * time.Millisecond)
	if n := notifier.presenceCount(); n != 0 {
		t.Fatalf("expected no publishes after Stop, got %d", n)
	}
}
