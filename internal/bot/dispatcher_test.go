package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/groblegark/warden/internal/gateway"
	"github.com/groblegark/warden/internal/settings"
)

// fakeSubscriber hands out a pre-made channel as the event stream.
type fakeSubscriber struct {
	ch chan gateway.Message
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{ch: make(chan gateway.Message, 16)}
}

func (f *fakeSubscriber) Subscribe(subject string) (<-chan gateway.Message, func(), error) {
	return f.ch, func() { close(f.ch) }, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func (f *fakeSubscriber) emit(t *testing.T, subject string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	f.ch <- gateway.Message{Subject: subject, Data: data}
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeSubscriber, *settings.Cache, *fakeStore) {
	t.Helper()
	h, cache, st, _, _ := newTestHandler(t)
	sub := newFakeSubscriber()
	d := NewDispatcher(h, sub, slog.Default())
	d.backoff = time.Millisecond
	if err := d.Start(); err != nil {
		t.Fatalf("starting dispatcher: %v", err)
	}
	t.Cleanup(d.Stop)
	return d, sub, cache, st
}

func TestDispatcher_RoutesLifecycleEvents(t *testing.T) {
	_, sub, cache, st := newTestDispatcher(t)

	sub.emit(t, gateway.SubjectGuildJoined, gateway.GuildJoined{GuildID: 123, OwnerID: 456})
	waitFor(t, func() bool { _, ok := cache.Get(123); return ok })

	if row, ok := st.row(123); !ok || row.Prefix != "-" {
		t.Fatalf("expected store row with default prefix, got %+v ok=%v", row, ok)
	}

	sub.emit(t, gateway.SubjectGuildLeft, gateway.GuildLeft{GuildID: 123})
	waitFor(t, func() bool { _, ok := cache.Get(123); return !ok })

	if _, ok := st.row(123); ok {
		t.Error("expected store row removed after leave event")
	}
}

func TestDispatcher_RoutesPrefixCommand(t *testing.T) {
	_, sub, cache, _ := newTestDispatcher(t)

	sub.emit(t, gateway.SubjectGuildJoined, gateway.GuildJoined{GuildID: 123, OwnerID: 456})
	waitFor(t, func() bool { _, ok := cache.Get(123); return ok })

	sub.emit(t, gateway.SubjectPrefixCommand, gateway.PrefixInvocation{
		GuildID: 123, ChannelID: 9, UserID: 1, Arg: "!",
	})
	waitFor(t, func() bool {
		s, ok := cache.Get(123)
		return ok && s.Prefix == "!"
	})
}

func TestDispatcher_BadPayloadIsDropped(t *testing.T) {
	_, sub, cache, _ := newTestDispatcher(t)

	sub.ch <- gateway.Message{Subject: gateway.SubjectGuildJoined, Data: []byte("not json")}
	sub.emit(t, gateway.SubjectGuildJoined, gateway.GuildJoined{GuildID: 123, OwnerID: 456})

	// The malformed event is skipped; the stream keeps flowing.
	waitFor(t, func() bool { _, ok := cache.Get(123); return ok })
}

func TestDispatcher_UnknownSubjectIgnored(t *testing.T) {
	_, sub, cache, _ := newTestDispatcher(t)

	sub.ch <- gateway.Message{Subject: "gateway.event.something.else", Data: []byte("{}")}
	sub.emit(t, gateway.SubjectSessionReady, gateway.SessionReady{Username: "warden", GuildCount: 2})
	sub.emit(t, gateway.SubjectSessionResumed, gateway.SessionResumed{})
	sub.emit(t, gateway.SubjectGuildJoined, gateway.GuildJoined{GuildID: 5, OwnerID: 6})

	waitFor(t, func() bool { _, ok := cache.Get(5); return ok })
}

func TestWithRetry_RetriesStoreFailures(t *testing.T) {
	h, _, _, _, _ := newTestHandler(t)
	d := NewDispatcher(h, newFakeSubscriber(), slog.Default())
	d.backoff = time.Millisecond

	attempts := 0
	d.withRetry(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &StoreWriteError{Op: "upsert", GuildID: 1, Err: errBoom}
		}
		return nil
	})
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_GivesUpAfterAttempts(t *testing.T) {
	h, _, _, _, _ := newTestHandler(t)
	d := NewDispatcher(h, newFakeSubscriber(), slog.Default())
	d.backoff = time.Millisecond

	attempts := 0
	d.withRetry(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return &StoreReadError{Op: "list", Err: errBoom}
	})
	if attempts != defaultRetryAttempts {
		t.Errorf("expected %d attempts, got %d", defaultRetryAttempts, attempts)
	}
}

func TestWithRetry_NonRetryableFailsFast(t *testing.T) {
	h, _, _, _, _ := newTestHandler(t)
	d := NewDispatcher(h, newFakeSubscriber(), slog.Default())
	d.backoff = time.Millisecond

	attempts := 0
	d.withRetry(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return errBoom
	})
	if attempts != 1 {
		t.Errorf("expected 1 attempt for non-retryable error, got %d", attempts)
	}
}
