package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/warden/internal/gateway"
	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/settings"
)

// DefaultStatusInterval is how often the status string is republished.
const DefaultStatusInterval = 3 * time.Second

// StatusText formats the presence string from the tracked guild count.
func StatusText(guilds int) string {
	return fmt.Sprintf("Monitoring a total of %d guilds | %shelp", guilds, model.DefaultPrefix)
}

// StatusLoop republishes the bot's presence string on a fixed interval.
//
// The launch signal recurs (once per reconnect, and again whenever guild
// membership changes), but the loop must run at most once per process. A
// dedicated supervisor goroutine owns the loop and receives from a
// capacity-one launch channel exactly once; Signal forwards with a
// non-blocking send. The single-instance invariant is structural: there is
// no flag to check and no second receive.
type StatusLoop struct {
	cache    *settings.Cache
	notifier gateway.Notifier
	interval time.Duration
	logger   *slog.Logger

	launch   chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewStatusLoop creates the loop and starts its supervisor. The loop itself
// stays dormant until the first Signal.
func NewStatusLoop(cache *settings.Cache, notifier gateway.Notifier, interval time.Duration, logger *slog.Logger) *StatusLoop {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &StatusLoop{
		cache:    cache,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		launch:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.supervise()
	return l
}

// Signal forwards the launch signal to the supervisor. Safe to call any
// number of times from any goroutine; every signal after the first is
// dropped.
func (l *StatusLoop) Signal() {
	select {
	case l.launch <- struct{}{}:
	default:
	}
}

// Stop shuts the loop down and waits for the supervisor to exit. Only used
// on process shutdown and in tests; a running daemon keeps the loop for its
// whole lifetime.
func (l *StatusLoop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

func (l *StatusLoop) supervise() {
	defer close(l.done)

	select {
	case <-l.launch:
	case <-l.stop:
		return
	}

	l.logger.Info("status loop started", "interval", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.publish()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.publish()
		}
	}
}

// publish pushes the current status string to the gateway. Fire-and-forget:
// a failed publish is logged and the next tick simply tries again.
func (l *StatusLoop) publish() {
	ctx, cancel := context.WithTimeout(context.Background(), l.interval)
	defer cancel()

	status := StatusText(l.cache.Size())
	if err := l.notifier.SetPresence(ctx, status); err != nil {
		l.logger.Debug("presence publish failed", "err", err)
	}
}
