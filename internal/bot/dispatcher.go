package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/warden/internal/gateway"
)

const (
	// defaultRetryAttempts is how many times a store-classed lifecycle
	// failure is retried before the event is dropped.
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 500 * time.Millisecond
)

// Dispatcher consumes inbound gateway events and routes them to the
// handler. Store failures during lifecycle processing are retried with a
// short backoff and then dropped with an error log; they never take the
// process down.
type Dispatcher struct {
	handler *Handler
	sub     gateway.Subscriber
	logger  *slog.Logger

	attempts int
	backoff  time.Duration

	cancel func()
	wg     sync.WaitGroup
}

// NewDispatcher wires a dispatcher for the given handler and subscriber.
func NewDispatcher(h *Handler, sub gateway.Subscriber, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handler:  h,
		sub:      sub,
		logger:   logger,
		attempts: defaultRetryAttempts,
		backoff:  defaultRetryBackoff,
	}
}

// Start subscribes to the gateway event stream and begins dispatching.
func (d *Dispatcher) Start() error {
	ch, cancel, err := d.sub.Subscribe(gateway.SubjectEvents)
	if err != nil {
		return err
	}
	d.cancel = cancel

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for msg := range ch {
			d.dispatch(context.Background(), msg)
		}
	}()
	return nil
}

// Stop unsubscribes and waits for in-flight dispatches to finish.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, msg gateway.Message) {
	switch msg.Subject {
	case gateway.SubjectGuildJoined:
		var ev gateway.GuildJoined
		if !d.decode(msg, &ev) {
			return
		}
		d.withRetry(ctx, msg.Subject, func(ctx context.Context) error {
			return d.handler.HandleGuildJoined(ctx, ev)
		})

	case gateway.SubjectGuildLeft:
		var ev gateway.GuildLeft
		if !d.decode(msg, &ev) {
			return
		}
		d.withRetry(ctx, msg.Subject, func(ctx context.Context) error {
			return d.handler.HandleGuildLeft(ctx, ev)
		})

	case gateway.SubjectCacheReady:
		var ev gateway.CacheReady
		if !d.decode(msg, &ev) {
			return
		}
		d.withRetry(ctx, msg.Subject, func(ctx context.Context) error {
			return d.handler.HandleCacheReady(ctx, ev)
		})

	case gateway.SubjectPrefixCommand:
		var req gateway.PrefixInvocation
		if !d.decode(msg, &req) {
			return
		}
		// Commands are terminal: the handler has already replied to the
		// user, so failures are only logged here.
		if err := d.handler.HandlePrefixCommand(ctx, req); err != nil {
			d.logger.Debug("prefix command rejected",
				"guild_id", req.GuildID, "user_id", req.UserID, "err", err)
		}

	case gateway.SubjectSessionReady:
		var ev gateway.SessionReady
		if !d.decode(msg, &ev) {
			return
		}
		d.logger.Info("gateway session ready",
			"username", ev.Username,
			"shard", ev.ShardID,
			"shard_total", ev.ShardTotal,
			"guilds", ev.GuildCount)

	case gateway.SubjectSessionResumed:
		d.logger.Info("gateway session resumed")

	default:
		d.logger.Debug("unhandled gateway subject", "subject", msg.Subject)
	}
}

func (d *Dispatcher) decode(msg gateway.Message, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		d.logger.Warn("bad gateway payload", "subject", msg.Subject, "err", err)
		return false
	}
	return true
}

// withRetry runs fn, retrying store-classed failures with a fixed backoff.
// An event that keeps failing is dropped; the next lifecycle event or
// cache-ready reload reconciles the state.
func (d *Dispatcher) withRetry(ctx context.Context, subject string, fn func(context.Context) error) {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return
		}
		if !retryable(err) {
			break
		}
		d.logger.Warn("event handling failed, retrying",
			"subject", subject, "attempt", attempt, "err", err)
		time.Sleep(d.backoff)
	}
	d.logger.Error("event dropped", "subject", subject, "err", err)
}
