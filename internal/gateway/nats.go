package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/groblegark/warden/internal/idgen"
)

// permissionTimeout bounds a permission request/reply round-trip when the
// caller's context carries no deadline of its own.
const permissionTimeout = 5 * time.Second

// NATSGateway talks to the gateway bridge over NATS. It implements
// Notifier, PermissionOracle, and Subscriber on a single connection.
type NATSGateway struct {
	conn *nats.Conn
}

var (
	_ Notifier         = (*NATSGateway)(nil)
	_ PermissionOracle = (*NATSGateway)(nil)
	_ Subscriber       = (*NATSGateway)(nil)
)

// Connect dials NATS with automatic reconnection. Extra nats.Option values
// (e.g. disconnect/reconnect handlers) can be appended.
func Connect(url string, opts ...nats.Option) (*NATSGateway, error) {
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSGateway{conn: nc}, nil
}

// SetPresence publishes a presence update for the bridge to forward.
func (g *NATSGateway) SetPresence(ctx context.Context, status string) error {
	return g.publish(SubjectPresenceSet, PresenceUpdate{
		MessageID: messageID(),
		Status:    status,
	})
}

// SendReply publishes a channel message for the bridge to deliver.
func (g *NATSGateway) SendReply(ctx context.Context, channelID uint64, content string) error {
	return g.publish(SubjectReplySend, Reply{
		MessageID: messageID(),
		ChannelID: channelID,
		Content:   content,
	})
}

// messageID returns a correlation id for an outbound message. Correlation is
// best-effort; a generation failure yields an empty id, not an error.
func messageID() string {
	id, err := idgen.Generate()
	if err != nil {
		return ""
	}
	return id
}

// IsAdministrator asks the bridge whether the member holds administrator
// permission, over NATS request/reply.
func (g *NATSGateway) IsAdministrator(ctx context.Context, guildID, userID uint64) (bool, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, permissionTimeout)
		defer cancel()
	}

	data, err := json.Marshal(PermissionQuery{GuildID: guildID, UserID: userID})
	if err != nil {
		return false, fmt.Errorf("marshaling permission query: %w", err)
	}

	msg, err := g.conn.RequestWithContext(ctx, SubjectPermissionCheck, data)
	if err != nil {
		return false, fmt.Errorf("permission check for user %d in guild %d: %w", userID, guildID, err)
	}

	var result PermissionResult
	if err := json.Unmarshal(msg.Data, &result); err != nil {
		return false, fmt.Errorf("unmarshaling permission result: %w", err)
	}
	return result.Administrator, nil
}

func (g *NATSGateway) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", subject, err)
	}
	return g.conn.Publish(subject, data)
}

// Subscribe returns a channel that receives raw events for the given
// subject (supports NATS wildcards like "gateway.event.>"). Call the
// returned cancel function to unsubscribe and close the channel.
func (g *NATSGateway) Subscribe(subject string) (<-chan Message, func(), error) {
	ch := make(chan Message, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := g.conn.Subscribe(subject, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- Message{Subject: msg.Subject, Data: msg.Data}:
		default:
			// Drop message if channel is full to avoid blocking the NATS client.
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	// Flush ensures the subscription is registered on the server before
	// returning, so that messages published on other connections are routed.
	if err := g.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			mu.Unlock()
			// Drain remaining messages so senders don't block, then close.
			for {
				select {
				case <-ch:
				default:
					close(ch)
					return
				}
			}
		})
	}

	return ch, cancel, nil
}

// Close closes the underlying NATS connection.
func (g *NATSGateway) Close() error {
	g.conn.Close()
	return nil
}
