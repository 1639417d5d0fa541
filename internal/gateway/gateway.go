// Package gateway defines the bot's surface toward the chat platform.
//
// The process never speaks to the platform directly: a gateway bridge sits
// on the platform's websocket and relays lifecycle events onto NATS
// subjects, while presence updates and command replies travel the other
// way. Everything the core needs from the platform is narrowed to the
// interfaces in this package so handlers stay testable without a live
// connection.
package gateway

import "context"

// Inbound event subjects. The dispatcher subscribes to SubjectEvents and
// switches on the concrete subject.
const (
	SubjectEvents = "gateway.event.>"

	SubjectGuildJoined    = "gateway.event.guild.joined"
	SubjectGuildLeft      = "gateway.event.guild.left"
	SubjectCacheReady     = "gateway.event.cache.ready"
	SubjectSessionReady   = "gateway.event.session.ready"
	SubjectSessionResumed = "gateway.event.session.resumed"
	SubjectPrefixCommand  = "gateway.event.command.prefix"
)

// Outbound subjects.
const (
	SubjectPresenceSet     = "gateway.presence.set"
	SubjectReplySend       = "gateway.reply.send"
	SubjectPermissionCheck = "gateway.permission.check"
)

// Inbound event payloads. Only ids and cardinalities are used by the core.

// GuildJoined is delivered when the bot joins a guild, and once per guild
// on every reconnect.
type GuildJoined struct {
	GuildID     uint64 `json:"guild_id"`
	OwnerID     uint64 `json:"owner_id"`
	MemberCount int    `json:"member_count"`
}

// GuildLeft is delivered when the bot leaves (or is removed from) a guild.
type GuildLeft struct {
	GuildID uint64 `json:"guild_id"`
}

// CacheReady is delivered when the bridge has finished building its guild
// cache. It recurs: once per reconnect, and again when guild membership
// changes.
type CacheReady struct {
	GuildIDs []uint64 `json:"guild_ids"`
}

// SessionReady is delivered once per gateway session.
type SessionReady struct {
	Username   string `json:"username"`
	ShardID    int    `json:"shard_id"`
	ShardTotal int    `json:"shard_total"`
	GuildCount int    `json:"guild_count"`
}

// SessionResumed is delivered when a dropped session is resumed.
type SessionResumed struct{}

// PrefixInvocation is a parsed `prefix [new_prefix]` invocation relayed by
// the bridge's command framework. GuildID is zero when the command was
// invoked from a direct message.
type PrefixInvocation struct {
	GuildID   uint64 `json:"guild_id"`
	ChannelID uint64 `json:"channel_id"`
	UserID    uint64 `json:"user_id"`
	Arg       string `json:"arg"`
}

// Outbound payloads. MessageID is a short correlation id for log matching
// between the bot and the bridge.

// PresenceUpdate asks the bridge to publish a new status string.
type PresenceUpdate struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Reply asks the bridge to send a message to a channel.
type Reply struct {
	MessageID string `json:"message_id"`
	ChannelID uint64 `json:"channel_id"`
	Content   string `json:"content"`
}

// PermissionQuery asks the bridge whether a member holds administrator
// permission in a guild. Request/reply.
type PermissionQuery struct {
	GuildID uint64 `json:"guild_id"`
	UserID  uint64 `json:"user_id"`
}

// PermissionResult is the bridge's answer to a PermissionQuery.
type PermissionResult struct {
	Administrator bool `json:"administrator"`
}

// Notifier is the outbound half of the gateway: presence updates and
// command replies.
type Notifier interface {
	// SetPresence publishes the bot's status string. Best-effort: the
	// presence loop ignores failures.
	SetPresence(ctx context.Context, status string) error

	// SendReply sends a message to the given channel.
	SendReply(ctx context.Context, channelID uint64, content string) error
}

// PermissionOracle answers permission questions about guild members. It is
// a separate capability so command validation is testable without a live
// platform connection.
type PermissionOracle interface {
	IsAdministrator(ctx context.Context, guildID, userID uint64) (bool, error)
}

// Message is a raw inbound gateway event with the subject it arrived on.
type Message struct {
	Subject string
	Data    []byte
}

// Subscriber receives inbound events from the gateway bridge.
type Subscriber interface {
	// Subscribe delivers events for the given subject (wildcards allowed)
	// on the returned channel. Call the returned cancel function to
	// unsubscribe and close the channel.
	Subscribe(subject string) (<-chan Message, func(), error)
	Close() error
}
