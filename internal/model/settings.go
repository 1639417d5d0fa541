package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DefaultPrefix is the command prefix assigned to a guild on first contact.
const DefaultPrefix = "-"

// MuteType selects how the bot mutes a member in a guild.
type MuteType string

const (
	// MuteTimeout uses the platform's native timeout feature.
	MuteTimeout MuteType = "timeout"
	// MuteRole assigns a configured mute role instead.
	MuteRole MuteType = "role"
)

// String returns the string representation of the mute type.
func (m MuteType) String() string {
	return string(m)
}

// IsValid checks whether the mute type is a known value.
func (m MuteType) IsValid() bool {
	switch m {
	case MuteTimeout, MuteRole:
		return true
	}
	return false
}

// GuildSettings is the per-guild configuration record. The cache holds the
// in-memory copy; the guild_settings table is the system of record.
type GuildSettings struct {
	GuildID    uint64    `json:"guild_id"`
	Prefix     string    `json:"prefix"`
	OwnerID    uint64    `json:"owner_id"`
	MuteType   MuteType  `json:"mute_type"`
	MuteRoleID uint64    `json:"mute_role_id"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// DefaultSettings returns the settings a guild receives when it is first seen.
func DefaultSettings(guildID, ownerID uint64) GuildSettings {
	return GuildSettings{
		GuildID:  guildID,
		Prefix:   DefaultPrefix,
		OwnerID:  ownerID,
		MuteType: MuteTimeout,
	}
}

// ValidatePrefix rejects empty prefixes and prefixes containing whitespace.
// A prefix is the leading token users type before a command name, so any
// whitespace inside it would make commands unparseable.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	if strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return fmt.Errorf("prefix %q must not contain whitespace", prefix)
	}
	return nil
}
