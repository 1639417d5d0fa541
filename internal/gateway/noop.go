package gateway

import "context"

// NoopNotifier is a Notifier that does nothing (used when NATS is not
// configured, e.g. when running against a store only).
type NoopNotifier struct{}

func (NoopNotifier) SetPresence(ctx context.Context, status string) error {
	return nil
}

func (NoopNotifier) SendReply(ctx context.Context, channelID uint64, content string) error {
	return nil
}

// DenyAllOracle is a PermissionOracle that denies every query. Used when no
// bridge is available, so configuration can never be mutated by accident.
type DenyAllOracle struct{}

func (DenyAllOracle) IsAdministrator(ctx context.Context, guildID, userID uint64) (bool, error) {
	return false, nil
}
