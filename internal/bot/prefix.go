package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/groblegark/warden/internal/gateway"
	"github.com/groblegark/warden/internal/model"
)

// HandlePrefixCommand processes a `prefix [new_prefix]` invocation. The
// validation chain short-circuits on the first failure; validation-class
// failures reply to the user and never touch the cache or the store.
//
// Mutation is write-through: the store is updated first and the cache only
// after the write is confirmed, so a failed write leaves both sides
// unchanged.
func (h *Handler) HandlePrefixCommand(ctx context.Context, req gateway.PrefixInvocation) error {
	if req.GuildID == 0 {
		h.reply(ctx, req.ChannelID, fmt.Sprintf(
			"The default prefix is `%s`. Use `%sprefix <new prefix>` in a server to change it.",
			model.DefaultPrefix, model.DefaultPrefix))
		return ErrMissingContext
	}

	admin, err := h.oracle.IsAdministrator(ctx, req.GuildID, req.UserID)
	if err != nil {
		h.logger.Warn("permission check failed",
			"guild_id", req.GuildID, "user_id", req.UserID, "err", err)
		h.reply(ctx, req.ChannelID, "Could not verify your permissions. Please try again.")
		return fmt.Errorf("permission check: %w", err)
	}
	if !admin {
		h.reply(ctx, req.ChannelID, "You must be an administrator to change the prefix.")
		return ErrPermissionDenied
	}

	arg := strings.TrimSpace(req.Arg)
	if arg == "" {
		return h.showPrefix(ctx, req)
	}

	if err := model.ValidatePrefix(arg); err != nil {
		h.reply(ctx, req.ChannelID, "Prefixes cannot contain whitespace.")
		return &ValidationError{Reason: err.Error()}
	}

	if err := h.setPrefix(ctx, req, arg); err != nil {
		h.reply(ctx, req.ChannelID, "Something went wrong while saving the new prefix. Please try again.")
		return err
	}

	h.logger.Info("prefix updated",
		"guild_id", req.GuildID, "user_id", req.UserID, "prefix", arg)
	h.reply(ctx, req.ChannelID, fmt.Sprintf("Prefix set to `%s`.", arg))
	return nil
}

// showPrefix answers a bare `prefix` invocation with the current value. A
// guild with no settings anywhere is answered with the default prefix.
func (h *Handler) showPrefix(ctx context.Context, req gateway.PrefixInvocation) error {
	prefix := model.DefaultPrefix
	s, err := h.loadSettings(ctx, req.GuildID)
	switch {
	case err == nil:
		prefix = s.Prefix
	case errors.Is(err, ErrNotFound):
		// Untracked guild; fall through with the default.
	default:
		h.reply(ctx, req.ChannelID, "Something went wrong while looking up the prefix. Please try again.")
		return err
	}

	h.reply(ctx, req.ChannelID, fmt.Sprintf(
		"The current prefix is `%s`. Use `%sprefix <new prefix>` to change it.", prefix, prefix))
	return nil
}

// setPrefix writes the new prefix through to the store and then the cache.
// A guild with no settings row yet gets one created lazily, owned by the
// invoking administrator.
func (h *Handler) setPrefix(ctx context.Context, req gateway.PrefixInvocation, prefix string) error {
	err := h.store.UpdatePrefix(ctx, req.GuildID, prefix)
	if errors.Is(err, sql.ErrNoRows) {
		lazy := model.DefaultSettings(req.GuildID, req.UserID)
		lazy.Prefix = prefix
		if err := h.store.UpsertGuild(ctx, lazy); err != nil {
			return &StoreWriteError{Op: "upsert", GuildID: req.GuildID, Err: err}
		}
		// The row may have raced into existence with the old prefix.
		if err := h.store.UpdatePrefix(ctx, req.GuildID, prefix); err != nil {
			return &StoreWriteError{Op: "update prefix", GuildID: req.GuildID, Err: err}
		}
	} else if err != nil {
		return &StoreWriteError{Op: "update prefix", GuildID: req.GuildID, Err: err}
	}

	h.cache.Upsert(req.GuildID, func(gs *model.GuildSettings) {
		gs.Prefix = prefix
		if gs.OwnerID == 0 {
			gs.OwnerID = req.UserID
		}
	})
	return nil
}

// reply sends a command response. Replies are best-effort; a failed send is
// logged and the command outcome stands.
func (h *Handler) reply(ctx context.Context, channelID uint64, content string) {
	if err := h.notifier.SendReply(ctx, channelID, content); err != nil {
		h.logger.Warn("failed to send reply", "channel_id", channelID, "err", err)
	}
}
