package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
)

// handleReactionAdd matches confirmation reactions from the gacha bot
// against outstanding pending actions, keyed by the reacted message ID.
func (h *DiscordHandlers) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID != h.cfg.GachaBotID || r.Emoji.Name != h.cfg.ConfirmEmoji {
		return
	}

	logger := middleware.NewEventLogger(h.logger, "reaction_add")
	ctx := middleware.WithLogger(context.Background(), logger)
	now := time.Now().UTC()

	// The reaction event carries only IDs; resolve the full message before
	// inspecting it. A failed fetch is treated as a correlation miss and
	// aborts this handler invocation only.
	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		logger.Debug("Could not resolve reacted message",
			slog.String("message_id", r.MessageID),
			slog.String("error", err.Error()),
		)
		return
	}
	if msg.Author == nil || !h.isAdmin(msg.Author.ID) {
		return
	}

	result, err := h.services.Pending.ConfirmByReaction(ctx, r.MessageID, now)
	if err != nil {
		logger.Error("Failed to apply reaction confirmation", slog.String("error", err.Error()))
		return
	}
	if result == nil {
		return
	}

	h.reply(s, r.ChannelID, formatConfirmation(result), logger)
}
