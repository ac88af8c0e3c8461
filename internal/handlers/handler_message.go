package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils"
)

// triggerAckEmoji marks an admin trigger message as seen while its
// confirmation is still outstanding.
const triggerAckEmoji = "⏳"

// handleMessageCreate inspects every message for two cases: a gacha-bot
// message that may confirm an outstanding pending action, and an admin
// message matching the trigger grammar.
func (h *DiscordHandlers) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	logger := middleware.NewEventLogger(h.logger, "message_create")
	ctx := middleware.WithLogger(context.Background(), logger)
	now := time.Now().UTC()

	if m.Author.ID == h.cfg.GachaBotID {
		result, err := h.services.Pending.ConfirmByMessage(ctx, m.ChannelID, m.Content, now)
		if err != nil {
			logger.Error("Failed to apply message confirmation", slog.String("error", err.Error()))
			return
		}
		if result == nil {
			// Correlation miss: expected filtering outcome, not an error
			return
		}
		h.reply(s, m.ChannelID, formatConfirmation(result), logger)
		return
	}

	if !h.isAdmin(m.Author.ID) {
		return
	}

	trigger, ok := utils.ParseTrigger(m.Content)
	if !ok {
		return
	}

	registered := h.services.Pending.RegisterTrigger(domain.PendingAction{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		Kind:        trigger.Kind,
		InitiatorID: m.Author.ID,
		SubjectID:   trigger.TargetID,
		Amount:      trigger.Amount,
		CreatedAt:   now,
	})
	if !registered {
		logger.Debug("Trigger ignored, tracking disabled", slog.String("message_id", m.ID))
		return
	}

	logger.Info("Trigger registered",
		slog.String("kind", string(trigger.Kind)),
		slog.String("message_id", m.ID),
		slog.String("subject_id", trigger.TargetID),
		slog.Int64("amount", trigger.Amount),
	)

	if err := s.MessageReactionAdd(m.ChannelID, m.ID, triggerAckEmoji); err != nil {
		logger.Warn("Failed to ack trigger message", slog.String("error", err.Error()))
	}
}

// reply sends a message, logging delivery failures instead of surfacing
// them: the ledger mutation already happened.
func (h *DiscordHandlers) reply(s *discordgo.Session, channelID, content string, logger *slog.Logger) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		logger.Warn("Failed to send reply", slog.String("channel_id", channelID), slog.String("error", err.Error()))
	}
}
