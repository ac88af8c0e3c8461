package handlers

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	portssvc "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/services"
	"github.com/hiiragi-dev/kakera-ledger/pkg/config"
)

// DiscordHandlers routes Discord gateway events into the application
// services: admin trigger messages and gacha-bot confirmations into the
// correlator, slash commands into the ledger.
type DiscordHandlers struct {
	cfg      *config.Config
	services *portssvc.ServiceContainer
	logger   *slog.Logger
	admins   map[string]struct{}
}

// RegisterDiscordHandlers attaches all event handlers to the session and
// sets the gateway intents they need. Must be called before the session is
// opened.
func RegisterDiscordHandlers(
	s *discordgo.Session,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	logger *slog.Logger,
) *DiscordHandlers {
	admins := make(map[string]struct{}, len(cfg.AdminUserIDs))
	for _, id := range cfg.AdminUserIDs {
		admins[id] = struct{}{}
	}

	h := &DiscordHandlers{
		cfg:      cfg,
		services: services,
		logger:   logger,
		admins:   admins,
	}

	s.AddHandler(h.handleMessageCreate)
	s.AddHandler(h.handleReactionAdd)
	s.AddHandler(h.handleInteractionCreate)

	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	return h
}

// isAdmin reports allow-list membership for the given Discord user ID.
func (h *DiscordHandlers) isAdmin(userID string) bool {
	_, ok := h.admins[userID]
	return ok
}
