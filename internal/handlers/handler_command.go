package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hiiragi-dev/kakera-ledger/internal/apperrors"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils"
)

var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "status",
		Description: "Run accrual and list all open debts",
	},
	{
		Name:        "toggle",
		Description: "Turn loan tracking on or off",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "on or off",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "on", Value: "on"},
					{Name: "off", Value: "off"},
				},
			},
		},
	},
	{
		Name:        "add",
		Description: "Create a debt directly, bypassing confirmation",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The borrower",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Kakera amount",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "note",
				Description: "Optional annotation",
				Required:    false,
			},
		},
	},
	{
		Name:        "delete",
		Description: "Remove a debt row unconditionally",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "id",
				Description: "Debt ID",
				Required:    true,
			},
		},
	},
}

// RegisterSlashCommands creates the admin command set. Guild-scoped when a
// guild ID is configured, global otherwise. Must be called after the
// session is opened so the application ID is known.
func RegisterSlashCommands(s *discordgo.Session, guildID string) error {
	for _, cmd := range slashCommands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to register /%s command: %w", cmd.Name, err)
		}
	}
	return nil
}

// handleInteractionCreate dispatches slash-command invocations. All
// commands are gated on the admin allow-list; rejection is a visible,
// ephemeral notice.
func (h *DiscordHandlers) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	logger := middleware.NewEventLogger(h.logger, "interaction_create")
	ctx := middleware.WithLogger(context.Background(), logger)
	now := time.Now().UTC()
	data := i.ApplicationCommandData()

	invoker := interactionUser(i)
	if invoker == nil {
		return
	}
	if !h.isAdmin(invoker.ID) {
		logger.Warn("Unauthorized command invocation",
			slog.String("command", data.Name),
			slog.String("user_id", invoker.ID),
		)
		h.respondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	opts := commandOptions(data.Options)

	var content string
	var err error
	switch data.Name {
	case "status":
		content, err = h.runStatus(ctx, now)
	case "toggle":
		content = h.runToggle(opts["mode"].StringValue())
	case "add":
		content, err = h.runAdd(ctx, s, invoker.ID, opts, now)
	case "delete":
		content, err = h.runDelete(ctx, opts["id"].IntValue())
	default:
		return
	}

	if err != nil {
		logger.Error("Command failed", slog.String("command", data.Name), slog.String("error", err.Error()))
		h.respondEphemeral(s, i, "Something went wrong; check the logs.")
		return
	}

	h.respond(s, i, content)
}

func (h *DiscordHandlers) runStatus(ctx context.Context, now time.Time) (string, error) {
	lines, err := h.services.Ledger.StatusReport(ctx, now)
	if err != nil {
		return "", err
	}
	return formatStatusReport(lines, h.services.Pending.TrackingEnabled()), nil
}

func (h *DiscordHandlers) runToggle(mode string) string {
	enabled := mode == "on"
	h.services.Pending.SetTracking(enabled)
	if enabled {
		return "Loan tracking is now **on**."
	}
	return "Loan tracking is now **off**."
}

func (h *DiscordHandlers) runAdd(ctx context.Context, s *discordgo.Session, lenderID string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, now time.Time) (string, error) {
	borrower := opts["user"].UserValue(s)
	req := dto.CreateDebtRequest{
		BorrowerID: borrower.ID,
		LenderID:   lenderID,
		Amount:     opts["amount"].IntValue(),
	}
	if note, ok := opts["note"]; ok {
		req.Note = note.StringValue()
	}

	debt, err := h.services.Ledger.CreateDebt(ctx, req, now)
	if errors.Is(err, apperrors.ErrValidation) {
		return "Amount must be a positive whole number of kakera.", nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Debt #%d recorded: <@%s> owes %s kakera.", debt.ID, debt.BorrowerID, utils.FormatKakera(debt.Remaining)), nil
}

func (h *DiscordHandlers) runDelete(ctx context.Context, id int64) (string, error) {
	err := h.services.Ledger.DeleteDebt(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Sprintf("No debt with ID %d.", id), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Debt #%d deleted.", id), nil
}

// interactionUser returns the invoking user for both guild and DM
// invocations.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func commandOptions(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		opts[opt.Name] = opt
	}
	return opts
}

func (h *DiscordHandlers) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		h.logger.Warn("Failed to respond to interaction", slog.String("error", err.Error()))
	}
}

func (h *DiscordHandlers) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("Failed to respond to interaction", slog.String("error", err.Error()))
	}
}
