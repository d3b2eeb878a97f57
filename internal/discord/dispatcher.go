package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/dashboard"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

const interactionTimeout = 15 * time.Second

// CommandHandlerFunc handles a single slash command invocation.
type CommandHandlerFunc func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error

// Dispatcher routes gateway interactions to command handlers and to the
// dashboard component state machine.
type Dispatcher struct {
	commands map[string]CommandHandlerFunc
	dash     *dashboard.Service
	messages *messageprovider.Provider
	logger   *slog.Logger
}

// NewDispatcher builds the command routing table.
func NewDispatcher(handlers *Handlers, dash *dashboard.Service, messages *messageprovider.Provider, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		commands: map[string]CommandHandlerFunc{
			commandDashboard:        handlers.HandleDashboard,
			commandSetName:          handlers.HandleSetName,
			commandJobSet:           handlers.HandleJobSet,
			commandJobRemove:        handlers.HandleJobRemove,
			commandJobList:          handlers.HandleJobList,
			commandDashboardRefresh: handlers.HandleDashboardRefresh,
		},
		dash:     dash,
		messages: messages,
		logger:   logger,
	}
}

// HandleInteractionCreate is the discordgo InteractionCreate handler.
func (d *Dispatcher) HandleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Guild-only bot: DMs carry no guild id and nothing to act on.
	if i.GuildID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		d.dispatchCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		d.dispatchComponent(ctx, s, i)
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	handler, ok := d.commands[data.Name]
	if !ok {
		d.logger.Warn("unknown command", "command", data.Name, "guild_id", i.GuildID)
		return
	}

	if err := handler(ctx, s, i); err != nil {
		if apperrors.IsUserFacing(err) {
			d.logger.Info("command rejected",
				"command", data.Name,
				"guild_id", i.GuildID,
				"user_id", invokerID(i),
				"reason", err.Error())
		} else {
			d.logger.Error("command failed",
				"command", data.Name,
				"guild_id", i.GuildID,
				"user_id", invokerID(i),
				"error", err)
		}
		d.replyError(s, i, err)
	}
}

func (d *Dispatcher) dispatchComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if !dashboard.IsComponentID(data.CustomID) {
		return
	}

	// Acknowledge as a message update so the interaction produces no reply
	// of its own; the dashboard message is edited in place.
	ack := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if ack != nil {
		d.logger.Warn("component ack failed", "custom_id", data.CustomID, "error", ack)
	}

	if i.Message == nil {
		return
	}

	err := d.dash.HandleComponent(ctx, i.GuildID, i.ChannelID, i.Message.ID, data.CustomID, data.Values)
	if err != nil {
		d.logger.Error("component interaction failed",
			"guild_id", i.GuildID,
			"custom_id", data.CustomID,
			"error", err)
	}
}

// replyError delivers the failure to the invoker: the message itself for
// user-facing rejections, the generic notice otherwise. Falls back to a
// followup when the interaction was already deferred.
func (d *Dispatcher) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := d.messages.Get("errors.internal")
	if apperrors.IsUserFacing(err) {
		content = err.Error()
	}

	if respondErr := respondEphemeral(s, i, content); respondErr != nil {
		if followErr := followupEphemeral(s, i, content); followErr != nil {
			d.logger.Error("error reply failed", "error", followErr)
		}
	}
}
