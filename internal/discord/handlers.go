package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/dashboard"
	"github.com/kapu/guild-jobs-bot/internal/domain"
	"github.com/kapu/guild-jobs-bot/internal/member"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
	"github.com/kapu/guild-jobs-bot/internal/repository"
	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

const profileColor = 0x5865F2

// Handlers implements the slash-command surface. Mutating handlers reply to
// the invoker first, then trigger a best-effort dashboard refresh whose
// failure never reaches the command's own reply.
type Handlers struct {
	repo            *repository.Repository
	dash            *dashboard.Service
	catalog         *domain.Catalog
	messages        *messageprovider.Provider
	resolver        *member.Resolver
	privilegedRoles []string
	logger          *slog.Logger
}

// NewHandlers creates the command handlers.
func NewHandlers(
	repo *repository.Repository,
	dash *dashboard.Service,
	catalog *domain.Catalog,
	messages *messageprovider.Provider,
	resolver *member.Resolver,
	privilegedRoles []string,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		repo:            repo,
		dash:            dash,
		catalog:         catalog,
		messages:        messages,
		resolver:        resolver,
		privilegedRoles: privilegedRoles,
		logger:          logger,
	}
}

// HandleDashboard publishes (or republishes) the dashboard in the invoking
// channel.
func (h *Handlers) HandleDashboard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)

	action := "setchannel"
	if opt, ok := opts["action"]; ok {
		action = opt.StringValue()
	}
	if action != "setchannel" {
		return respondEphemeral(s, i, h.messages.Get("commands.dashboard.usage"))
	}

	// Publishing reads the roster and talks to Discord; ack within the
	// 3-second interaction window first.
	if err := deferEphemeral(s, i); err != nil {
		return err
	}

	channelID, err := h.dash.Publish(ctx, i.GuildID, i.ChannelID)
	if err != nil {
		return err
	}

	return followupEphemeral(s, i, h.messages.Get("commands.dashboard.published",
		messageprovider.P("channel", "<#"+channelID+">")))
}

// HandleSetName stores the invoker's display alias.
func (h *Handlers) HandleSetName(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	alias := strings.TrimSpace(opts["pseudo_dofus"].StringValue())

	if err := h.repo.SetProfileAlias(ctx, i.GuildID, invokerID(i), alias); err != nil {
		return err
	}

	if err := respondEphemeral(s, i, h.messages.Get("commands.setname.ok",
		messageprovider.P("name", alias))); err != nil {
		return err
	}

	h.dash.RefreshAfterMutation(ctx, i.GuildID)
	return nil
}

// HandleJobSet upserts a profession level for the invoker or, with the
// privileged roles, another member.
func (h *Handlers) HandleJobSet(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)

	profession, ok := h.catalog.Lookup(opts["metier"].StringValue())
	if !ok {
		return apperrors.ValidationError{Message: h.messages.Get("errors.unknown_profession")}
	}

	level := int(opts["niveau"].IntValue())
	if level < MinLevel || level > MaxLevel {
		return apperrors.ValidationError{Message: h.messages.Get("errors.level_range",
			messageprovider.P("min", MinLevel), messageprovider.P("max", MaxLevel))}
	}

	targetID, err := h.resolveTarget(s, i, opts)
	if err != nil {
		return err
	}

	if err := h.repo.SetJob(ctx, i.GuildID, targetID, profession.Key, level); err != nil {
		return err
	}

	if err := respondEphemeral(s, i, h.messages.Get("commands.job_set.ok",
		messageprovider.P("job", profession.Display()),
		messageprovider.P("member", mention(targetID)),
		messageprovider.P("level", level))); err != nil {
		return err
	}

	h.dash.RefreshAfterMutation(ctx, i.GuildID)
	return nil
}

// HandleJobRemove removes a profession for the invoker or, with the
// privileged roles, another member. Removing an absent job still succeeds.
func (h *Handlers) HandleJobRemove(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)

	profession, ok := h.catalog.Lookup(opts["metier"].StringValue())
	if !ok {
		return apperrors.ValidationError{Message: h.messages.Get("errors.unknown_profession")}
	}

	targetID, err := h.resolveTarget(s, i, opts)
	if err != nil {
		return err
	}

	if err := h.repo.RemoveJob(ctx, i.GuildID, targetID, profession.Key); err != nil {
		return err
	}

	if err := respondEphemeral(s, i, h.messages.Get("commands.job_remove.ok",
		messageprovider.P("job", profession.Display()),
		messageprovider.P("member", mention(targetID)))); err != nil {
		return err
	}

	h.dash.RefreshAfterMutation(ctx, i.GuildID)
	return nil
}

// HandleJobList shows a member's profession card, ephemeral.
func (h *Handlers) HandleJobList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)

	targetID := invokerID(i)
	var targetUser *discordgo.User
	if opt, ok := opts["membre"]; ok {
		targetUser = opt.UserValue(s)
		targetID = targetUser.ID
	} else if i.Member != nil {
		targetUser = i.Member.User
	}

	jobs, err := h.repo.ListJobs(ctx, i.GuildID, targetID)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return respondEphemeral(s, i, h.messages.Get("commands.profile.none",
			messageprovider.P("member", mention(targetID))))
	}

	alias, err := h.repo.GetProfileAlias(ctx, i.GuildID, targetID)
	if err != nil {
		return err
	}

	name, nameErr := h.resolver.DisplayName(ctx, i.GuildID, targetID)
	if nameErr != nil || name == "" {
		name = h.messages.Get("dashboard.user_fallback", messageprovider.P("id", targetID))
	}

	titleKey := "commands.profile.title"
	params := []messageprovider.Param{messageprovider.P("name", name)}
	if alias != "" {
		titleKey = "commands.profile.title_alias"
		params = append(params, messageprovider.P("alias", alias))
	}

	embed := &discordgo.MessageEmbed{
		Title: h.messages.Get(titleKey, params...),
		Color: profileColor,
	}
	if targetUser != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: targetUser.AvatarURL("")}
	}
	for _, job := range jobs {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   h.catalog.Display(job.Profession),
			Value:  h.messages.Get("commands.profile.level", messageprovider.P("level", job.Level)),
			Inline: true,
		})
	}

	return respondEphemeralEmbed(s, i, embed)
}

// HandleDashboardRefresh force-refreshes the registered dashboard.
func (h *Handlers) HandleDashboardRefresh(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := deferEphemeral(s, i); err != nil {
		return err
	}

	if err := h.dash.Refresh(ctx, i.GuildID); err != nil {
		if errors.Is(err, dashboard.ErrNotConfigured) {
			return followupEphemeral(s, i, h.messages.Get("commands.dashboard.not_configured"))
		}
		return err
	}

	return followupEphemeral(s, i, h.messages.Get("commands.dashboard.refreshed"))
}

// resolveTarget returns the member the mutation applies to, enforcing the
// edit-others permission predicate.
func (h *Handlers) resolveTarget(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	invoker := invokerID(i)

	opt, ok := opts["membre"]
	if !ok {
		return invoker, nil
	}

	// Only the id is needed here; skip the user lookup.
	target := opt.UserValue(nil)
	if target == nil || target.ID == invoker {
		return invoker, nil
	}

	if !CanEditOthers(s, i.GuildID, i.Member, h.privilegedRoles) {
		return "", apperrors.AccessDeniedError{Reason: h.messages.Get("errors.edit_others")}
	}
	return target.ID, nil
}

func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("interaction respond failed: %w", err)
	}
	return nil
}

func respondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("interaction respond failed: %w", err)
	}
	return nil
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		return fmt.Errorf("interaction defer failed: %w", err)
	}
	return nil
}

func followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		return fmt.Errorf("interaction followup failed: %w", err)
	}
	return nil
}
