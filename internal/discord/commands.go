package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/domain"
)

const (
	commandDashboard        = "dashboard"
	commandSetName          = "profil_setname"
	commandJobSet           = "metier_set"
	commandJobRemove        = "metier_remove"
	commandJobList          = "metier_list"
	commandDashboardRefresh = "dashboard_refresh"

	// MinLevel and MaxLevel bound profession levels at the command boundary;
	// the store itself does not enforce the range.
	MinLevel = 1
	MaxLevel = 200
)

// CommandDefinitions builds the slash-command set. Profession choices come
// from the catalog, so the pickers always match what the store accepts.
func CommandDefinitions(catalog *domain.Catalog) []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageServer)
	minLevel := float64(MinLevel)
	guildOnly := false

	professionChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(catalog.All()))
	for _, p := range catalog.All() {
		professionChoices = append(professionChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  p.Label,
			Value: p.Name,
		})
	}

	professionOption := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "metier",
			Description: "Choisis un métier dans la liste",
			Required:    required,
			Choices:     professionChoices,
		}
	}
	targetOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: "Membre ciblé (défaut: toi)",
		Required:    false,
	}

	// Every command reads or mutates per-guild state; none works in DMs.
	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandDashboard,
			Description:              "Définir ce salon comme Dashboard Métiers (ou republier).",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Action à effectuer",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "setchannel", Value: "setchannel"},
					},
				},
			},
		},
		{
			Name:         commandSetName,
			Description:  "Définir/mettre à jour ton pseudo Dofus affiché sur ta fiche.",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pseudo_dofus",
					Description: "Ton pseudo en jeu",
					Required:    true,
				},
			},
		},
		{
			Name:         commandJobSet,
			Description:  fmt.Sprintf("Ajouter/mettre à jour un métier (ex: /%s paysan 200).", commandJobSet),
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				professionOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "niveau",
					Description: fmt.Sprintf("Niveau du métier (%d-%d)", MinLevel, MaxLevel),
					Required:    true,
					MinValue:    &minLevel,
					MaxValue:    float64(MaxLevel),
				},
				targetOption,
			},
		},
		{
			Name:         commandJobRemove,
			Description:  fmt.Sprintf("Retirer un métier (ex: /%s paysan).", commandJobRemove),
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				professionOption(true),
				targetOption,
			},
		},
		{
			Name:         commandJobList,
			Description:  "Afficher la fiche métiers d'un membre.",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				targetOption,
			},
		},
		{
			Name:                     commandDashboardRefresh,
			Description:              "Re-rendre le dashboard (si souci d'affichage).",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
		},
	}
}

// RegisterCommands overwrites the application's global command set.
func RegisterCommands(session *discordgo.Session, catalog *domain.Catalog) error {
	if session.State.User == nil {
		return fmt.Errorf("session not ready: no self user")
	}
	_, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, "", CommandDefinitions(catalog))
	if err != nil {
		return fmt.Errorf("register commands failed: %w", err)
	}
	return nil
}
