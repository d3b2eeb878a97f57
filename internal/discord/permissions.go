package discord

import (
	"github.com/bwmarrin/discordgo"
)

// CanEditOthers reports whether the invoking member holds one of the
// privileged role names allowed to edit another member's professions.
func CanEditOthers(session *discordgo.Session, guildID string, invoker *discordgo.Member, privilegedRoles []string) bool {
	if invoker == nil || len(privilegedRoles) == 0 {
		return false
	}

	privileged := make(map[string]bool, len(privilegedRoles))
	for _, name := range privilegedRoles {
		privileged[name] = true
	}

	roleNames := guildRoleNames(session, guildID)
	for _, roleID := range invoker.Roles {
		if privileged[roleNames[roleID]] {
			return true
		}
	}
	return false
}

func guildRoleNames(session *discordgo.Session, guildID string) map[string]string {
	var roles []*discordgo.Role
	if guild, err := session.State.Guild(guildID); err == nil && guild != nil {
		roles = guild.Roles
	}
	if len(roles) == 0 {
		fetched, err := session.GuildRoles(guildID)
		if err != nil {
			return map[string]string{}
		}
		roles = fetched
	}

	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	return names
}
