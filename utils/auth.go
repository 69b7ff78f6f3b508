package utils

import (
	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// ResolveCapabilities computes an actor's capabilities once, from its member
// roles and the permissions Discord computed for the interaction.
// Staff comes only from the guild's configured staff roles, so a guild
// without configuration has no staff. Administrator or Manage Server grants
// CapManage. Developers get everything.
func ResolveCapabilities(userID string, memberRoleIDs []string, permissions int64, staffRoleIDs, developerUserIDs []string) model.Capabilities {
	if contains(developerUserIDs, userID) {
		return model.CapAll
	}

	var caps model.Capabilities
	if permissions&discordgo.PermissionAdministrator != 0 || permissions&discordgo.PermissionManageGuild != 0 {
		caps |= model.CapManage
	}
	for _, roleID := range memberRoleIDs {
		if contains(staffRoleIDs, roleID) {
			caps |= model.CapStaff
			break
		}
	}
	return caps
}

// InteractionUserID returns the invoking user's ID for guild and DM
// interactions alike.
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// ActorFromInteraction resolves the invoking member against the guild's
// configuration.
func ActorFromInteraction(i *discordgo.InteractionCreate, guildCfg *model.GuildConfig, developerUserIDs []string) model.Actor {
	userID := InteractionUserID(i)
	if i.Member == nil {
		if contains(developerUserIDs, userID) {
			return model.Actor{ID: userID, Caps: model.CapAll}
		}
		return model.Actor{ID: userID}
	}
	var staffRoles []string
	if guildCfg != nil {
		staffRoles = guildCfg.StaffRoleIDs()
	}
	return model.Actor{
		ID:   userID,
		Caps: ResolveCapabilities(userID, i.Member.Roles, i.Member.Permissions, staffRoles, developerUserIDs),
	}
}
