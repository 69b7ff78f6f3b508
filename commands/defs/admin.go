package defs

import "github.com/bwmarrin/discordgo"

var minZero = float64(0)

var TicketLimit = &discordgo.ApplicationCommand{
	Name:                     "ticket-limit",
	Description:              "Set the maximum number of open tickets (0 = unlimited)",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: "Open ticket limit",
			Required:    true,
			MinValue:    &minZero,
		},
	},
}

var SetArchive = &discordgo.ApplicationCommand{
	Name:                     "set-archive",
	Description:              "Set the channel closed ticket transcripts are posted to",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Archive channel",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	},
}

var SetLeaderboard = &discordgo.ApplicationCommand{
	Name:                     "set-leaderboard",
	Description:              "Set the channel weekly leaderboards are posted to",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Leaderboard channel",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	},
}

var SetStaffRoles = &discordgo.ApplicationCommand{
	Name:                     "set-staff-roles",
	Description:              "Set the roles allowed to act as ticket staff",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Staff role", Required: true},
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role2", Description: "Additional staff role"},
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role3", Description: "Additional staff role"},
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role4", Description: "Additional staff role"},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "sysinfo",
	Description: "Display bot, ledger and system status information",
}

var Reload = &discordgo.ApplicationCommand{
	Name:        "reload",
	Description: "Reload the bot configuration (developers only)",
}
