package defs

import "github.com/bwmarrin/discordgo"

var Stats = &discordgo.ApplicationCommand{
	Name:         "stats",
	Description:  "Show ticket statistics for a member",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member (defaults to you)"},
	},
}

var ProfileEdit = &discordgo.ApplicationCommand{
	Name:         "profile-edit",
	Description:  "Set the message shown on your stats",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Profile message",
			Required:    true,
			MaxLength:   200,
		},
	},
}

var Modify = &discordgo.ApplicationCommand{
	Name:                     "modify",
	Description:              "Adjust a member's ticket statistics",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member", Required: true},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "stat",
			Description: "Counter to adjust",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "handled", Value: "handled"},
				{Name: "closed", Value: "closed"},
				{Name: "weekly handled", Value: "whandled"},
				{Name: "weekly closed", Value: "wclosed"},
			},
		},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "value", Description: "Amount to add (negative to subtract)", Required: true},
	},
}
