package defs

import "github.com/bwmarrin/discordgo"

var (
	dmDisabled  = false
	manageGuild = int64(discordgo.PermissionManageGuild)
)

var TicketPanel = &discordgo.ApplicationCommand{
	Name:                     "ticket-panel",
	Description:              "Post the ticket creation panel in this channel",
	DefaultMemberPermissions: &manageGuild,
	DMPermission:             &dmDisabled,
}

var Claim = &discordgo.ApplicationCommand{
	Name:         "claim",
	Description:  "Claim this ticket",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "force",
			Description: "Take the ticket from its current handler (staff only)",
		},
	},
}

var Unclaim = &discordgo.ApplicationCommand{
	Name:         "unclaim",
	Description:  "Release this ticket",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "force",
			Description: "Release the ticket even if someone else claimed it (staff only)",
		},
	},
}

var Close = &discordgo.ApplicationCommand{
	Name:         "close",
	Description:  "Close this ticket",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Why the ticket is being closed",
			MaxLength:   500,
		},
	},
}

var Add = &discordgo.ApplicationCommand{
	Name:         "add",
	Description:  "Add a member to this ticket",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to add",
			Required:    true,
		},
	},
}

var Remove = &discordgo.ApplicationCommand{
	Name:         "remove",
	Description:  "Remove a member from this ticket",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to remove",
			Required:    true,
		},
	},
}

var Rename = &discordgo.ApplicationCommand{
	Name:         "rename",
	Description:  "Rename this ticket thread",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "New thread name",
			Required:    true,
			MaxLength:   100,
		},
	},
}

var FirstMessage = &discordgo.ApplicationCommand{
	Name:         "first-message",
	Description:  "Link to the first message of this ticket",
	DMPermission: &dmDisabled,
}
