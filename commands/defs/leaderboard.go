package defs

import (
	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
)

func roleChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.RoleOrder))
	for _, r := range model.RoleOrder {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(r), Value: string(r)})
	}
	return choices
}

var Leaderboard = &discordgo.ApplicationCommand{
	Name:         "lb",
	Description:  "Ticket leaderboards",
	DMPermission: &dmDisabled,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "view",
			Description: "Show a leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timeframe",
					Description: "All time (default) or this week",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "all time", Value: string(model.TimeframeAllTime)},
						{Name: "weekly", Value: string(model.TimeframeWeekly)},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stat",
					Description: "Handled + closed (default), handled or closed",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "combined", Value: string(model.AxisCombined)},
						{Name: "handled", Value: string(model.AxisHandled)},
						{Name: "closed", Value: string(model.AxisClosed)},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Give a member a leaderboard role",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Leaderboard role", Required: true, Choices: roleChoices()},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Take a leaderboard role from a member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Leaderboard role", Required: true, Choices: roleChoices()},
			},
		},
	},
}
