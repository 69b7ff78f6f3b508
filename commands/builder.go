package commands

import (
	"ticket-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.TicketPanel,
		defs.Claim,
		defs.Unclaim,
		defs.Close,
		defs.Add,
		defs.Remove,
		defs.Rename,
		defs.FirstMessage,
		defs.TicketLimit,
		defs.SetArchive,
		defs.SetLeaderboard,
		defs.SetStaffRoles,
		defs.Leaderboard,
		defs.Stats,
		defs.ProfileEdit,
		defs.Modify,
		defs.SystemInfo,
		defs.Reload,
	}
}
