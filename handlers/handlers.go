package handlers

import (
	"ticket-bot/bot"
	"ticket-bot/handlers/admin"
	"ticket-bot/handlers/leaderboard"
	"ticket-bot/handlers/stats"
	"ticket-bot/handlers/tickets"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

type commandHandler = func(s *discordgo.Session, i *discordgo.InteractionCreate)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]commandHandler {
	return map[string]commandHandler{
		"ticket-panel":  func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandlePanelCommand(s, i, b) },
		"claim":         func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleClaim(s, i, b) },
		"unclaim":       func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleUnclaim(s, i, b) },
		"close":         func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleClose(s, i, b) },
		"add":           func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleAdd(s, i, b) },
		"remove":        func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleRemove(s, i, b) },
		"rename":        func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleRename(s, i, b) },
		"first-message": func(s *discordgo.Session, i *discordgo.InteractionCreate) { tickets.HandleFirstMessage(s, i, b) },

		"ticket-limit":    func(s *discordgo.Session, i *discordgo.InteractionCreate) { admin.HandleTicketLimit(s, i, b) },
		"set-archive":     func(s *discordgo.Session, i *discordgo.InteractionCreate) { admin.HandleSetArchive(s, i, b) },
		"set-leaderboard": func(s *discordgo.Session, i *discordgo.InteractionCreate) { admin.HandleSetLeaderboard(s, i, b) },
		"set-staff-roles": func(s *discordgo.Session, i *discordgo.InteractionCreate) { admin.HandleSetStaffRoles(s, i, b) },
		"reload":          func(s *discordgo.Session, i *discordgo.InteractionCreate) { admin.HandleReloadConfig(s, i, b) },

		"lb":           func(s *discordgo.Session, i *discordgo.InteractionCreate) { leaderboard.HandleLeaderboardCommand(s, i, b) },
		"stats":        func(s *discordgo.Session, i *discordgo.InteractionCreate) { stats.HandleStats(s, i, b) },
		"profile-edit": func(s *discordgo.Session, i *discordgo.InteractionCreate) { stats.HandleProfileEdit(s, i, b) },
		"modify":       func(s *discordgo.Session, i *discordgo.InteractionCreate) { stats.HandleModify(s, i, b) },

		"sysinfo": func(s *discordgo.Session, i *discordgo.InteractionCreate) { SystemInfoHandler(s, i, b) },
	}
}

func addHandlers(b *bot.Bot) {
	log := logger.For("discord")
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("logged in", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
}
