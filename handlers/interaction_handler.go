package handlers

import (
	"strings"

	"ticket-bot/bot"
	"ticket-bot/handlers/tickets"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	defer func() {
		if r := recover(); r != nil {
			logger.For("discord").Error("interaction handler panicked", "type", i.Type, "panic", r)
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case customID == tickets.CategorySelectID:
			tickets.HandleCategorySelect(s, i, b)
		case strings.HasPrefix(customID, tickets.CloseConfirmPrefix), strings.HasPrefix(customID, tickets.CloseCancelPrefix):
			tickets.HandleCloseButton(s, i, b)
		}
	}
}
