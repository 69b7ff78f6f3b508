package admin

import (
	"context"

	"ticket-bot/model"
	"ticket-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func HandleReloadConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	actor, err := b.Actor(context.Background(), i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	if !actor.Caps.Has(model.CapDeveloper) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return
	}

	if err := b.ReloadConfig(); err != nil {
		utils.SendErrorResponse(s, i, "Failed to reload configuration: "+err.Error())
		return
	}
	utils.SendSimpleResponse(s, i, "✅ Configuration reloaded.")
}
