package tickets

import (
	"context"
	"fmt"
	"strings"

	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"

	"github.com/bwmarrin/discordgo"
)

// openTicketForStaff resolves the open ticket bound to the current channel
// for a staff actor.
func openTicketForStaff(ctx context.Context, i *discordgo.InteractionCreate, b IBot) (*model.Ticket, model.Actor, error) {
	actor, err := b.Actor(ctx, i)
	if err != nil {
		return nil, actor, err
	}
	if !actor.Caps.Has(model.CapStaff) {
		return nil, actor, apperr.Unauthorized("Only staff can manage ticket threads.")
	}
	t, err := b.GetStore().GetTicketByChannel(ctx, i.ChannelID)
	if err != nil {
		return nil, actor, err
	}
	if t.IsClosed() {
		return nil, actor, apperr.InvalidState("Ticket #%d is closed.", t.Number)
	}
	return t, actor, nil
}

func HandleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	t, _, err := openTicketForStaff(context.Background(), i, b)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	userID := utils.Options(i.ApplicationCommandData().Options).ID("user")
	if err := s.ThreadMemberAdd(i.ChannelID, userID); err != nil {
		utils.SendErrorResponse(s, i, "Could not add the member: "+err.Error())
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("➕ Added %s to ticket #%d.", utils.Mention(userID), t.Number))
}

func HandleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	t, _, err := openTicketForStaff(context.Background(), i, b)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	userID := utils.Options(i.ApplicationCommandData().Options).ID("user")
	if userID == t.OpenerID {
		utils.SendErrorResponse(s, i, "The ticket opener cannot be removed.")
		return
	}
	if err := s.ThreadMemberRemove(i.ChannelID, userID); err != nil {
		utils.SendErrorResponse(s, i, "Could not remove the member: "+err.Error())
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("➖ Removed %s from ticket #%d.", utils.Mention(userID), t.Number))
}

func HandleRename(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	t, _, err := openTicketForStaff(context.Background(), i, b)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	name := strings.TrimSpace(utils.Options(i.ApplicationCommandData().Options).String("name", ""))
	if name == "" {
		utils.RespondError(s, i, apperr.Validation("The thread name cannot be empty."))
		return
	}
	if _, err := s.ChannelEdit(i.ChannelID, &discordgo.ChannelEdit{Name: name}); err != nil {
		utils.SendErrorResponse(s, i, "Could not rename the thread: "+err.Error())
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("✏️ Ticket #%d renamed to **%s**.", t.Number, name))
}

// HandleFirstMessage links the oldest message of the ticket thread.
func HandleFirstMessage(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	t, _, err := openTicketForStaff(context.Background(), i, b)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	// A thread's snowflake predates every message in it.
	msgs, err := s.ChannelMessages(i.ChannelID, 1, "", i.ChannelID, "")
	if err != nil {
		utils.SendErrorResponse(s, i, "Could not read the thread: "+err.Error())
		return
	}
	if len(msgs) == 0 {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Ticket #%d has no messages yet.", t.Number))
		return
	}
	utils.SendSimpleResponse(s, i, "First message: "+MessageLink(i.GuildID, i.ChannelID, msgs[0].ID))
}

func MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
