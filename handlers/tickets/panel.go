package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"

	"github.com/bwmarrin/discordgo"
)

const createCooldown = 5 * time.Second

var categoryDescriptions = map[model.Category]string{
	model.CategoryMiddleman: "Request a middleman for a trade",
	model.CategoryPilot:     "Request a pilot",
	model.CategoryVerify:    "Get verified",
	model.CategoryGiveaway:  "Claim a giveaway prize",
	model.CategoryOther:     "Anything else",
}

// PanelMessage is the embed and category select menu of the ticket panel.
func PanelMessage() *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(model.Categories))
	for _, c := range model.Categories {
		options = append(options, discordgo.SelectMenuOption{
			Label:       utils.CategoryLabel(c),
			Value:       string(c),
			Description: categoryDescriptions[c],
		})
	}
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Open a ticket",
			Description: "Pick a category below and a private thread will be opened for you.",
			Color:       panelColor,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    CategorySelectID,
					Placeholder: "Select a category",
					Options:     options,
				},
			}},
		},
	}
}

// HandlePanelCommand posts the ticket panel in the current channel.
func HandlePanelCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	if !actor.Caps.Has(model.CapManage) {
		utils.RespondError(s, i, apperr.Unauthorized("You need Manage Server to post the ticket panel."))
		return
	}

	msg, err := s.ChannelMessageSendComplex(i.ChannelID, PanelMessage())
	if err != nil {
		utils.SendErrorResponse(s, i, "Failed to post the ticket panel: "+err.Error())
		return
	}
	if err := b.GetStore().SetTicketPanel(ctx, i.GuildID, i.ChannelID, msg.ID); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendSimpleResponse(s, i, "Ticket panel posted.")
	_ = utils.LogInfo(s, b.GetConfig().LogChannelID, "Tickets", "Panel",
		fmt.Sprintf("%s posted the ticket panel in <#%s>", utils.Mention(actor.ID), i.ChannelID))
}

// HandleCategorySelect opens a ticket: the ledger row first, then the
// private thread. A thread that cannot be created or attached abandons the
// ticket so it does not count against the limit.
func HandleCategorySelect(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	category, err := model.ParseCategory(values[0])
	if err != nil {
		utils.SendErrorResponse(s, i, "Unknown ticket category.")
		return
	}
	openerID := utils.InteractionUserID(i)
	if !utils.CheckAndSetCooldown("ticket-create:"+i.GuildID+":"+openerID, createCooldown) {
		utils.SendErrorResponse(s, i, "You are opening tickets too quickly, please wait a moment.")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	t, err := b.GetTickets().Create(ctx, i.GuildID, category, openerID)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, err)
		return
	}

	cfg := b.GetConfig()
	thread, err := s.ThreadStartComplex(i.ChannelID, &discordgo.ThreadStart{
		Name:                t.ThreadName(),
		Type:                discordgo.ChannelTypeGuildPrivateThread,
		AutoArchiveDuration: cfg.ThreadArchiveMin,
		Invitable:           false,
	})
	if err != nil {
		abandon(ctx, s, b, t, err)
		utils.SendFollowUp(s, i.Interaction, "❌ Could not create your ticket thread, please try again later.")
		return
	}
	if err := s.ThreadMemberAdd(thread.ID, openerID); err != nil {
		_ = utils.LogWarn(s, cfg.LogChannelID, "Tickets", "Create",
			fmt.Sprintf("Could not add %s to ticket #%d: %v", utils.Mention(openerID), t.Number, err))
	}
	attached, err := b.GetTickets().AttachChannel(ctx, t.Number, thread.ID)
	if err != nil {
		if _, delErr := s.ChannelDelete(thread.ID); delErr != nil {
			_ = utils.LogWarn(s, cfg.LogChannelID, "Tickets", "Create", "Could not delete orphan thread: "+delErr.Error())
		}
		if apperr.TypeOf(err) != apperr.TypeInvalidState {
			abandon(ctx, s, b, t, err)
		}
		utils.SendFollowUpError(s, i.Interaction, err)
		return
	}
	t = attached

	var roleIDs []string
	if guildCfg, err := b.GetStore().GetGuildConfig(ctx, i.GuildID); err == nil {
		roleIDs = guildCfg.StaffRoleIDs()
	}
	if _, err := s.ChannelMessageSendComplex(thread.ID, introMessage(t, roleIDs)); err != nil {
		_ = utils.LogWarn(s, cfg.LogChannelID, "Tickets", "Create",
			fmt.Sprintf("Could not post intro in ticket #%d: %v", t.Number, err))
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Your ticket has been created: <#%s>", thread.ID))
}

func abandon(ctx context.Context, s *discordgo.Session, b IBot, t *model.Ticket, cause error) {
	if t == nil {
		return
	}
	if err := b.GetTickets().Abandon(ctx, t.Number, cause); err != nil {
		_ = utils.LogError(s, b.GetConfig().LogChannelID, "Tickets", "Abandon",
			fmt.Sprintf("Ticket #%d could not be abandoned: %v", t.Number, err))
	}
}

// introMessage greets the opener and pings the staff roles.
func introMessage(t *model.Ticket, staffRoleIDs []string) *discordgo.MessageSend {
	mentions := []string{utils.Mention(t.OpenerID)}
	for _, id := range staffRoleIDs {
		mentions = append(mentions, "<@&"+id+">")
	}
	return &discordgo.MessageSend{
		Content: strings.Join(mentions, " "),
		Embeds: []*discordgo.MessageEmbed{{
			Title: fmt.Sprintf("Ticket #%d · %s", t.Number, utils.CategoryLabel(t.Category)),
			Description: "Thanks for opening a ticket. Describe what you need and a staff member will be with you shortly.\n" +
				"Staff: use `/claim` to take this ticket and `/close` when it is done.",
			Color: introColor,
		}},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{t.OpenerID},
			Roles: staffRoleIDs,
		},
	}
}
