package tickets

import (
	"context"
	"fmt"

	"ticket-bot/model"
	"ticket-bot/ticket"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

func HandleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	force := utils.Options(i.ApplicationCommandData().Options).Bool("force")

	res, err := b.GetTickets().Claim(ctx, i.ChannelID, actor, force)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendPublicResponse(s, i, claimMessage(res, actor.ID))
	if res.PreviousHandlerID != "" {
		_ = utils.LogInfo(s, b.GetConfig().LogChannelID, "Tickets", "Force claim",
			fmt.Sprintf("%s took ticket #%d from %s", utils.Mention(actor.ID), res.Ticket.Number, utils.Mention(res.PreviousHandlerID)))
	}
}

func claimMessage(res *ticket.ClaimResult, actorID string) string {
	if res.PreviousHandlerID != "" {
		return fmt.Sprintf("✅ %s has taken over ticket #%d from %s.", utils.Mention(actorID), res.Ticket.Number, utils.Mention(res.PreviousHandlerID))
	}
	return fmt.Sprintf("✅ %s has claimed ticket #%d.", utils.Mention(actorID), res.Ticket.Number)
}

func HandleUnclaim(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	force := utils.Options(i.ApplicationCommandData().Options).Bool("force")

	res, err := b.GetTickets().Unclaim(ctx, i.ChannelID, actor, force)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendPublicResponse(s, i, unclaimMessage(res, actor.ID))
}

func unclaimMessage(res *ticket.ClaimResult, actorID string) string {
	if res.PreviousHandlerID != actorID {
		return fmt.Sprintf("🔓 %s released ticket #%d from %s.", utils.Mention(actorID), res.Ticket.Number, utils.Mention(res.PreviousHandlerID))
	}
	return fmt.Sprintf("🔓 %s has unclaimed ticket #%d.", utils.Mention(actorID), res.Ticket.Number)
}

func closeButtons(id string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: CloseConfirmPrefix + id},
			discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: CloseCancelPrefix + id},
		}},
	}
}

// HandleClose asks the closer to confirm, then closes the ticket, archives
// the thread and locks it. The prompt expires after the configured timeout.
func HandleClose(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	if !actor.Caps.Has(model.CapStaff) {
		utils.RespondError(s, i, apperr.Unauthorized("You don't have permission to close tickets!"))
		return
	}
	t, err := b.GetStore().GetTicketByChannel(ctx, i.ChannelID)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	if t.IsClosed() {
		utils.RespondError(s, i, apperr.InvalidState("Ticket #%d is already closed.", t.Number))
		return
	}
	reason := utils.Options(i.ApplicationCommandData().Options).String("reason", "")

	id := b.GetConfirmations().Register(actor.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("Are you sure you want to close ticket #%d?", t.Number),
			Components: closeButtons(id),
		},
	})
	if err != nil {
		_ = b.GetConfirmations().Resolve(id, actor.ID, false)
		logger.For("tickets").Warn("error sending close prompt", "error", err)
		return
	}

	go awaitClose(s, i.Interaction, b, id, actor, reason)
}

func awaitClose(s *discordgo.Session, prompt *discordgo.Interaction, b IBot, id string, actor model.Actor, reason string) {
	ctx := context.Background()
	cfg := b.GetConfig()

	noButtons := []discordgo.MessageComponent{}
	if !b.GetConfirmations().Await(ctx, id, cfg.ConfirmTimeout) {
		msg := "Ticket close cancelled or timed out."
		_, _ = s.InteractionResponseEdit(prompt, &discordgo.WebhookEdit{Content: &msg, Components: &noButtons})
		return
	}

	res, err := b.GetTickets().Close(ctx, prompt.ChannelID, actor, reason)
	if err != nil {
		msg := "❌ " + apperr.UserMessage(err)
		_, _ = s.InteractionResponseEdit(prompt, &discordgo.WebhookEdit{Content: &msg, Components: &noButtons})
		if apperr.TypeOf(err) == "" || apperr.TypeOf(err) == apperr.TypeStorageUnavailable {
			_ = utils.LogError(s, cfg.LogChannelID, "Tickets", "Close", err.Error())
		}
		return
	}

	msg := closeMessage(res, actor.ID)
	if _, err := s.InteractionResponseEdit(prompt, &discordgo.WebhookEdit{Content: &msg, Components: &noButtons}); err != nil {
		logger.For("tickets").Warn("error editing close prompt", "error", err)
	}

	archived, locked := true, true
	if _, err := s.ChannelEdit(prompt.ChannelID, &discordgo.ChannelEdit{Archived: &archived, Locked: &locked}); err != nil {
		_ = utils.LogWarn(s, cfg.LogChannelID, "Tickets", "Close",
			fmt.Sprintf("Ticket #%d closed but its thread could not be archived: %v", res.Ticket.Number, err))
	}
}

func closeMessage(res *ticket.CloseResult, actorID string) string {
	return fmt.Sprintf("🔒 Ticket #%d closed by %s after %s.\nReason: %s",
		res.Ticket.Number, utils.Mention(actorID), utils.FormatDuration(res.Duration), res.Ticket.CloseReason.String)
}

// HandleCloseButton answers a close prompt. Only the member who ran /close
// may answer it.
func HandleCloseButton(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	id, confirmed, ok := ConfirmationID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	// The awaiting goroutine edits the prompt; the click itself is only acknowledged.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		logger.For("tickets").Warn("error acknowledging close button", "error", err)
		return
	}
	if err := b.GetConfirmations().Resolve(id, utils.InteractionUserID(i), confirmed); err != nil {
		msg := apperr.UserMessage(err)
		if apperr.TypeOf(err) == apperr.TypeNotFound {
			msg = "This prompt has expired."
		}
		_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: "❌ " + msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	}
}
