package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/ticket"
	"ticket-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	archiveColor  = 0x5865f2
	notifyTimeout = 2 * time.Minute
)

func (b *Bot) subscribe() {
	b.Events.Subscribe(model.EventTicketClosed, func(_ context.Context, ev model.Event) {
		// Archive and DM run off the publishing goroutine.
		go b.archiveClosed(ev)
	})
	b.Events.Subscribe(model.EventLeaderboardReady, func(ctx context.Context, ev model.Event) {
		b.postLeaderboards(ctx, ev)
	})
	b.Events.Subscribe(model.EventWeeklyResetFired, func(_ context.Context, ev model.Event) {
		_ = utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "Leaderboard", "Weekly reset",
			"Weekly counters reset at "+ev.Boundary.Format(time.RFC1123))
	})
	b.Events.SubscribeAll(func(_ context.Context, ev model.Event) {
		if ev.Ticket != nil {
			b.log.Debug("event", "kind", ev.Kind, "ticket", ticket.Describe(ev.Ticket), "actor_id", ev.ActorID)
		}
	})
}

// closedTicketEmbed summarizes a closed ticket for the archive channel and
// the opener's DM.
func closedTicketEmbed(ev model.Event) *discordgo.MessageEmbed {
	t := ev.Ticket
	handler := "-"
	if t.IsClaimed() {
		handler = utils.Mention(t.HandlerID.String)
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ticket #%d closed", t.Number),
		Color: archiveColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Category", Value: utils.CategoryLabel(t.Category), Inline: true},
			{Name: "Opened by", Value: utils.Mention(t.OpenerID), Inline: true},
			{Name: "Claimed by", Value: handler, Inline: true},
			{Name: "Closed by", Value: utils.Mention(t.CloserID.String), Inline: true},
			{Name: "Open for", Value: utils.FormatDuration(ev.Duration), Inline: true},
			{Name: "Messages", Value: fmt.Sprintf("%d", len(ev.Transcript)), Inline: true},
			{Name: "Reason", Value: t.CloseReason.String},
		},
		Timestamp: ev.At.Format(time.RFC3339),
	}
}

func transcriptFileName(t *model.Ticket) string {
	return t.ThreadName() + ".txt"
}

func (b *Bot) archiveClosed(ev model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	t := ev.Ticket
	embed := closedTicketEmbed(ev)
	text := model.Transcript(ev.Transcript)

	guildCfg, err := b.Store.GetGuildConfig(ctx, t.GuildID)
	if err != nil {
		b.log.Error("failed to load guild config for archive", "guild_id", t.GuildID, "ticket", t.Number, "error", err)
	} else if guildCfg.ArchiveChannelID.Valid && guildCfg.ArchiveChannelID.String != "" {
		_, err := b.Session.ChannelMessageSendComplex(guildCfg.ArchiveChannelID.String, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  []*discordgo.File{{Name: transcriptFileName(t), ContentType: "text/plain", Reader: strings.NewReader(text)}},
		}, discordgo.WithContext(ctx))
		if err != nil {
			_ = utils.LogWarn(b.Session, b.GetConfig().LogChannelID, "Tickets", "Archive",
				fmt.Sprintf("Ticket #%d could not be archived: %v", t.Number, err))
		}
	}

	// Openers with closed DMs are only logged.
	_ = utils.SendPrivateEmbedMessage(b.Session, t.OpenerID, embed, transcriptFileName(t), strings.NewReader(text))
}

func (b *Bot) postLeaderboards(ctx context.Context, ev model.Event) {
	if ev.ChannelID == "" {
		return
	}
	resolve := b.NameResolver(ev.GuildID)
	embeds := make([]*discordgo.MessageEmbed, 0, len(ev.Boards))
	for _, board := range ev.Boards {
		embeds = append(embeds, leaderboard.Embed(ctx, board, resolve))
	}
	_, err := b.Session.ChannelMessageSendComplex(ev.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("Leaderboards for the week ending %s", ev.Boundary.Format("Mon, 02 Jan 2006")),
		Embeds:  embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		_ = utils.LogWarn(b.Session, b.GetConfig().LogChannelID, "Leaderboard", "Weekly post",
			fmt.Sprintf("Guild %s: %v", ev.GuildID, err))
	}
}
