package leaderboard

import (
	"context"
	"fmt"
	"time"

	board "ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/database"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

type IBot interface {
	GetConfig() *model.Config
	GetStore() *database.Store
	GetBoards() *board.Aggregator
	NameResolver(guildID string) board.NameResolver
	Actor(ctx context.Context, i *discordgo.InteractionCreate) (model.Actor, error)
}

// HandleLeaderboardCommand dispatches /lb view, add and remove.
func HandleLeaderboardCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	sub, opts := utils.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "view":
		handleView(s, i, b, opts)
	case "add":
		handleRole(s, i, b, opts, true)
	case "remove":
		handleRole(s, i, b, opts, false)
	}
}

// ViewOptions parses the board selection, defaulting to the all-time
// combined board.
func ViewOptions(opts utils.OptionMap) (model.Timeframe, model.Axis, error) {
	tf, err := model.ParseTimeframe(opts.String("timeframe", string(model.TimeframeAllTime)))
	if err != nil {
		return "", "", apperr.Validation("%s", err.Error())
	}
	axis, err := model.ParseAxis(opts.String("stat", string(model.AxisCombined)))
	if err != nil {
		return "", "", apperr.Validation("%s", err.Error())
	}
	return tf, axis, nil
}

func handleView(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot, opts utils.OptionMap) {
	tf, axis, err := ViewOptions(opts)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	// Resolving names takes one API call per entry.
	if err := utils.DeferResponse(s, i, false); err != nil {
		logger.For("leaderboard").Warn("error deferring response", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	lb, err := b.GetBoards().Build(ctx, tf, axis)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, err)
		return
	}
	embeds := []*discordgo.MessageEmbed{board.Embed(ctx, lb, b.NameResolver(i.GuildID))}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		logger.For("leaderboard").Warn("error sending leaderboard", "error", err)
	}
}

func handleRole(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot, opts utils.OptionMap, add bool) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	if !actor.Caps.Has(model.CapManage) {
		utils.RespondError(s, i, apperr.Unauthorized("You need Manage Server to change leaderboard roles."))
		return
	}
	userID := opts.ID("user")
	role, err := model.ParseLeaderboardRole(opts.String("role", ""))
	if err != nil {
		utils.RespondError(s, i, apperr.Validation("%s", err.Error()))
		return
	}

	var msg string
	if add {
		err = b.GetStore().SetLeaderboardRole(ctx, userID, role, time.Now())
		msg = fmt.Sprintf("Added %s to the leaderboard as **%s**.", utils.Mention(userID), role)
	} else {
		err = b.GetStore().ClearLeaderboardRole(ctx, userID, role)
		msg = fmt.Sprintf("Removed **%s** from %s.", role, utils.Mention(userID))
	}
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendSimpleResponse(s, i, "✅ "+msg)
	_ = utils.LogInfo(s, b.GetConfig().LogChannelID, "Leaderboard", "Roles", utils.Mention(actor.ID)+": "+msg)
}
