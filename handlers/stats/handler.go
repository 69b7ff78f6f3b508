package stats

import (
	"context"
	"errors"
	"fmt"

	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/ticket"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

type IBot interface {
	GetConfig() *model.Config
	GetStore() *database.Store
	GetTickets() *ticket.Manager
	Actor(ctx context.Context, i *discordgo.InteractionCreate) (model.Actor, error)
}

// StatsEmbed renders a member's counters. role is empty for members
// without a leaderboard role.
func StatsEmbed(name string, st *model.UserStats, role model.LeaderboardRole) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Ticket stats · " + name,
		Color: leaderboard.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Handled", Value: fmt.Sprintf("%d", st.AllTimeHandled), Inline: true},
			{Name: "Closed", Value: fmt.Sprintf("%d", st.AllTimeClosed), Inline: true},
			{Name: "Total", Value: fmt.Sprintf("%d", st.AllTimeTotal()), Inline: true},
			{Name: "Handled (7d)", Value: fmt.Sprintf("%d", st.WeeklyHandled), Inline: true},
			{Name: "Closed (7d)", Value: fmt.Sprintf("%d", st.WeeklyClosed), Inline: true},
			{Name: "Total (7d)", Value: fmt.Sprintf("%d", st.WeeklyTotal()), Inline: true},
		},
	}
	if role != "" {
		value := string(role)
		if st.RoleAssignmentDate.Valid {
			value += fmt.Sprintf(" since <t:%d:D>", st.RoleAssignmentDate.Time.Unix())
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Role", Value: value})
	}
	if st.ProfileMessage.Valid && st.ProfileMessage.String != "" {
		embed.Description = st.ProfileMessage.String
	}
	return embed
}

func HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	opts := utils.Options(i.ApplicationCommandData().Options)
	userID := opts.ID("user")
	name := ""
	if userID == "" {
		userID = utils.InteractionUserID(i)
		if i.Member != nil && i.Member.User != nil {
			name = i.Member.User.Username
		}
	} else if res := i.ApplicationCommandData().Resolved; res != nil {
		if u, ok := res.Users[userID]; ok {
			name = u.Username
		}
	}
	if name == "" {
		name = userID
	}

	st, err := b.GetTickets().Stats(ctx, userID)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	role, err := b.GetStore().GetLeaderboardRole(ctx, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, StatsEmbed(name, st, role), false)
}

func HandleProfileEdit(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	message := utils.Options(i.ApplicationCommandData().Options).String("message", "")
	if err := b.GetTickets().UpdateProfile(ctx, actor, message); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendSimpleResponse(s, i, "✅ Profile message updated.")
}

func HandleModify(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	opts := utils.Options(i.ApplicationCommandData().Options)
	userID := opts.ID("user")
	field, err := model.ParseStatField(opts.String("stat", ""))
	if err != nil {
		utils.RespondError(s, i, apperr.Validation("%s", err.Error()))
		return
	}
	delta := opts.Int("value", 0)

	st, err := b.GetTickets().ModifyStat(ctx, actor, userID, field, delta)
	if err != nil {
		utils.RespondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, StatsEmbed(utils.Mention(userID), st, ""), true)
	_ = utils.LogInfo(s, b.GetConfig().LogChannelID, "Stats", "Modify",
		fmt.Sprintf("%s changed %s of %s by %+d", utils.Mention(actor.ID), field, utils.Mention(userID), delta))
}
