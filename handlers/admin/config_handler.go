package admin

import (
	"context"
	"fmt"
	"strings"

	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

type IBot interface {
	GetConfig() *model.Config
	GetStore() *database.Store
	Actor(ctx context.Context, i *discordgo.InteractionCreate) (model.Actor, error)
	ReloadConfig() error
}

// requireManage resolves the actor and rejects anyone without Manage Server.
func requireManage(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) (model.Actor, bool) {
	actor, err := b.Actor(ctx, i)
	if err != nil {
		utils.RespondError(s, i, err)
		return actor, false
	}
	if !actor.Caps.Has(model.CapManage) {
		utils.RespondError(s, i, apperr.Unauthorized("You need Manage Server to change ticket settings."))
		return actor, false
	}
	return actor, true
}

func logChange(s *discordgo.Session, b IBot, actor model.Actor, guildID, what string) {
	_ = utils.LogInfo(s, b.GetConfig().LogChannelID, "Config", "Update",
		fmt.Sprintf("%s in guild %s: %s", utils.Mention(actor.ID), guildID, what))
}

func HandleTicketLimit(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, ok := requireManage(ctx, s, i, b)
	if !ok {
		return
	}
	limit := utils.Options(i.ApplicationCommandData().Options).Int("limit", 0)
	if err := b.GetStore().SetTicketLimit(ctx, i.GuildID, int(limit)); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	msg := fmt.Sprintf("Open ticket limit set to **%d**.", limit)
	if limit == 0 {
		msg = "Open ticket limit removed."
	}
	utils.SendSimpleResponse(s, i, "✅ "+msg)
	logChange(s, b, actor, i.GuildID, msg)
}

func HandleSetArchive(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, ok := requireManage(ctx, s, i, b)
	if !ok {
		return
	}
	channelID := utils.Options(i.ApplicationCommandData().Options).ID("channel")
	if err := b.GetStore().SetArchiveChannel(ctx, i.GuildID, channelID); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	msg := fmt.Sprintf("Transcripts will be archived in <#%s>.", channelID)
	utils.SendSimpleResponse(s, i, "✅ "+msg)
	logChange(s, b, actor, i.GuildID, msg)
}

func HandleSetLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, ok := requireManage(ctx, s, i, b)
	if !ok {
		return
	}
	channelID := utils.Options(i.ApplicationCommandData().Options).ID("channel")
	if err := b.GetStore().SetLeaderboardChannel(ctx, i.GuildID, channelID); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	msg := fmt.Sprintf("Weekly leaderboards will be posted in <#%s>.", channelID)
	utils.SendSimpleResponse(s, i, "✅ "+msg)
	logChange(s, b, actor, i.GuildID, msg)
}

// StaffRoleOptions collects the role options in declaration order, without
// duplicates.
func StaffRoleOptions(opts utils.OptionMap) []string {
	var ids []string
	seen := map[string]bool{}
	for _, name := range []string{"role", "role2", "role3", "role4"} {
		id := opts.ID(name)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func HandleSetStaffRoles(s *discordgo.Session, i *discordgo.InteractionCreate, b IBot) {
	ctx := context.Background()
	actor, ok := requireManage(ctx, s, i, b)
	if !ok {
		return
	}
	ids := StaffRoleOptions(utils.Options(i.ApplicationCommandData().Options))
	if err := b.GetStore().SetStaffRoles(ctx, i.GuildID, ids); err != nil {
		utils.RespondError(s, i, err)
		return
	}
	mentions := make([]string, len(ids))
	for idx, id := range ids {
		mentions[idx] = "<@&" + id + ">"
	}
	msg := "Staff roles set to " + strings.Join(mentions, ", ") + "."
	utils.SendSimpleResponse(s, i, "✅ "+msg)
	logChange(s, b, actor, i.GuildID, msg)
}
