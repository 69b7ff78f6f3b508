package bot

import (
	"context"
	"slices"
	"strings"

	"ticket-bot/leaderboard"
	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
)

const (
	historyPageSize    = 100
	maxTranscriptLines = 10000
)

// threadHistory reads ticket thread messages through the Discord API.
type threadHistory struct {
	session *discordgo.Session
}

// ThreadMessages pages backwards through the channel and returns the
// messages oldest first.
func (h *threadHistory) ThreadMessages(ctx context.Context, channelID string) ([]model.TranscriptLine, error) {
	var (
		lines    []model.TranscriptLine
		beforeID string
	)
	for len(lines) < maxTranscriptLines {
		page, err := h.session.ChannelMessages(channelID, historyPageSize, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, m := range page {
			lines = append(lines, transcriptLine(m))
		}
		if len(page) < historyPageSize {
			break
		}
		beforeID = page[len(page)-1].ID
	}
	slices.Reverse(lines)
	return lines, nil
}

func transcriptLine(m *discordgo.Message) model.TranscriptLine {
	author := "unknown"
	if m.Author != nil {
		author = m.Author.Username
	}
	content := m.Content
	for _, a := range m.Attachments {
		content = strings.TrimSpace(content + " " + a.URL)
	}
	for _, e := range m.Embeds {
		if e.Title != "" {
			content = strings.TrimSpace(content + " [embed: " + e.Title + "]")
		}
	}
	return model.TranscriptLine{Timestamp: m.Timestamp, Author: author, Content: content}
}

// NameResolver looks members up in guildID, preferring the server nickname.
func (b *Bot) NameResolver(guildID string) leaderboard.NameResolver {
	return func(ctx context.Context, userID string) (string, error) {
		member, err := b.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return "", err
		}
		return memberName(member), nil
	}
}

func memberName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
