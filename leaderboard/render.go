package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
)

// EmbedColor is the accent used on every leaderboard and stats embed.
const EmbedColor = 0xf9e6f0

// NameResolver looks up a display name. Errors fall back to a mention.
type NameResolver func(ctx context.Context, userID string) (string, error)

// Title returns the heading for a board.
func Title(b *model.Board) string {
	var title string
	if b.Timeframe == model.TimeframeWeekly {
		title = "Weekly Leaderboard"
	} else {
		title = "Leaderboard"
	}
	switch b.Axis {
	case model.AxisClosed:
		title += " · Closed"
	case model.AxisHandled:
		title += " · Handled"
	}
	return title
}

// Render writes the board as embed text, one line per user.
func Render(ctx context.Context, b *model.Board, resolve NameResolver) string {
	if b.Empty() {
		return "No leaderboard data available."
	}
	var sb strings.Builder
	for i, g := range b.Groups {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "**%s**\n", g.Role)
		for _, e := range g.Entries {
			fmt.Fprintf(&sb, "%s **%d** all - **%d** 7d\n", displayName(ctx, e.UserID, resolve), e.AllTime, e.Weekly)
		}
	}
	return sb.String()
}

func displayName(ctx context.Context, userID string, resolve NameResolver) string {
	if resolve == nil {
		return "<@" + userID + ">"
	}
	name, err := resolve(ctx, userID)
	if err != nil || name == "" {
		return "<@" + userID + ">"
	}
	return "@" + name
}

// Embed wraps Render in a Discord embed.
func Embed(ctx context.Context, b *model.Board, resolve NameResolver) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       Title(b),
		Description: truncate(Render(ctx, b, resolve), maxDescription),
		Color:       EmbedColor,
	}
}

const maxDescription = 4096

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
