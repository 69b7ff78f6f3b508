package tickets

import (
	"context"
	"strings"

	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/ticket"
	"ticket-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

type IBot interface {
	GetConfig() *model.Config
	GetStore() *database.Store
	GetTickets() *ticket.Manager
	GetConfirmations() *ticket.Confirmations
	Actor(ctx context.Context, i *discordgo.InteractionCreate) (model.Actor, error)
}

// Component custom IDs.
const (
	CategorySelectID   = "ticket_category"
	CloseConfirmPrefix = "close_confirm:"
	CloseCancelPrefix  = "close_cancel:"
)

// ConfirmationID extracts the prompt id from a close button.
func ConfirmationID(customID string) (id string, confirmed bool, ok bool) {
	if id, found := strings.CutPrefix(customID, CloseConfirmPrefix); found {
		return id, true, id != ""
	}
	if id, found := strings.CutPrefix(customID, CloseCancelPrefix); found {
		return id, false, id != ""
	}
	return "", false, false
}

const (
	introColor = leaderboard.EmbedColor
	panelColor = leaderboard.EmbedColor
)
