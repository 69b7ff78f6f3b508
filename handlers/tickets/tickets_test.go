package tickets

import (
	"database/sql"
	"testing"
	"time"

	"ticket-bot/model"
	"ticket-bot/ticket"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationID(t *testing.T) {
	tests := []struct {
		customID  string
		id        string
		confirmed bool
		ok        bool
	}{
		{"close_confirm:abc", "abc", true, true},
		{"close_cancel:abc", "abc", false, true},
		{"close_confirm:", "", true, false},
		{"ticket_category", "", false, false},
	}
	for _, tt := range tests {
		id, confirmed, ok := ConfirmationID(tt.customID)
		assert.Equal(t, tt.id, id, tt.customID)
		assert.Equal(t, tt.confirmed, confirmed, tt.customID)
		assert.Equal(t, tt.ok, ok, tt.customID)
	}
}

func TestPanelMessageListsEveryCategory(t *testing.T) {
	msg := PanelMessage()
	require.Len(t, msg.Components, 1)
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)

	assert.Equal(t, CategorySelectID, menu.CustomID)
	require.Len(t, menu.Options, len(model.Categories))
	for idx, c := range model.Categories {
		assert.Equal(t, string(c), menu.Options[idx].Value)
		assert.NotEmpty(t, menu.Options[idx].Description)
	}
	assert.Equal(t, "Middleman", menu.Options[0].Label)
}

func TestIntroMessagePingsOpenerAndStaff(t *testing.T) {
	tk := &model.Ticket{Number: 12, OpenerID: "u1", Category: model.CategoryVerify}
	msg := introMessage(tk, []string{"r1", "r2"})

	assert.Equal(t, "<@u1> <@&r1> <@&r2>", msg.Content)
	assert.Equal(t, "Ticket #12 · Verify", msg.Embeds[0].Title)
	assert.Equal(t, []string{"u1"}, msg.AllowedMentions.Users)
	assert.Equal(t, []string{"r1", "r2"}, msg.AllowedMentions.Roles)

	msg = introMessage(tk, nil)
	assert.Equal(t, "<@u1>", msg.Content)
}

func TestLifecycleMessages(t *testing.T) {
	tk := &model.Ticket{Number: 4}
	assert.Equal(t, "✅ <@a> has claimed ticket #4.", claimMessage(&ticket.ClaimResult{Ticket: tk}, "a"))
	assert.Equal(t, "✅ <@a> has taken over ticket #4 from <@b>.",
		claimMessage(&ticket.ClaimResult{Ticket: tk, PreviousHandlerID: "b"}, "a"))

	assert.Equal(t, "🔓 <@a> has unclaimed ticket #4.", unclaimMessage(&ticket.ClaimResult{Ticket: tk, PreviousHandlerID: "a"}, "a"))
	assert.Equal(t, "🔓 <@a> released ticket #4 from <@b>.", unclaimMessage(&ticket.ClaimResult{Ticket: tk, PreviousHandlerID: "b"}, "a"))

	closed := &model.Ticket{Number: 4, CloseReason: sql.NullString{String: "resolved", Valid: true}}
	assert.Equal(t, "🔒 Ticket #4 closed by <@a> after 2h 5m.\nReason: resolved",
		closeMessage(&ticket.CloseResult{Ticket: closed, Duration: 2*time.Hour + 5*time.Minute}, "a"))
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://discord.com/channels/g/c/m", MessageLink("g", "c", "m"))
}
