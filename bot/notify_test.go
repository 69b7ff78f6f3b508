package bot

import (
	"database/sql"
	"testing"
	"time"

	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTicket() *model.Ticket {
	created := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	return &model.Ticket{
		Number:      7,
		GuildID:     "g1",
		ChannelID:   sql.NullString{String: "c7", Valid: true},
		Category:    model.CategoryPilot,
		OpenerID:    "opener",
		HandlerID:   sql.NullString{String: "staff", Valid: true},
		CloserID:    sql.NullString{String: "staff", Valid: true},
		CreatedAt:   created,
		ClosedAt:    sql.NullTime{Time: created.Add(90 * time.Minute), Valid: true},
		CloseReason: sql.NullString{String: "done", Valid: true},
		Status:      model.TicketClosed,
	}
}

func TestClosedTicketEmbed(t *testing.T) {
	tk := closedTicket()
	ev := model.Event{
		Kind:       model.EventTicketClosed,
		At:         tk.ClosedAt.Time,
		Ticket:     tk,
		Duration:   90 * time.Minute,
		Transcript: []model.TranscriptLine{{Author: "a", Content: "hi"}, {Author: "b", Content: "yo"}},
	}

	embed := closedTicketEmbed(ev)
	assert.Equal(t, "Ticket #7 closed", embed.Title)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "Pilot", fields["Category"])
	assert.Equal(t, "<@opener>", fields["Opened by"])
	assert.Equal(t, "<@staff>", fields["Claimed by"])
	assert.Equal(t, "1h 30m", fields["Open for"])
	assert.Equal(t, "2", fields["Messages"])
	assert.Equal(t, "done", fields["Reason"])
	assert.Equal(t, "ticket-7.txt", transcriptFileName(tk))
}

func TestClosedTicketEmbedUnclaimed(t *testing.T) {
	tk := closedTicket()
	tk.HandlerID = sql.NullString{}

	embed := closedTicketEmbed(model.Event{Ticket: tk, At: tk.ClosedAt.Time})
	for _, f := range embed.Fields {
		if f.Name == "Claimed by" {
			assert.Equal(t, "-", f.Value)
		}
	}
}

func TestTranscriptLine(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	line := transcriptLine(&discordgo.Message{
		Author:      &discordgo.User{Username: "alice"},
		Content:     "see file",
		Timestamp:   ts,
		Attachments: []*discordgo.MessageAttachment{{URL: "https://cdn.example/a.png"}},
	})
	assert.Equal(t, "alice", line.Author)
	assert.Equal(t, "see file https://cdn.example/a.png", line.Content)
	assert.Equal(t, "[2025-01-01 12:00:00] alice: see file https://cdn.example/a.png", line.String())

	line = transcriptLine(&discordgo.Message{Timestamp: ts})
	assert.Equal(t, "unknown", line.Author)
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "nick", memberName(&discordgo.Member{Nick: "nick", User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "Global", memberName(&discordgo.Member{User: &discordgo.User{Username: "u", GlobalName: "Global"}}))
	assert.Equal(t, "u", memberName(&discordgo.Member{User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "", memberName(&discordgo.Member{}))
}

func TestDescribePending(t *testing.T) {
	created := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	out := describePending([]model.Ticket{{Number: 3, OpenerID: "u1", CreatedAt: created}})
	require.Contains(t, out, "1 ticket(s) never got a thread:")
	assert.Contains(t, out, "#3 opened by <@u1> at 2025-03-02 10:00:00")
}
