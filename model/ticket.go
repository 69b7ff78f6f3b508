package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Category is the reason a ticket was opened, picked from the panel select menu.
type Category string

const (
	CategoryMiddleman Category = "middleman"
	CategoryPilot     Category = "pilot"
	CategoryVerify    Category = "verify"
	CategoryGiveaway  Category = "giveaway"
	CategoryOther     Category = "other"
)

// Categories lists the ticket categories in panel order.
var Categories = []Category{
	CategoryMiddleman,
	CategoryPilot,
	CategoryVerify,
	CategoryGiveaway,
	CategoryOther,
}

// ParseCategory validates a raw select-menu value.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown ticket category %q", raw)
}

// TicketStatus is the persisted lifecycle status of a ticket.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket represents a single row of the tickets table.
// ChannelID stays empty between creation and the private thread being attached.
type Ticket struct {
	Number      int64          `db:"ticket_number"`
	GuildID     string         `db:"guild_id"`
	ChannelID   sql.NullString `db:"channel_id"`
	Category    Category       `db:"category"`
	OpenerID    string         `db:"opener_id"`
	HandlerID   sql.NullString `db:"handler_id"`
	CloserID    sql.NullString `db:"closer_id"`
	CreatedAt   time.Time      `db:"created_at"`
	ClosedAt    sql.NullTime   `db:"closed_at"`
	CloseReason sql.NullString `db:"close_reason"`
	Status      TicketStatus   `db:"status"`
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketClosed
}

// IsClaimed reports whether a staff member currently handles the ticket.
func (t *Ticket) IsClaimed() bool {
	return t.HandlerID.Valid && t.HandlerID.String != ""
}

// IsPending reports whether the ticket still waits for its thread.
func (t *Ticket) IsPending() bool {
	return !t.ChannelID.Valid || t.ChannelID.String == ""
}

// Duration returns how long the ticket was open. Open tickets are measured against now.
func (t *Ticket) Duration(now time.Time) time.Duration {
	end := now
	if t.ClosedAt.Valid {
		end = t.ClosedAt.Time
	}
	return end.Sub(t.CreatedAt)
}

// ThreadName is the name given to the private thread backing the ticket.
func (t *Ticket) ThreadName() string {
	return fmt.Sprintf("ticket-%d", t.Number)
}

// TranscriptLine is one message of a ticket thread, oldest first.
type TranscriptLine struct {
	Timestamp time.Time
	Author    string
	Content   string
}

// String formats the line the way archived transcripts are written.
func (l TranscriptLine) String() string {
	return fmt.Sprintf("[%s] %s: %s", l.Timestamp.UTC().Format(time.DateTime), l.Author, l.Content)
}

// Transcript joins lines into the text attached to archive posts.
func Transcript(lines []TranscriptLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}
