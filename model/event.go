package model

import "time"

// EventKind names a lifecycle or scheduler event.
type EventKind string

const (
	EventTicketCreated    EventKind = "ticket-created"
	EventTicketClaimed    EventKind = "ticket-claimed"
	EventTicketUnclaimed  EventKind = "ticket-unclaimed"
	EventTicketClosed     EventKind = "ticket-closed"
	EventWeeklyResetFired EventKind = "weekly-reset-fired"
	EventLeaderboardReady EventKind = "leaderboard-ready"
)

// Event is handed to subscribers after the ledger change it describes has
// been committed. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	At      time.Time
	GuildID string
	ActorID string

	Ticket            *Ticket
	PreviousHandlerID string
	Transcript        []TranscriptLine
	Duration          time.Duration

	// ChannelID is the leaderboard channel for leaderboard-ready.
	ChannelID string
	Boards    []*Board
	Boundary  time.Time
}
