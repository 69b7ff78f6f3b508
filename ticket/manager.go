package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/logger"
)

// Store is the part of the ledger the manager needs.
type Store interface {
	CreateTicket(ctx context.Context, guildID string, category model.Category, openerID string, limit int, at time.Time) (*model.Ticket, error)
	AttachChannel(ctx context.Context, n int64, channelID string) error
	AbandonTicket(ctx context.Context, n int64, reason string, at time.Time) error
	GetTicket(ctx context.Context, n int64) (*model.Ticket, error)
	GetTicketByChannel(ctx context.Context, channelID string) (*model.Ticket, error)
	ListPendingTickets(ctx context.Context, olderThan time.Time) ([]model.Ticket, error)

	ClaimTicket(ctx context.Context, n int64, handlerID string) error
	ReassignTicket(ctx context.Context, n int64, fromID, toID string) error
	UnclaimTicket(ctx context.Context, n int64, handlerID string) error
	CloseTicket(ctx context.Context, n int64, closerID, reason string, at time.Time) error

	GetGuildConfig(ctx context.Context, guildID string) (*model.GuildConfig, error)

	UpsertStat(ctx context.Context, userID string, field model.StatField, delta int64) (*model.UserStats, error)
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
	UpdateProfileMessage(ctx context.Context, userID, message string) error
}

// MessageSource lists the messages of a ticket thread, oldest first.
type MessageSource interface {
	ThreadMessages(ctx context.Context, channelID string) ([]model.TranscriptLine, error)
}

// Publisher receives events after the change they describe is committed.
type Publisher interface {
	Publish(ctx context.Context, ev model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.Event) {}

const defaultCloseReason = "No reason provided"

// Manager enforces the ticket state machine: open and unclaimed, open and
// claimed by a handler, closed. Every mutation of one ticket runs under that
// ticket's lock; creations are serialized per guild.
type Manager struct {
	store    Store
	messages MessageSource
	events   Publisher
	now      func() time.Time
	locks    *keyedMutex
	log      *slog.Logger
}

type Option func(*Manager)

func WithMessageSource(src MessageSource) Option {
	return func(m *Manager) { m.messages = src }
}

func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		events: nopPublisher{},
		now:    time.Now,
		locks:  newKeyedMutex(),
		log:    logger.For("ticket"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func ticketKey(n int64) string {
	return "ticket:" + strconv.FormatInt(n, 10)
}

// Create opens a ticket for openerID. The ticket has no channel until
// AttachChannel is called.
func (m *Manager) Create(ctx context.Context, guildID string, category model.Category, openerID string) (*model.Ticket, error) {
	if _, err := model.ParseCategory(string(category)); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	unlock := m.locks.Lock("guild:" + guildID)
	defer unlock()

	cfg, err := m.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	t, err := m.store.CreateTicket(ctx, guildID, category, openerID, cfg.TicketLimit, m.now())
	if err != nil {
		return nil, err
	}

	m.log.Info("ticket created", "ticket", t.Number, "guild_id", guildID, "category", category, "opener_id", openerID)
	m.events.Publish(ctx, model.Event{Kind: model.EventTicketCreated, At: t.CreatedAt, GuildID: guildID, ActorID: openerID, Ticket: t})
	return t, nil
}

// AttachChannel completes a ticket created by Create.
func (m *Manager) AttachChannel(ctx context.Context, n int64, channelID string) (*model.Ticket, error) {
	unlock := m.locks.Lock(ticketKey(n))
	defer unlock()

	if err := m.store.AttachChannel(ctx, n, channelID); err != nil {
		return nil, err
	}
	return m.store.GetTicket(ctx, n)
}

// Abandon closes a ticket whose thread could not be created. No statistics
// change.
func (m *Manager) Abandon(ctx context.Context, n int64, cause error) error {
	unlock := m.locks.Lock(ticketKey(n))
	defer unlock()

	reason := "abandoned"
	if cause != nil {
		reason = "abandoned: " + cause.Error()
	}
	if err := m.store.AbandonTicket(ctx, n, reason, m.now()); err != nil {
		return err
	}
	m.log.Warn("ticket abandoned", "ticket", n, "reason", reason)
	return nil
}

// lockByChannel resolves the ticket bound to channelID, takes its lock and
// re-reads it so the caller sees the state under the lock.
func (m *Manager) lockByChannel(ctx context.Context, channelID string) (*model.Ticket, func(), error) {
	t, err := m.store.GetTicketByChannel(ctx, channelID)
	if err != nil {
		return nil, nil, err
	}
	unlock := m.locks.Lock(ticketKey(t.Number))
	t, err = m.store.GetTicket(ctx, t.Number)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return t, unlock, nil
}

// ClaimResult describes a successful claim. PreviousHandlerID is set when a
// forced claim took the ticket from someone else.
type ClaimResult struct {
	Ticket            *model.Ticket
	PreviousHandlerID string
}

// Claim assigns the ticket in channelID to actor. Taking a ticket that
// someone else holds needs force and the staff capability; the previous
// handler's credit is reversed in the same transaction.
func (m *Manager) Claim(ctx context.Context, channelID string, actor model.Actor, force bool) (*ClaimResult, error) {
	if force && !actor.Caps.Has(model.CapStaff) {
		return nil, apperr.Unauthorized("You don't have permission to force claim!")
	}

	t, unlock, err := m.lockByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if t.IsClosed() {
		return nil, apperr.InvalidState("Ticket #%d is closed.", t.Number)
	}

	res := &ClaimResult{}
	switch {
	case !t.IsClaimed():
		err = m.store.ClaimTicket(ctx, t.Number, actor.ID)
	case t.HandlerID.String == actor.ID:
		return nil, apperr.InvalidState("You have already claimed this ticket.")
	case !force:
		return nil, apperr.InvalidState("This ticket is already claimed by <@%s>.", t.HandlerID.String)
	default:
		res.PreviousHandlerID = t.HandlerID.String
		err = m.store.ReassignTicket(ctx, t.Number, res.PreviousHandlerID, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	if res.Ticket, err = m.store.GetTicket(ctx, t.Number); err != nil {
		return nil, err
	}
	m.log.Info("ticket claimed", "ticket", t.Number, "handler_id", actor.ID, "previous_handler_id", res.PreviousHandlerID)
	m.events.Publish(ctx, model.Event{
		Kind:              model.EventTicketClaimed,
		At:                m.now(),
		GuildID:           t.GuildID,
		ActorID:           actor.ID,
		Ticket:            res.Ticket,
		PreviousHandlerID: res.PreviousHandlerID,
	})
	return res, nil
}

// Unclaim releases the ticket in channelID. Only the handler may do so
// unless force is set by a staff member. It returns the released handler.
func (m *Manager) Unclaim(ctx context.Context, channelID string, actor model.Actor, force bool) (*ClaimResult, error) {
	if force && !actor.Caps.Has(model.CapStaff) {
		return nil, apperr.Unauthorized("You don't have permission to force unclaim!")
	}

	t, unlock, err := m.lockByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if t.IsClosed() {
		return nil, apperr.InvalidState("Ticket #%d is closed.", t.Number)
	}
	if !t.IsClaimed() {
		return nil, apperr.InvalidState("This ticket is not claimed.")
	}
	handler := t.HandlerID.String
	if handler != actor.ID && !force {
		return nil, apperr.Unauthorized("Only <@%s> can unclaim this ticket.", handler)
	}

	if err := m.store.UnclaimTicket(ctx, t.Number, handler); err != nil {
		return nil, err
	}

	res := &ClaimResult{PreviousHandlerID: handler}
	if res.Ticket, err = m.store.GetTicket(ctx, t.Number); err != nil {
		return nil, err
	}
	m.log.Info("ticket unclaimed", "ticket", t.Number, "handler_id", handler, "actor_id", actor.ID, "force", force)
	m.events.Publish(ctx, model.Event{
		Kind:              model.EventTicketUnclaimed,
		At:                m.now(),
		GuildID:           t.GuildID,
		ActorID:           actor.ID,
		Ticket:            res.Ticket,
		PreviousHandlerID: handler,
	})
	return res, nil
}

// CloseResult is what the archive and notification layer needs after a close.
type CloseResult struct {
	Ticket     *model.Ticket
	Transcript []model.TranscriptLine
	Duration   time.Duration
}

// Close moves the ticket in channelID to closed and credits actor. The
// transcript is collected after the close has been committed; failing to
// collect it leaves the transcript empty.
func (m *Manager) Close(ctx context.Context, channelID string, actor model.Actor, reason string) (*CloseResult, error) {
	if !actor.Caps.Has(model.CapStaff) {
		return nil, apperr.Unauthorized("You don't have permission to close tickets!")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCloseReason
	}

	t, unlock, err := m.lockByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		unlock()
		return nil, apperr.InvalidState("Ticket #%d is already closed.", t.Number)
	}
	err = m.store.CloseTicket(ctx, t.Number, actor.ID, reason, m.now())
	if err == nil {
		t, err = m.store.GetTicket(ctx, t.Number)
	}
	unlock()
	if err != nil {
		return nil, err
	}

	res := &CloseResult{
		Ticket:     t,
		Transcript: m.transcript(ctx, channelID),
		Duration:   t.Duration(m.now()),
	}
	m.log.Info("ticket closed", "ticket", t.Number, "closer_id", actor.ID, "duration", res.Duration, "messages", len(res.Transcript))
	m.events.Publish(ctx, model.Event{
		Kind:       model.EventTicketClosed,
		At:         t.ClosedAt.Time,
		GuildID:    t.GuildID,
		ActorID:    actor.ID,
		Ticket:     t,
		Transcript: res.Transcript,
		Duration:   res.Duration,
	})
	return res, nil
}

func (m *Manager) transcript(ctx context.Context, channelID string) []model.TranscriptLine {
	if m.messages == nil {
		return nil
	}
	lines, err := m.messages.ThreadMessages(ctx, channelID)
	if err != nil {
		m.log.Warn("failed to collect transcript", "channel_id", channelID, "error", err)
		return nil
	}
	return lines
}

// ModifyStat applies a manual adjustment to one counter of userID.
func (m *Manager) ModifyStat(ctx context.Context, actor model.Actor, userID string, field model.StatField, delta int64) (*model.UserStats, error) {
	if !actor.Caps.Has(model.CapManage) {
		return nil, apperr.Unauthorized("You don't have permission to modify stats!")
	}
	st, err := m.store.UpsertStat(ctx, userID, field, delta)
	if err != nil {
		return nil, err
	}
	m.log.Info("stat modified", "user_id", userID, "field", field, "delta", delta, "actor_id", actor.ID)
	return st, nil
}

// Stats returns userID's counters. A user without a row has all zeros.
func (m *Manager) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	st, err := m.store.GetUserStats(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &model.UserStats{UserID: userID}, nil
	}
	return st, err
}

const maxProfileMessage = 200

// UpdateProfile sets the actor's own profile message.
func (m *Manager) UpdateProfile(ctx context.Context, actor model.Actor, message string) error {
	if !actor.Caps.Has(model.CapStaff) {
		return apperr.Unauthorized("Only staff members have a profile.")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return apperr.Validation("The profile message cannot be empty.")
	}
	if len([]rune(message)) > maxProfileMessage {
		return apperr.Validation("The profile message must be at most %d characters.", maxProfileMessage)
	}
	return m.store.UpdateProfileMessage(ctx, actor.ID, message)
}

// PendingAnomalies returns open tickets that have waited longer than age for
// their thread. Each one is logged; they indicate a crash or API failure
// between creation and AttachChannel.
func (m *Manager) PendingAnomalies(ctx context.Context, age time.Duration) ([]model.Ticket, error) {
	stale, err := m.store.ListPendingTickets(ctx, m.now().Add(-age))
	if err != nil {
		return nil, err
	}
	for _, t := range stale {
		m.log.Warn("ticket has no channel",
			"ticket", t.Number, "guild_id", t.GuildID, "opener_id", t.OpenerID,
			"waiting", m.now().Sub(t.CreatedAt).Truncate(time.Second))
	}
	return stale, nil
}

// Describe is a one-line summary used in logs and status replies.
func Describe(t *model.Ticket) string {
	state := "unclaimed"
	switch {
	case t.IsClosed():
		state = "closed by <@" + t.CloserID.String + ">"
	case t.IsClaimed():
		state = "claimed by <@" + t.HandlerID.String + ">"
	}
	return fmt.Sprintf("#%d (%s) %s", t.Number, t.Category, state)
}
