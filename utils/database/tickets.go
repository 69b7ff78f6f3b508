package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"

	"github.com/jmoiron/sqlx"
)

const ticketColumns = `ticket_number, guild_id, channel_id, category, opener_id, handler_id,
	closer_id, created_at, closed_at, close_reason, status`

// CreateTicket allocates the next ticket number for guildID. When limit is
// positive and the guild already has limit open tickets nothing is inserted
// and a CapacityExceeded error is returned. The ticket starts without a
// channel; AttachChannel completes it.
func (s *Store) CreateTicket(ctx context.Context, guildID string, category model.Category, openerID string, limit int, at time.Time) (*model.Ticket, error) {
	t := &model.Ticket{
		GuildID:   guildID,
		Category:  category,
		OpenerID:  openerID,
		CreatedAt: dbTime(at),
		Status:    model.TicketOpen,
	}

	err := s.withTx(ctx, "create ticket", func(tx *sqlx.Tx) error {
		if limit > 0 {
			var open int
			if err := tx.GetContext(ctx, &open, `SELECT COUNT(*) FROM tickets WHERE guild_id = ? AND status = 'open'`, guildID); err != nil {
				return fmt.Errorf("failed to count open tickets: %w", err)
			}
			if open >= limit {
				return apperr.CapacityExceeded("This server has reached its limit of %d open tickets.", limit)
			}
		}

		res, err := tx.NamedExecContext(ctx, `INSERT INTO tickets (guild_id, category, opener_id, created_at, status)
			VALUES (:guild_id, :category, :opener_id, :created_at, :status)`, t)
		if err != nil {
			return fmt.Errorf("failed to insert ticket: %w", err)
		}
		t.Number, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// AttachChannel binds the thread created for ticket n. Repeating the call
// with the same channel is a no-op.
func (s *Store) AttachChannel(ctx context.Context, n int64, channelID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tickets SET channel_id = ?
		WHERE ticket_number = ? AND (channel_id IS NULL OR channel_id = ?)`, channelID, n, channelID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.InvalidState("Channel %s already belongs to another ticket.", channelID)
		}
		return apperr.Storage(err, "attach channel")
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		return nil
	}
	if _, err := s.GetTicket(ctx, n); err != nil {
		return err
	}
	return apperr.InvalidState("Ticket #%d is already bound to another channel.", n)
}

func (s *Store) GetTicket(ctx context.Context, n int64) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.GetContext(ctx, &t, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = ?`, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Ticket #%d does not exist.", n)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get ticket")
	}
	return &t, nil
}

func (s *Store) GetTicketByChannel(ctx context.Context, channelID string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.GetContext(ctx, &t, `SELECT `+ticketColumns+` FROM tickets WHERE channel_id = ?`, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("This channel is not a ticket.")
	}
	if err != nil {
		return nil, apperr.Storage(err, "get ticket by channel")
	}
	return &t, nil
}

func (s *Store) CountOpenTickets(ctx context.Context, guildID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tickets WHERE guild_id = ? AND status = 'open'`, guildID); err != nil {
		return 0, apperr.Storage(err, "count open tickets")
	}
	return n, nil
}

// ListPendingTickets returns open tickets still waiting for a channel that
// were created before olderThan.
func (s *Store) ListPendingTickets(ctx context.Context, olderThan time.Time) ([]model.Ticket, error) {
	var all []model.Ticket
	err := s.db.SelectContext(ctx, &all, `SELECT `+ticketColumns+` FROM tickets
		WHERE status = 'open' AND channel_id IS NULL ORDER BY ticket_number`)
	if err != nil {
		return nil, apperr.Storage(err, "list pending tickets")
	}
	var stale []model.Ticket
	for _, t := range all {
		if t.CreatedAt.Before(olderThan) {
			stale = append(stale, t)
		}
	}
	return stale, nil
}

// ClaimTicket assigns an unclaimed open ticket to handlerID and credits the
// handler in the same transaction.
func (s *Store) ClaimTicket(ctx context.Context, n int64, handlerID string) error {
	return s.withTx(ctx, "claim ticket", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tickets SET handler_id = ?
			WHERE ticket_number = ? AND status = 'open' AND handler_id IS NULL`, handlerID, n)
		if err != nil {
			return err
		}
		if err := expectOne(res, "Ticket #%d was changed by someone else, try again.", n); err != nil {
			return err
		}
		return s.applyDeltas(ctx, tx, handlerID, handledDelta(1))
	})
}

// ReassignTicket moves a claimed ticket from fromID to toID, reversing the
// previous handler's credit and crediting the new one.
func (s *Store) ReassignTicket(ctx context.Context, n int64, fromID, toID string) error {
	return s.withTx(ctx, "reassign ticket", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tickets SET handler_id = ?
			WHERE ticket_number = ? AND status = 'open' AND handler_id = ?`, toID, n, fromID)
		if err != nil {
			return err
		}
		if err := expectOne(res, "Ticket #%d was changed by someone else, try again.", n); err != nil {
			return err
		}
		if err := s.applyDeltas(ctx, tx, fromID, handledDelta(-1)); err != nil {
			return err
		}
		return s.applyDeltas(ctx, tx, toID, handledDelta(1))
	})
}

// UnclaimTicket releases a ticket held by handlerID and reverses its credit.
func (s *Store) UnclaimTicket(ctx context.Context, n int64, handlerID string) error {
	return s.withTx(ctx, "unclaim ticket", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tickets SET handler_id = NULL
			WHERE ticket_number = ? AND status = 'open' AND handler_id = ?`, n, handlerID)
		if err != nil {
			return err
		}
		if err := expectOne(res, "Ticket #%d was changed by someone else, try again.", n); err != nil {
			return err
		}
		return s.applyDeltas(ctx, tx, handlerID, handledDelta(-1))
	})
}

// CloseTicket moves an open ticket to closed and credits the closer.
func (s *Store) CloseTicket(ctx context.Context, n int64, closerID, reason string, at time.Time) error {
	return s.withTx(ctx, "close ticket", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tickets
			SET status = 'closed', closer_id = ?, close_reason = ?, closed_at = ?
			WHERE ticket_number = ? AND status = 'open'`, closerID, reason, dbTime(at), n)
		if err != nil {
			return err
		}
		if err := expectOne(res, "Ticket #%d is already closed.", n); err != nil {
			return err
		}
		return s.applyDeltas(ctx, tx, closerID, closedDelta(1))
	})
}

// AbandonTicket closes a ticket whose thread never came into existence. The
// opener is recorded as closer and no statistics change.
func (s *Store) AbandonTicket(ctx context.Context, n int64, reason string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tickets
		SET status = 'closed', closer_id = opener_id, close_reason = ?, closed_at = ?
		WHERE ticket_number = ? AND status = 'open'`, reason, dbTime(at), n)
	if err != nil {
		return apperr.Storage(err, "abandon ticket")
	}
	return expectOne(res, "Ticket #%d is already closed.", n)
}

func expectOne(res sql.Result, format string, args ...any) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return apperr.InvalidState(format, args...)
	}
	return nil
}
