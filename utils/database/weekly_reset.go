package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ticket-bot/utils/apperr"

	"github.com/jmoiron/sqlx"
)

// LastWeeklyReset returns the watermark of the last completed reset. ok is
// false when no reset ever ran.
func (s *Store) LastWeeklyReset(ctx context.Context) (last time.Time, ok bool, err error) {
	err = s.db.GetContext(ctx, &last, `SELECT last_reset FROM weekly_reset WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, apperr.Storage(err, "read weekly reset watermark")
	}
	return last, true, nil
}

// ResetWeekly zeroes every weekly counter and moves the watermark to
// boundary, unless the watermark already is at or past boundary. It reports
// whether the reset ran. The check and the reset share one transaction so
// two callers can never both fire for the same boundary.
func (s *Store) ResetWeekly(ctx context.Context, boundary time.Time) (bool, error) {
	boundary = dbTime(boundary)
	fired := false
	err := s.withTx(ctx, "weekly reset", func(tx *sqlx.Tx) error {
		var last time.Time
		err := tx.GetContext(ctx, &last, `SELECT last_reset FROM weekly_reset WHERE id = 1`)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		case !last.Before(boundary):
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE user_stats SET weekly_handled = 0, weekly_closed = 0`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO weekly_reset (id, last_reset) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET last_reset = excluded.last_reset`, boundary); err != nil {
			return err
		}
		fired = true
		return nil
	})
	return fired, err
}

// SeedWeeklyReset records boundary as the last reset if no reset was ever
// recorded. It reports whether the watermark was written.
func (s *Store) SeedWeeklyReset(ctx context.Context, boundary time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO weekly_reset (id, last_reset) VALUES (1, ?)`, dbTime(boundary))
	if err != nil {
		return false, apperr.Storage(err, "seed weekly reset watermark")
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
