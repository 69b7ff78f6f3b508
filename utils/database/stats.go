package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"

	"github.com/jmoiron/sqlx"
)

type statDelta struct {
	field model.StatField
	delta int64
}

func handledDelta(d int64) []statDelta {
	return []statDelta{{model.StatAllTimeHandled, d}, {model.StatWeeklyHandled, d}}
}

func closedDelta(d int64) []statDelta {
	return []statDelta{{model.StatAllTimeClosed, d}, {model.StatWeeklyClosed, d}}
}

// applyDeltas adds each delta to the user's row, creating it if needed.
// Counters never go below zero; a clamp is logged since it means the
// ledger and the tickets table disagree.
func (s *Store) applyDeltas(ctx context.Context, tx *sqlx.Tx, userID string, deltas []statDelta) error {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO user_stats (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("failed to create stats row for %s: %w", userID, err)
	}

	var cur model.UserStats
	if err := tx.GetContext(ctx, &cur, `SELECT * FROM user_stats WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to read stats for %s: %w", userID, err)
	}

	for _, d := range deltas {
		if !d.field.Valid() {
			return apperr.Validation("Unknown stat %q.", d.field)
		}
		before := counter(&cur, d.field)
		after := before + d.delta
		if after < 0 {
			s.log.Warn("stat counter clamped at zero",
				"user_id", userID, "field", d.field, "value", before, "delta", d.delta)
			after = 0
		}
		// field is validated above, so interpolating it is safe.
		query := fmt.Sprintf(`UPDATE user_stats SET %s = ? WHERE user_id = ?`, d.field)
		if _, err := tx.ExecContext(ctx, query, after, userID); err != nil {
			return fmt.Errorf("failed to update %s for %s: %w", d.field, userID, err)
		}
	}
	return nil
}

func counter(st *model.UserStats, f model.StatField) int64 {
	switch f {
	case model.StatAllTimeHandled:
		return st.AllTimeHandled
	case model.StatAllTimeClosed:
		return st.AllTimeClosed
	case model.StatWeeklyHandled:
		return st.WeeklyHandled
	default:
		return st.WeeklyClosed
	}
}

// UpsertStat adds delta to one counter of userID, inserting a zeroed row
// first if the user has none. The result is clamped at zero.
func (s *Store) UpsertStat(ctx context.Context, userID string, field model.StatField, delta int64) (*model.UserStats, error) {
	if !field.Valid() {
		return nil, apperr.Validation("Unknown stat %q.", field)
	}
	var out model.UserStats
	err := s.withTx(ctx, "upsert stat", func(tx *sqlx.Tx) error {
		if err := s.applyDeltas(ctx, tx, userID, []statDelta{{field, delta}}); err != nil {
			return err
		}
		return tx.GetContext(ctx, &out, `SELECT * FROM user_stats WHERE user_id = ?`, userID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	var st model.UserStats
	err := s.db.GetContext(ctx, &st, `SELECT * FROM user_stats WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("<@%s> has no recorded stats.", userID)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get user stats")
	}
	return &st, nil
}

// UpdateProfileMessage sets the free text shown on the user's stats card.
func (s *Store) UpdateProfileMessage(ctx context.Context, userID, message string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_stats (user_id, profile_message) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET profile_message = excluded.profile_message`, userID, message)
	return apperr.Storage(err, "update profile message")
}

// valueExpr is the SQL expression for a leaderboard axis.
func valueExpr(tf model.Timeframe, axis model.Axis) string {
	prefix := "all_time_"
	if tf == model.TimeframeWeekly {
		prefix = "weekly_"
	}
	switch axis {
	case model.AxisHandled:
		return prefix + "handled"
	case model.AxisClosed:
		return prefix + "closed"
	default:
		return "(" + prefix + "handled + " + prefix + "closed)"
	}
}

// QueryLeaderboard returns every user whose selected value is positive,
// highest first, ties ordered by user id.
func (s *Store) QueryLeaderboard(ctx context.Context, tf model.Timeframe, axis model.Axis) ([]model.LeaderboardRow, error) {
	expr := valueExpr(tf, axis)
	query := fmt.Sprintf(`SELECT user_id, all_time_handled, all_time_closed, weekly_handled, weekly_closed
		FROM user_stats WHERE %[1]s > 0 ORDER BY %[1]s DESC, user_id ASC`, expr)

	var rows []model.LeaderboardRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperr.Storage(err, "query leaderboard")
	}
	return rows, nil
}
