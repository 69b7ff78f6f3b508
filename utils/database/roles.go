package database

import (
	"context"
	"fmt"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"

	"github.com/jmoiron/sqlx"
)

// SetLeaderboardRole gives userID role, replacing any role it had. The
// user's role_assignment_date is set the first time it gains a role.
func (s *Store) SetLeaderboardRole(ctx context.Context, userID string, role model.LeaderboardRole, at time.Time) error {
	return s.withTx(ctx, "set leaderboard role", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_roles WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear roles of %s: %w", userID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO leaderboard_roles (user_id, role_name) VALUES (?, ?)`, userID, role); err != nil {
			return fmt.Errorf("failed to add role %s to %s: %w", role, userID, err)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO user_stats (user_id, role_assignment_date) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET role_assignment_date = COALESCE(role_assignment_date, excluded.role_assignment_date)`,
			userID, dbTime(at))
		return err
	})
}

func (s *Store) ClearLeaderboardRole(ctx context.Context, userID string, role model.LeaderboardRole) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leaderboard_roles WHERE user_id = ? AND role_name = ?`, userID, role)
	if err != nil {
		return apperr.Storage(err, "clear leaderboard role")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("<@%s> does not have the %s leaderboard role.", userID, role)
	}
	return nil
}

// GetLeaderboardRole returns the user's role. Legacy rows may hold several;
// the highest in precedence wins.
func (s *Store) GetLeaderboardRole(ctx context.Context, userID string) (model.LeaderboardRole, error) {
	var names []model.LeaderboardRole
	if err := s.db.SelectContext(ctx, &names, `SELECT role_name FROM leaderboard_roles WHERE user_id = ?`, userID); err != nil {
		return "", apperr.Storage(err, "get leaderboard role")
	}
	if len(names) == 0 {
		return "", apperr.NotFound("<@%s> has no leaderboard role.", userID)
	}
	return highest(names), nil
}

// LeaderboardRoles returns every user's role in one query.
func (s *Store) LeaderboardRoles(ctx context.Context) (map[string]model.LeaderboardRole, error) {
	var rows []model.RoleMembership
	if err := s.db.SelectContext(ctx, &rows, `SELECT user_id, role_name FROM leaderboard_roles`); err != nil {
		return nil, apperr.Storage(err, "list leaderboard roles")
	}
	roles := make(map[string]model.LeaderboardRole, len(rows))
	for _, r := range rows {
		if cur, ok := roles[r.UserID]; !ok || r.RoleName.Rank() < cur.Rank() {
			roles[r.UserID] = r.RoleName
		}
	}
	return roles, nil
}

func highest(names []model.LeaderboardRole) model.LeaderboardRole {
	best := names[0]
	for _, n := range names[1:] {
		if n.Rank() < best.Rank() {
			best = n
		}
	}
	return best
}
