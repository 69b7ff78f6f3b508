package model

import (
	"fmt"
	"strings"
)

// LeaderboardRole is the tier a user is grouped under on leaderboards.
// It is unrelated to Discord permission roles.
type LeaderboardRole string

const (
	RoleOwner      LeaderboardRole = "owner"
	RoleCoOwner    LeaderboardRole = "co-owner"
	RoleHeadAdmin  LeaderboardRole = "head admin"
	RoleAdmin      LeaderboardRole = "admin"
	RoleStaff      LeaderboardRole = "staff"
	RoleTrialStaff LeaderboardRole = "trial staff"
)

// RoleOrder is the display precedence of leaderboard groups, owner first.
var RoleOrder = []LeaderboardRole{
	RoleOwner,
	RoleCoOwner,
	RoleHeadAdmin,
	RoleAdmin,
	RoleStaff,
	RoleTrialStaff,
}

var roleAliases = map[string]LeaderboardRole{
	"coowner":     RoleCoOwner,
	"co owner":    RoleCoOwner,
	"headadmin":   RoleHeadAdmin,
	"head-admin":  RoleHeadAdmin,
	"trial":       RoleTrialStaff,
	"trialstaff":  RoleTrialStaff,
	"trial-staff": RoleTrialStaff,
}

// ParseLeaderboardRole validates a role name, accepting a few spellings.
func ParseLeaderboardRole(raw string) (LeaderboardRole, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range RoleOrder {
		if LeaderboardRole(name) == r {
			return r, nil
		}
	}
	if r, ok := roleAliases[name]; ok {
		return r, nil
	}
	names := make([]string, len(RoleOrder))
	for i, r := range RoleOrder {
		names[i] = string(r)
	}
	return "", fmt.Errorf("invalid role %q (valid roles: %s)", raw, strings.Join(names, ", "))
}

// Rank returns the precedence index of r, or len(RoleOrder) when unknown.
func (r LeaderboardRole) Rank() int {
	for i, known := range RoleOrder {
		if r == known {
			return i
		}
	}
	return len(RoleOrder)
}

// LeaderboardRow is one user_stats row returned by a leaderboard query.
type LeaderboardRow struct {
	UserID         string `db:"user_id"`
	AllTimeHandled int64  `db:"all_time_handled"`
	AllTimeClosed  int64  `db:"all_time_closed"`
	WeeklyHandled  int64  `db:"weekly_handled"`
	WeeklyClosed   int64  `db:"weekly_closed"`
}

// Stats converts the row into the counters it was read from.
func (r LeaderboardRow) Stats() UserStats {
	return UserStats{
		UserID:         r.UserID,
		AllTimeHandled: r.AllTimeHandled,
		AllTimeClosed:  r.AllTimeClosed,
		WeeklyHandled:  r.WeeklyHandled,
		WeeklyClosed:   r.WeeklyClosed,
	}
}

// RoleMembership is a row of the leaderboard_roles table.
type RoleMembership struct {
	UserID   string          `db:"user_id"`
	RoleName LeaderboardRole `db:"role_name"`
}

// BoardEntry is one ranked user. AllTime and Weekly are the user's values
// on the board's axis.
type BoardEntry struct {
	UserID  string
	AllTime int64
	Weekly  int64
}

// BoardGroup holds the ranked users sharing a leaderboard role.
type BoardGroup struct {
	Role    LeaderboardRole
	Entries []BoardEntry
}

// Board is a leaderboard ready for display: groups in role precedence,
// empty roles omitted.
type Board struct {
	Timeframe Timeframe
	Axis      Axis
	Groups    []BoardGroup
}

// Empty reports whether no user qualified for the board.
func (b *Board) Empty() bool {
	return len(b.Groups) == 0
}
