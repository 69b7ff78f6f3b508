package model

import (
	"database/sql"
	"fmt"
	"strings"
)

// UserStats represents a row of the user_stats table.
type UserStats struct {
	UserID             string         `db:"user_id"`
	AllTimeHandled     int64          `db:"all_time_handled"`
	AllTimeClosed      int64          `db:"all_time_closed"`
	WeeklyHandled      int64          `db:"weekly_handled"`
	WeeklyClosed       int64          `db:"weekly_closed"`
	ProfileMessage     sql.NullString `db:"profile_message"`
	RoleAssignmentDate sql.NullTime   `db:"role_assignment_date"`
}

// AllTimeTotal is handled plus closed over the lifetime of the user.
func (s UserStats) AllTimeTotal() int64 {
	return s.AllTimeHandled + s.AllTimeClosed
}

// WeeklyTotal is handled plus closed since the last weekly reset.
func (s UserStats) WeeklyTotal() int64 {
	return s.WeeklyHandled + s.WeeklyClosed
}

// StatField names a counter column of user_stats.
type StatField string

const (
	StatAllTimeHandled StatField = "all_time_handled"
	StatAllTimeClosed  StatField = "all_time_closed"
	StatWeeklyHandled  StatField = "weekly_handled"
	StatWeeklyClosed   StatField = "weekly_closed"
)

// statAliases maps the short names used by the /modify command.
var statAliases = map[string]StatField{
	"handled":          StatAllTimeHandled,
	"closed":           StatAllTimeClosed,
	"whandled":         StatWeeklyHandled,
	"wclosed":          StatWeeklyClosed,
	"all_time_handled": StatAllTimeHandled,
	"all_time_closed":  StatAllTimeClosed,
	"weekly_handled":   StatWeeklyHandled,
	"weekly_closed":    StatWeeklyClosed,
}

// ParseStatField accepts either a short alias or a column name.
func ParseStatField(raw string) (StatField, error) {
	if f, ok := statAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown stat %q (valid: handled, closed, whandled, wclosed)", raw)
}

// Valid reports whether f is one of the four counter columns.
// Callers interpolate the field into SQL, so this must be checked first.
func (f StatField) Valid() bool {
	switch f {
	case StatAllTimeHandled, StatAllTimeClosed, StatWeeklyHandled, StatWeeklyClosed:
		return true
	}
	return false
}

// Timeframe selects all-time or weekly counters.
type Timeframe string

const (
	TimeframeAllTime Timeframe = "all_time"
	TimeframeWeekly  Timeframe = "weekly"
)

// Axis selects which counter a leaderboard ranks by.
type Axis string

const (
	AxisHandled  Axis = "handled"
	AxisClosed   Axis = "closed"
	AxisCombined Axis = "combined"
)

// ParseTimeframe validates a timeframe option.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch Timeframe(strings.ToLower(raw)) {
	case TimeframeAllTime, "all", "alltime":
		return TimeframeAllTime, nil
	case TimeframeWeekly, "week", "w":
		return TimeframeWeekly, nil
	}
	return "", fmt.Errorf("unknown timeframe %q", raw)
}

// ParseAxis validates an axis option.
func ParseAxis(raw string) (Axis, error) {
	switch a := Axis(strings.ToLower(raw)); a {
	case AxisHandled, AxisClosed, AxisCombined:
		return a, nil
	}
	return "", fmt.Errorf("unknown leaderboard axis %q", raw)
}

// Value picks the counter selected by timeframe and axis.
func (s UserStats) Value(tf Timeframe, axis Axis) int64 {
	if tf == TimeframeWeekly {
		switch axis {
		case AxisHandled:
			return s.WeeklyHandled
		case AxisClosed:
			return s.WeeklyClosed
		default:
			return s.WeeklyTotal()
		}
	}
	switch axis {
	case AxisHandled:
		return s.AllTimeHandled
	case AxisClosed:
		return s.AllTimeClosed
	default:
		return s.AllTimeTotal()
	}
}
