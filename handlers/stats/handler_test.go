package stats

import (
	"database/sql"
	"testing"
	"time"

	"ticket-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValues(t *testing.T, st *model.UserStats, role model.LeaderboardRole) map[string]string {
	t.Helper()
	embed := StatsEmbed("alice", st, role)
	require.Equal(t, "Ticket stats · alice", embed.Title)
	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	return values
}

func TestStatsEmbedCounters(t *testing.T) {
	st := &model.UserStats{UserID: "u1", AllTimeHandled: 10, AllTimeClosed: 4, WeeklyHandled: 2, WeeklyClosed: 1}
	values := fieldValues(t, st, "")

	assert.Equal(t, "10", values["Handled"])
	assert.Equal(t, "4", values["Closed"])
	assert.Equal(t, "14", values["Total"])
	assert.Equal(t, "3", values["Total (7d)"])
	_, hasRole := values["Role"]
	assert.False(t, hasRole)
}

func TestStatsEmbedRoleAndProfile(t *testing.T) {
	since := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	st := &model.UserStats{
		UserID:             "u1",
		ProfileMessage:     sql.NullString{String: "here to help", Valid: true},
		RoleAssignmentDate: sql.NullTime{Time: since, Valid: true},
	}
	values := fieldValues(t, st, model.RoleAdmin)
	assert.Equal(t, "admin since <t:1736035200:D>", values["Role"])
	assert.Equal(t, "here to help", StatsEmbed("alice", st, model.RoleAdmin).Description)
}
