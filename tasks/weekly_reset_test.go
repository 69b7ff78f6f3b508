package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/utils/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestBoundary(t *testing.T) {
	loc := eastern(t)
	cfg := model.WeeklyResetConfig{Weekday: time.Sunday, Hour: 4, Location: loc}
	sunday := time.Date(2026, 5, 3, 4, 0, 0, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"exactly at reset", sunday, sunday},
		{"later on reset day", sunday.Add(5 * time.Hour), sunday},
		{"mid week", time.Date(2026, 5, 6, 13, 0, 0, 0, loc), sunday},
		{"saturday night", time.Date(2026, 5, 9, 23, 59, 0, 0, loc), sunday},
		{"sunday before reset hour", time.Date(2026, 5, 3, 3, 59, 0, 0, loc), sunday.AddDate(0, 0, -7)},
		{"utc input", time.Date(2026, 5, 3, 8, 30, 0, 0, time.UTC), sunday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boundary(tt.now, cfg)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(_ context.Context, ev model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(kind model.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type resetFixture struct {
	store  *database.Store
	events *recorder
	reset  *WeeklyReset
	cfg    model.WeeklyResetConfig
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	ctx := context.Background()
	store, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := model.WeeklyResetConfig{Weekday: time.Sunday, Hour: 4, Location: eastern(t)}
	f := &resetFixture{store: store, events: &recorder{}, cfg: cfg}
	f.reset = NewWeeklyReset(store, leaderboard.New(store), f.events, cfg, true)

	require.NoError(t, store.SetLeaderboardChannel(ctx, "g1", "lb1"))
	require.NoError(t, store.SetLeaderboardChannel(ctx, "g2", "lb2"))
	require.NoError(t, store.SetLeaderboardRole(ctx, "u", model.RoleStaff, time.Now()))
	for field, v := range map[model.StatField]int64{
		model.StatAllTimeHandled: 10,
		model.StatAllTimeClosed:  5,
		model.StatWeeklyHandled:  3,
		model.StatWeeklyClosed:   2,
	} {
		_, err := store.UpsertStat(ctx, "u", field, v)
		require.NoError(t, err)
	}
	return f
}

func TestCheckSeedsWatermarkOnFirstRun(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	now := time.Date(2026, 5, 6, 12, 0, 0, 0, f.cfg.Location)

	fired, err := f.reset.Check(ctx, now)
	require.NoError(t, err)
	assert.False(t, fired)

	st, err := f.store.GetUserStats(ctx, "u")
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.WeeklyHandled, "seeding keeps the running week")

	last, ok, err := f.store.LastWeeklyReset(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(Boundary(now, f.cfg)))
}

func TestCheckFiresOncePerWeek(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	loc := f.cfg.Location

	_, err := f.store.SeedWeeklyReset(ctx, time.Date(2026, 4, 26, 4, 0, 0, 0, loc))
	require.NoError(t, err)

	// Hourly checks across the qualifying window and the rest of the day.
	start := time.Date(2026, 5, 3, 2, 0, 0, 0, loc)
	fires := 0
	for h := 0; h < 24; h++ {
		fired, err := f.reset.Check(ctx, start.Add(time.Duration(h)*time.Hour))
		require.NoError(t, err)
		if fired {
			fires++
		}
	}
	// A restart re-running the same check must not fire again.
	fired, err := f.reset.Check(ctx, time.Date(2026, 5, 3, 4, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.False(t, fired)

	assert.Equal(t, 1, fires)
	assert.Equal(t, 1, f.events.count(model.EventWeeklyResetFired))
	assert.Equal(t, 2, f.events.count(model.EventLeaderboardReady), "one announcement per leaderboard channel")

	st, err := f.store.GetUserStats(ctx, "u")
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.WeeklyHandled)
	assert.EqualValues(t, 0, st.WeeklyClosed)
	assert.EqualValues(t, 10, st.AllTimeHandled)
	assert.EqualValues(t, 5, st.AllTimeClosed)
}

func TestCheckAnnouncesFinishedWeek(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	loc := f.cfg.Location
	_, err := f.store.SeedWeeklyReset(ctx, time.Date(2026, 4, 26, 4, 0, 0, 0, loc))
	require.NoError(t, err)

	fired, err := f.reset.Check(ctx, time.Date(2026, 5, 3, 4, 0, 0, 0, loc))
	require.NoError(t, err)
	require.True(t, fired)

	var ready *model.Event
	for i := range f.events.events {
		if f.events.events[i].Kind == model.EventLeaderboardReady {
			ready = &f.events.events[i]
			break
		}
	}
	require.NotNil(t, ready)
	require.Len(t, ready.Boards, 2)

	allTime, weekly := ready.Boards[0], ready.Boards[1]
	assert.Equal(t, model.TimeframeAllTime, allTime.Timeframe)
	require.Len(t, weekly.Groups, 1)
	assert.EqualValues(t, 5, weekly.Groups[0].Entries[0].Weekly, "weekly board is taken before zeroing")
	assert.EqualValues(t, 15, allTime.Groups[0].Entries[0].AllTime)
}

func TestCheckCatchesUpAfterDowntime(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	loc := f.cfg.Location
	_, err := f.store.SeedWeeklyReset(ctx, time.Date(2026, 4, 12, 4, 0, 0, 0, loc))
	require.NoError(t, err)

	// The bot was down for three weeks; the first check on a Tuesday fires once.
	now := time.Date(2026, 5, 5, 10, 0, 0, 0, loc)
	fired, err := f.reset.Check(ctx, now)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = f.reset.Check(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestCheckWithoutPublishing(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	f.reset = NewWeeklyReset(f.store, leaderboard.New(f.store), f.events, f.cfg, false)
	_, err := f.store.SeedWeeklyReset(ctx, time.Date(2026, 4, 26, 4, 0, 0, 0, f.cfg.Location))
	require.NoError(t, err)

	fired, err := f.reset.Check(ctx, time.Date(2026, 5, 3, 5, 0, 0, 0, f.cfg.Location))
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, 1, f.events.count(model.EventWeeklyResetFired))
	assert.Zero(t, f.events.count(model.EventLeaderboardReady))
}
