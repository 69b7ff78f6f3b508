package ticket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	user  = model.Actor{ID: "user"}
	staff = model.Actor{ID: "staff", Caps: model.CapStaff}
	admin = model.Actor{ID: "admin", Caps: model.CapStaff | model.CapManage}
)

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(_ context.Context, ev model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []model.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.EventKind
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fakeMessages struct {
	lines []model.TranscriptLine
	err   error
}

func (f fakeMessages) ThreadMessages(context.Context, string) ([]model.TranscriptLine, error) {
	return f.lines, f.err
}

type fixture struct {
	store  *database.Store
	mgr    *Manager
	events *recorder
	now    time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{store: store, events: &recorder{}, now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithPublisher(f.events), WithClock(func() time.Time { return f.now })}, opts...)
	f.mgr = NewManager(store, opts...)
	return f
}

// open creates a ticket and binds it to channel.
func (f *fixture) open(t *testing.T, channel string) *model.Ticket {
	t.Helper()
	ctx := context.Background()
	tk, err := f.mgr.Create(ctx, "guild", model.CategoryMiddleman, "opener")
	require.NoError(t, err)
	tk, err = f.mgr.AttachChannel(ctx, tk.Number, channel)
	require.NoError(t, err)
	return tk
}

func (f *fixture) stats(t *testing.T, userID string) *model.UserStats {
	t.Helper()
	st, err := f.mgr.Stats(context.Background(), userID)
	require.NoError(t, err)
	return st
}

func TestCreateRespectsGuildLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.SetTicketLimit(ctx, "guild", 1))

	first, err := f.mgr.Create(ctx, "guild", model.CategoryPilot, "a")
	require.NoError(t, err)

	_, err = f.mgr.Create(ctx, "guild", model.CategoryPilot, "b")
	assert.True(t, errors.Is(err, apperr.ErrCapacityExceeded))

	n, err := f.store.CountOpenTickets(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, f.mgr.Abandon(ctx, first.Number, errors.New("missing permissions")))
	_, err = f.mgr.Create(ctx, "guild", model.CategoryPilot, "b")
	assert.NoError(t, err, "closing a ticket frees capacity")
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Create(context.Background(), "guild", model.Category("lottery"), "a")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestClaimUnclaimRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")

	_, err := f.mgr.Claim(ctx, "c1", user, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.stats(t, "user").AllTimeHandled)
	assert.EqualValues(t, 1, f.stats(t, "user").WeeklyHandled)

	res, err := f.mgr.Unclaim(ctx, "c1", user, false)
	require.NoError(t, err)
	assert.Equal(t, "user", res.PreviousHandlerID)
	assert.False(t, res.Ticket.IsClaimed())

	st := f.stats(t, "user")
	assert.EqualValues(t, 0, st.AllTimeHandled)
	assert.EqualValues(t, 0, st.WeeklyHandled)
}

func TestClaimTwiceBySameActorIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")

	_, err := f.mgr.Claim(ctx, "c1", staff, false)
	require.NoError(t, err)

	for _, force := range []bool{false, true} {
		_, err = f.mgr.Claim(ctx, "c1", staff, force)
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	}
	assert.EqualValues(t, 1, f.stats(t, "staff").AllTimeHandled)
}

func TestClaimAlreadyClaimed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")
	_, err := f.mgr.Claim(ctx, "c1", user, false)
	require.NoError(t, err)

	_, err = f.mgr.Claim(ctx, "c1", staff, false)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = f.mgr.Claim(ctx, "c1", model.Actor{ID: "other"}, true)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized), "force claim needs staff")

	res, err := f.mgr.Claim(ctx, "c1", staff, true)
	require.NoError(t, err)
	assert.Equal(t, "user", res.PreviousHandlerID)
	assert.Equal(t, "staff", res.Ticket.HandlerID.String)

	assert.EqualValues(t, 0, f.stats(t, "user").AllTimeHandled)
	assert.EqualValues(t, 1, f.stats(t, "staff").AllTimeHandled)
}

func TestForceUnclaimByStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c5")

	_, err := f.mgr.Claim(ctx, "c5", user, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.stats(t, "user").AllTimeHandled)

	_, err = f.mgr.Unclaim(ctx, "c5", staff, false)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized), "only the handler may unclaim without force")

	_, err = f.mgr.Unclaim(ctx, "c5", model.Actor{ID: "rando"}, true)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	res, err := f.mgr.Unclaim(ctx, "c5", staff, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.stats(t, "user").AllTimeHandled)
	assert.False(t, res.Ticket.IsClaimed())
	assert.False(t, res.Ticket.IsClosed())

	_, err = f.mgr.Unclaim(ctx, "c5", staff, true)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestCloseRecordsCloserAndReason(t *testing.T) {
	ctx := context.Background()
	lines := []model.TranscriptLine{
		{Timestamp: time.Date(2026, 5, 1, 12, 1, 0, 0, time.UTC), Author: "opener", Content: "hi"},
		{Timestamp: time.Date(2026, 5, 1, 12, 2, 0, 0, time.UTC), Author: "staff", Content: "hello"},
	}
	f := newFixture(t, WithMessageSource(fakeMessages{lines: lines}))
	f.open(t, "c7")
	f.now = f.now.Add(45 * time.Minute)

	res, err := f.mgr.Close(ctx, "c7", staff, "resolved")
	require.NoError(t, err)

	tk := res.Ticket
	assert.Equal(t, model.TicketClosed, tk.Status)
	assert.Equal(t, "resolved", tk.CloseReason.String)
	assert.Equal(t, "staff", tk.CloserID.String)
	assert.True(t, tk.ClosedAt.Valid)
	assert.Equal(t, 45*time.Minute, res.Duration)
	assert.Equal(t, lines, res.Transcript)
	assert.EqualValues(t, 1, f.stats(t, "staff").AllTimeClosed)
	assert.EqualValues(t, 1, f.stats(t, "staff").WeeklyClosed)

	_, err = f.mgr.Close(ctx, "c7", staff, "again")
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	_, err = f.mgr.Claim(ctx, "c7", staff, false)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState), "no transition leaves closed")
	assert.EqualValues(t, 1, f.stats(t, "staff").AllTimeClosed)
}

func TestCloseRequiresStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")

	_, err := f.mgr.Close(ctx, "c1", user, "bye")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	tk, err := f.store.GetTicketByChannel(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, tk.IsClosed())
	assert.False(t, tk.CloserID.Valid)
	assert.False(t, tk.ClosedAt.Valid)
}

func TestCloseSurvivesTranscriptFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithMessageSource(fakeMessages{err: errors.New("discord down")}))
	f.open(t, "c1")

	res, err := f.mgr.Close(ctx, "c1", staff, "")
	require.NoError(t, err)
	assert.Empty(t, res.Transcript)
	assert.Equal(t, defaultCloseReason, res.Ticket.CloseReason.String)
	assert.True(t, res.Ticket.IsClosed())
}

func TestEventsFollowTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")

	_, err := f.mgr.Claim(ctx, "c1", staff, false)
	require.NoError(t, err)
	_, err = f.mgr.Unclaim(ctx, "c1", staff, false)
	require.NoError(t, err)
	_, err = f.mgr.Close(ctx, "c1", staff, "done")
	require.NoError(t, err)

	assert.Equal(t, []model.EventKind{
		model.EventTicketCreated,
		model.EventTicketClaimed,
		model.EventTicketUnclaimed,
		model.EventTicketClosed,
	}, f.events.kinds())
}

func TestUnknownChannel(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Claim(context.Background(), "nope", staff, false)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestConcurrentForceClaimsKeepLedgerConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "c1")
	_, err := f.mgr.Claim(ctx, "c1", user, false)
	require.NoError(t, err)

	actors := []model.Actor{
		{ID: "s1", Caps: model.CapStaff},
		{ID: "s2", Caps: model.CapStaff},
		{ID: "s3", Caps: model.CapStaff},
		{ID: "s4", Caps: model.CapStaff},
	}
	var wg sync.WaitGroup
	for _, a := range actors {
		wg.Add(1)
		go func(a model.Actor) {
			defer wg.Done()
			_, _ = f.mgr.Claim(ctx, "c1", a, true)
		}(a)
	}
	wg.Wait()

	tk, err := f.store.GetTicketByChannel(ctx, "c1")
	require.NoError(t, err)

	var total int64
	for _, id := range []string{"user", "s1", "s2", "s3", "s4"} {
		st := f.stats(t, id)
		total += st.AllTimeHandled
		if id == tk.HandlerID.String {
			assert.EqualValues(t, 1, st.AllTimeHandled)
		} else {
			assert.EqualValues(t, 0, st.AllTimeHandled)
		}
	}
	assert.EqualValues(t, 1, total, "exactly one handler is credited")
	assert.Zero(t, f.mgr.locks.size())
}

func TestModifyStatAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.mgr.ModifyStat(ctx, staff, "u", model.StatAllTimeClosed, 3)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	st, err := f.mgr.ModifyStat(ctx, admin, "u", model.StatAllTimeClosed, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.AllTimeClosed)

	st, err = f.mgr.ModifyStat(ctx, admin, "u", model.StatAllTimeClosed, -10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.AllTimeClosed, "counters never go negative")

	assert.True(t, errors.Is(f.mgr.UpdateProfile(ctx, user, "hi"), apperr.ErrUnauthorized))
	assert.True(t, errors.Is(f.mgr.UpdateProfile(ctx, staff, "  "), apperr.ErrValidation))
	require.NoError(t, f.mgr.UpdateProfile(ctx, staff, "here to help"))
	assert.Equal(t, "here to help", f.stats(t, "staff").ProfileMessage.String)
}

func TestPendingAnomalies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stuck, err := f.mgr.Create(ctx, "guild", model.CategoryVerify, "a")
	require.NoError(t, err)
	f.open(t, "c1")

	f.now = f.now.Add(20 * time.Minute)
	stale, err := f.mgr.PendingAnomalies(ctx, 10*time.Minute)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, stuck.Number, stale[0].Number)

	stale, err = f.mgr.PendingAnomalies(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestDescribe(t *testing.T) {
	tk := &model.Ticket{Number: 9, Category: model.CategoryOther, Status: model.TicketOpen}
	assert.Equal(t, "#9 (other) unclaimed", Describe(tk))

	tk.HandlerID.String, tk.HandlerID.Valid = "h", true
	assert.Equal(t, "#9 (other) claimed by <@h>", Describe(tk))

	tk.Status = model.TicketClosed
	tk.CloserID.String, tk.CloserID.Valid = "c", true
	assert.Equal(t, "#9 (other) closed by <@c>", Describe(tk))
}
