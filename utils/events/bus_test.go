package events

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ticket-bot/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversByKind(t *testing.T) {
	bus := NewBus()
	var closed, all []model.EventKind

	bus.Subscribe(model.EventTicketClosed, func(_ context.Context, ev model.Event) {
		closed = append(closed, ev.Kind)
	})
	bus.SubscribeAll(func(_ context.Context, ev model.Event) {
		all = append(all, ev.Kind)
	})

	ctx := context.Background()
	bus.Publish(ctx, model.Event{Kind: model.EventTicketCreated})
	bus.Publish(ctx, model.Event{Kind: model.EventTicketClosed})

	assert.Equal(t, []model.EventKind{model.EventTicketClosed}, closed)
	assert.Equal(t, []model.EventKind{model.EventTicketCreated, model.EventTicketClosed}, all)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus()
	called := false
	bus.Subscribe(model.EventTicketClaimed, func(context.Context, model.Event) { panic("boom") })
	bus.Subscribe(model.EventTicketClaimed, func(context.Context, model.Event) { called = true })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), model.Event{Kind: model.EventTicketClaimed})
	})
	assert.True(t, called)
}

type failingMirror struct{ calls int }

func (f *failingMirror) Mirror(context.Context, model.Event) error {
	f.calls++
	return errors.New("unreachable")
}

func TestBusMirrorFailureIsNotFatal(t *testing.T) {
	bus := NewBus()
	m := &failingMirror{}
	bus.SetMirror(m)

	bus.Publish(context.Background(), model.Event{Kind: model.EventWeeklyResetFired})
	assert.Equal(t, 1, m.calls)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisMirrorAppendsToStream(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	bus := NewBus()
	bus.SetMirror(NewRedisMirror(client, "test.events"))

	at := time.Date(2026, 5, 3, 8, 0, 0, 0, time.UTC)
	bus.Publish(ctx, model.Event{
		Kind:    model.EventTicketClosed,
		At:      at,
		GuildID: "g1",
		ActorID: "staff",
		Ticket: &model.Ticket{
			Number:      7,
			Category:    model.CategoryPilot,
			Status:      model.TicketClosed,
			OpenerID:    "opener",
			CloseReason: sql.NullString{String: "resolved", Valid: true},
		},
		Transcript: []model.TranscriptLine{{Author: "a", Content: "hi"}},
		Duration:   90 * time.Second,
	})

	msgs, err := client.XRange(ctx, "test.events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	v := msgs[0].Values
	assert.Equal(t, "ticket-closed", v["kind"])
	assert.Equal(t, "7", v["ticket_number"])
	assert.Equal(t, "resolved", v["close_reason"])
	assert.Equal(t, "90", v["duration_seconds"])
	assert.Equal(t, "1", v["transcript_lines"])
	assert.Equal(t, "2026-05-03T08:00:00Z", v["at"])
	assert.NotContains(t, v, "handler_id")
}

func TestConnectFailsFast(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr, _ := setupTestRedis(t)
	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	assert.NoError(t, rdb.Close())
}
