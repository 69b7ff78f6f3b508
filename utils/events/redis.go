package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ticket-bot/model"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream events are appended to when none is configured.
const DefaultStream = "ticketbot.events"

// RedisMirror appends every event to a Redis stream so other services can
// follow ticket activity. Transcripts are not copied; only their size is.
type RedisMirror struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisMirror(rdb *redis.Client, stream string) *RedisMirror {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisMirror{rdb: rdb, stream: stream, maxLen: 10000}
}

// Connect pings addr and returns a client for it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (m *RedisMirror) Mirror(ctx context.Context, ev model.Event) error {
	return m.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: m.stream,
		MaxLen: m.maxLen,
		Approx: true,
		Values: payload(ev),
	}).Err()
}

func payload(ev model.Event) map[string]interface{} {
	values := map[string]interface{}{
		"kind": string(ev.Kind),
		"at":   ev.At.UTC().Format(time.RFC3339),
	}
	if ev.GuildID != "" {
		values["guild_id"] = ev.GuildID
	}
	if ev.ActorID != "" {
		values["actor_id"] = ev.ActorID
	}
	if t := ev.Ticket; t != nil {
		values["ticket_number"] = strconv.FormatInt(t.Number, 10)
		values["category"] = string(t.Category)
		values["status"] = string(t.Status)
		values["opener_id"] = t.OpenerID
		if t.ChannelID.Valid {
			values["channel_id"] = t.ChannelID.String
		}
		if t.HandlerID.Valid {
			values["handler_id"] = t.HandlerID.String
		}
		if t.CloseReason.Valid {
			values["close_reason"] = t.CloseReason.String
		}
	}
	if ev.PreviousHandlerID != "" {
		values["previous_handler_id"] = ev.PreviousHandlerID
	}
	if ev.Kind == model.EventTicketClosed {
		values["duration_seconds"] = strconv.FormatInt(int64(ev.Duration.Seconds()), 10)
		values["transcript_lines"] = strconv.Itoa(len(ev.Transcript))
	}
	if ev.ChannelID != "" {
		values["channel_id"] = ev.ChannelID
	}
	if !ev.Boundary.IsZero() {
		values["boundary"] = ev.Boundary.UTC().Format(time.RFC3339)
	}
	return values
}
