package tasks

import (
	"context"
	"log/slog"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils/logger"

	"golang.org/x/sync/errgroup"
)

// ResetStore is the part of the ledger the weekly reset needs.
type ResetStore interface {
	LastWeeklyReset(ctx context.Context) (time.Time, bool, error)
	SeedWeeklyReset(ctx context.Context, boundary time.Time) (bool, error)
	ResetWeekly(ctx context.Context, boundary time.Time) (bool, error)
	ListLeaderboardChannels(ctx context.Context) ([]model.GuildConfig, error)
}

type BoardBuilder interface {
	Build(ctx context.Context, tf model.Timeframe, axis model.Axis) (*model.Board, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev model.Event)
}

// DefaultResetConfig is Sunday 04:00 US Eastern.
func DefaultResetConfig() model.WeeklyResetConfig {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return model.WeeklyResetConfig{Weekday: time.Sunday, Hour: 4, Location: loc}
}

// Boundary returns the latest reset instant at or before now.
func Boundary(now time.Time, cfg model.WeeklyResetConfig) time.Time {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	back := (int(local.Weekday()) - int(cfg.Weekday) + 7) % 7
	day := local.AddDate(0, 0, -back)
	b := time.Date(day.Year(), day.Month(), day.Day(), cfg.Hour, 0, 0, 0, loc)
	if b.After(local) {
		b = b.AddDate(0, 0, -7)
	}
	return b
}

const publishWorkers = 5

// WeeklyReset zeroes weekly counters once per week and announces the
// leaderboards of the finished week. It is driven by a coarse periodic
// check; the persisted watermark makes repeated checks harmless.
type WeeklyReset struct {
	store   ResetStore
	boards  BoardBuilder
	events  Publisher
	cfg     model.WeeklyResetConfig
	publish bool
	log     *slog.Logger
}

func NewWeeklyReset(store ResetStore, boards BoardBuilder, events Publisher, cfg model.WeeklyResetConfig, publish bool) *WeeklyReset {
	return &WeeklyReset{
		store:   store,
		boards:  boards,
		events:  events,
		cfg:     cfg,
		publish: publish,
		log:     logger.For("weekly-reset"),
	}
}

// Check fires the reset if the watermark is older than the latest boundary.
// On a database that never recorded a reset the watermark is only seeded,
// so the counters of a running week are kept.
func (w *WeeklyReset) Check(ctx context.Context, now time.Time) (bool, error) {
	boundary := Boundary(now, w.cfg)

	last, ok, err := w.store.LastWeeklyReset(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		if _, err := w.store.SeedWeeklyReset(ctx, boundary); err != nil {
			return false, err
		}
		w.log.Info("weekly reset watermark initialized", "boundary", boundary)
		return false, nil
	}
	if !last.Before(boundary) {
		return false, nil
	}

	var (
		channels []model.GuildConfig
		boards   []*model.Board
	)
	if w.publish {
		if channels, err = w.store.ListLeaderboardChannels(ctx); err != nil {
			return false, err
		}
		if len(channels) > 0 {
			// Snapshot before zeroing so the weekly board shows the week that ended.
			if boards, err = w.snapshot(ctx); err != nil {
				return false, err
			}
		}
	}

	fired, err := w.store.ResetWeekly(ctx, boundary)
	if err != nil || !fired {
		return false, err
	}
	w.log.Info("weekly counters reset", "boundary", boundary, "previous", last)

	w.events.Publish(ctx, model.Event{Kind: model.EventWeeklyResetFired, At: now, Boundary: boundary})
	w.announce(ctx, now, boundary, channels, boards)
	return true, nil
}

func (w *WeeklyReset) snapshot(ctx context.Context) ([]*model.Board, error) {
	allTime, err := w.boards.Build(ctx, model.TimeframeAllTime, model.AxisCombined)
	if err != nil {
		return nil, err
	}
	weekly, err := w.boards.Build(ctx, model.TimeframeWeekly, model.AxisCombined)
	if err != nil {
		return nil, err
	}
	return []*model.Board{allTime, weekly}, nil
}

func (w *WeeklyReset) announce(ctx context.Context, now, boundary time.Time, channels []model.GuildConfig, boards []*model.Board) {
	if len(boards) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(publishWorkers)
	for _, cfg := range channels {
		g.Go(func() error {
			w.events.Publish(ctx, model.Event{
				Kind:      model.EventLeaderboardReady,
				At:        now,
				GuildID:   cfg.GuildID,
				ChannelID: cfg.LeaderboardChannelID.String,
				Boards:    boards,
				Boundary:  boundary,
			})
			return nil
		})
	}
	_ = g.Wait()
}
