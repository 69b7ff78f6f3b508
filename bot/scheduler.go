package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/logger"

	"github.com/go-co-op/gocron/v2"
)

const (
	resetCheckInterval   = time.Hour
	anomalyCheckInterval = time.Hour
	jobTimeout           = 5 * time.Minute
)

// Scheduler runs the bot's periodic jobs.
type Scheduler struct {
	bot       *Bot
	scheduler gocron.Scheduler
	log       *slog.Logger

	started   bool
	startedMu sync.Mutex
}

// NewScheduler registers the weekly reset check and the pending ticket
// check. Both start immediately so a reset missed while the bot was down
// is caught up on startup.
func NewScheduler(b *Bot) (*Scheduler, error) {
	loc := b.GetConfig().WeeklyReset.Location
	if loc == nil {
		loc = time.UTC
	}
	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}
	s := &Scheduler{bot: b, scheduler: sched, log: logger.For("scheduler")}

	_, err = sched.NewJob(
		gocron.DurationJob(resetCheckInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			s.checkWeeklyReset(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("weekly-reset"),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(anomalyCheckInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			s.checkPendingTickets(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("pending-tickets"),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()
	if s.started {
		return
	}
	s.scheduler.Start()
	s.started = true
	s.log.Info("scheduler started", "job_count", len(s.scheduler.Jobs()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	if err := s.scheduler.Shutdown(); err != nil {
		return err
	}
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) checkWeeklyReset(ctx context.Context) {
	fired, err := s.bot.Reset.Check(ctx, time.Now())
	if err != nil {
		_ = utils.LogError(s.bot.Session, s.bot.GetConfig().LogChannelID, "Leaderboard", "Weekly reset", err.Error())
		return
	}
	if fired {
		s.log.Info("weekly reset fired")
	}
}

func (s *Scheduler) checkPendingTickets(ctx context.Context) {
	cfg := s.bot.GetConfig()
	stale, err := s.bot.Tickets.PendingAnomalies(ctx, cfg.PendingTimeout)
	if err != nil {
		s.log.Error("failed to list pending tickets", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}
	_ = utils.LogWarn(s.bot.Session, cfg.LogChannelID, "Tickets", "Pending tickets", describePending(stale))
}

func describePending(stale []model.Ticket) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d ticket(s) never got a thread:", len(stale))
	for _, t := range stale {
		fmt.Fprintf(&sb, "\n#%d opened by %s at %s", t.Number, utils.Mention(t.OpenerID), t.CreatedAt.UTC().Format(time.DateTime))
	}
	return sb.String()
}
