package bot

import (
	"context"
	"log/slog"
	"sync/atomic"

	"ticket-bot/config"
	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/tasks"
	"ticket-bot/ticket"
	"ticket-bot/utils"
	"ticket-bot/utils/database"
	"ticket-bot/utils/events"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Store    *database.Store
	Tickets  *ticket.Manager
	Boards   *leaderboard.Aggregator
	Reset    *tasks.WeeklyReset
	Events   *events.Bus
	Confirms *ticket.Confirmations

	// ConfigFile is re-read by ReloadConfig.
	ConfigFile string

	redis     *redis.Client
	scheduler *Scheduler
	log       *slog.Logger
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetStore() *database.Store {
	return b.Store
}

func (b *Bot) GetTickets() *ticket.Manager {
	return b.Tickets
}

func (b *Bot) GetBoards() *leaderboard.Aggregator {
	return b.Boards
}

func (b *Bot) GetConfirmations() *ticket.Confirmations {
	return b.Confirms
}

// Actor resolves the invoking member's capabilities against the guild's
// stored configuration.
func (b *Bot) Actor(ctx context.Context, i *discordgo.InteractionCreate) (model.Actor, error) {
	var guildCfg *model.GuildConfig
	if i.GuildID != "" {
		cfg, err := b.Store.GetGuildConfig(ctx, i.GuildID)
		if err != nil {
			return model.Actor{}, err
		}
		guildCfg = cfg
	}
	return utils.ActorFromInteraction(i, guildCfg, b.GetConfig().DeveloperUserIDs), nil
}

func New(cfg *model.Config, store *database.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	dg.StateEnabled = false

	bus := events.NewBus()
	boards := leaderboard.New(store)
	b := &Bot{
		Session:  dg,
		Store:    store,
		Boards:   boards,
		Events:   bus,
		Confirms: ticket.NewConfirmations(),
		log:      logger.For("bot"),
	}
	b.config.Store(cfg)

	b.Tickets = ticket.NewManager(store,
		ticket.WithMessageSource(&threadHistory{session: dg}),
		ticket.WithPublisher(bus),
	)
	b.Reset = tasks.NewWeeklyReset(store, boards, bus, cfg.WeeklyReset, cfg.PublishOnReset)

	if cfg.RedisAddr != "" {
		rdb, err := events.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The stream is an optional side channel; the bot runs without it.
			b.log.Warn("redis unavailable, events are not mirrored", "addr", cfg.RedisAddr, "error", err)
		} else {
			b.redis = rdb
			bus.SetMirror(events.NewRedisMirror(rdb, cfg.RedisStream))
			b.log.Info("mirroring events to redis", "addr", cfg.RedisAddr, "stream", cfg.RedisStream)
		}
	}

	b.subscribe()

	b.scheduler, err = NewScheduler(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bot) Close() {
	b.log.Info("gracefully shutting down")
	if b.scheduler != nil {
		if err := b.scheduler.Stop(); err != nil {
			b.log.Warn("scheduler stopped with error", "error", err)
		}
	}
	if err := b.Session.Close(); err != nil {
		b.log.Warn("failed to close discord session", "error", err)
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// RegisterCommands replaces the bot's global slash commands with cmds.
func (b *Bot) RegisterCommands(cmds []*discordgo.ApplicationCommand) error {
	appID := b.GetConfig().AppID
	if appID == "" {
		me, err := b.Session.User("@me")
		if err != nil {
			return err
		}
		appID = me.ID
	}
	registered, err := b.Session.ApplicationCommandBulkOverwrite(appID, "", cmds)
	if err != nil {
		return err
	}
	b.RegisteredCommands = registered
	b.log.Info("registered commands", "count", len(registered))
	return nil
}

// ReloadConfig re-reads the configuration. Log level, log channel,
// developers and ticket timeouts take effect immediately; the token, the
// database, redis and the reset schedule need a restart.
func (b *Bot) ReloadConfig() error {
	b.log.Info("reloading configuration")
	newCfg, err := config.Load(b.ConfigFile)
	if err != nil {
		b.log.Error("error reloading config", "error", err)
		return err
	}
	logger.SetLevel(logger.ParseLevel(newCfg.LogLevel))
	b.config.Store(newCfg)
	b.log.Info("configuration reloaded")
	return nil
}
