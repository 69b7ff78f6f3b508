package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ticket-bot/bot"
	"ticket-bot/config"
	"ticket-bot/handlers"
	"ticket-bot/leaderboard"
	"ticket-bot/model"
	"ticket-bot/tasks"
	"ticket-bot/utils/database"
	"ticket-bot/utils/events"
	"ticket-bot/utils/logger"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ticket-bot",
		Short: "Discord support ticket bot",
		Long:  `ticket-bot runs support tickets in private threads and keeps per-staff handled/closed statistics with weekly leaderboards.`,
		RunE:  runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default config.yaml in . or data/)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Connect to Discord and serve interactions",
			RunE:  runServe,
		},
		newLeaderboardCommand(),
		&cobra.Command{
			Use:   "reset-weekly",
			Short: "Run the weekly reset check once",
			Long:  `Zero weekly counters if the configured reset boundary has passed since the last reset. Running it twice in the same week is a no-op.`,
			RunE:  runResetWeekly,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging and opens the ledger.
func setup() (*model.Config, *database.Store, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	return cfg, store, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.BotToken == "" {
		return errors.New("no bot token configured (set BOT_TOKEN or bot.token)")
	}

	b, err := bot.New(cfg, store)
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}
	b.ConfigFile = configFile

	handlers.Register(b)
	defer b.Close()

	return b.Run()
}

func newLeaderboardCommand() *cobra.Command {
	var timeframe, stat string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print a leaderboard from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := model.ParseTimeframe(timeframe)
			if err != nil {
				return err
			}
			axis, err := model.ParseAxis(stat)
			if err != nil {
				return err
			}
			_, store, err := setup()
			if err != nil {
				return err
			}
			defer store.Close()

			board, err := leaderboard.New(store).Build(cmd.Context(), tf, axis)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), leaderboard.Title(board))
			fmt.Fprintln(cmd.OutOrStdout(), leaderboard.Render(cmd.Context(), board, nil))
			return nil
		},
	}
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", string(model.TimeframeAllTime), "all_time or weekly")
	cmd.Flags().StringVarP(&stat, "stat", "s", string(model.AxisCombined), "combined, handled or closed")
	return cmd
}

func runResetWeekly(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	bus := events.NewBus()
	if cfg.RedisAddr != "" {
		rdb, err := events.Connect(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		bus.SetMirror(events.NewRedisMirror(rdb, cfg.RedisStream))
	}

	// Without a Discord session the boards cannot be posted.
	reset := tasks.NewWeeklyReset(store, leaderboard.New(store), bus, cfg.WeeklyReset, false)
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	fired, err := reset.Check(ctx, time.Now())
	if err != nil {
		return err
	}
	if fired {
		fmt.Fprintln(cmd.OutOrStdout(), "weekly counters reset")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "no reset due")
	}
	return nil
}
