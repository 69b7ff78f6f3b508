package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ticket-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "data/tickets.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("reset.weekday", "sunday")
	v.SetDefault("reset.hour", 4)
	v.SetDefault("reset.timezone", "America/New_York")
	v.SetDefault("reset.publish", true)
	v.SetDefault("tickets.confirm_timeout", 60*time.Second)
	v.SetDefault("tickets.pending_timeout", 10*time.Minute)
	v.SetDefault("tickets.archive_minutes", 10080)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "ticketbot.events")
}

// Load reads .env, then configFile (or config.yaml in the working directory
// or data/ when configFile is empty), then TICKETBOT_* environment
// variables. BOT_TOKEN, APP_ID, LOG_CHANNEL_ID and DEVELOPER_USER_IDS are
// honoured without the prefix as well.
func Load(configFile string) (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, relying on environment variables")
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("data")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TICKETBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("bot.token", "TICKETBOT_BOT_TOKEN", "BOT_TOKEN")
	_ = v.BindEnv("bot.app_id", "TICKETBOT_BOT_APP_ID", "APP_ID")
	_ = v.BindEnv("bot.log_channel_id", "TICKETBOT_BOT_LOG_CHANNEL_ID", "LOG_CHANNEL_ID")
	_ = v.BindEnv("bot.developer_user_ids", "TICKETBOT_BOT_DEVELOPER_USER_IDS", "DEVELOPER_USER_IDS")

	weekday, ok := weekdays[strings.ToLower(v.GetString("reset.weekday"))]
	if !ok {
		return nil, fmt.Errorf("invalid reset.weekday %q", v.GetString("reset.weekday"))
	}
	hour := v.GetInt("reset.hour")
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid reset.hour %d", hour)
	}
	loc, err := time.LoadLocation(v.GetString("reset.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid reset.timezone: %w", err)
	}

	cfg := &model.Config{
		BotToken:         v.GetString("bot.token"),
		AppID:            v.GetString("bot.app_id"),
		LogChannelID:     v.GetString("bot.log_channel_id"),
		DeveloperUserIDs: splitList(v.GetString("bot.developer_user_ids")),
		DatabasePath:     v.GetString("database.path"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        v.GetString("log.format"),
		WeeklyReset: model.WeeklyResetConfig{
			Weekday:  weekday,
			Hour:     hour,
			Location: loc,
		},
		PublishOnReset:   v.GetBool("reset.publish"),
		ConfirmTimeout:   v.GetDuration("tickets.confirm_timeout"),
		PendingTimeout:   v.GetDuration("tickets.pending_timeout"),
		ThreadArchiveMin: v.GetInt("tickets.archive_minutes"),
		RedisAddr:        v.GetString("redis.addr"),
		RedisPassword:    v.GetString("redis.password"),
		RedisDB:          v.GetInt("redis.db"),
		RedisStream:      v.GetString("redis.stream"),
	}
	if cfg.ConfirmTimeout <= 0 {
		return nil, fmt.Errorf("tickets.confirm_timeout must be positive")
	}
	return cfg, nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
