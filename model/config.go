package model

import (
	"database/sql"
	"strings"
	"time"
)

// GuildConfig is the per-guild row of server_config.
type GuildConfig struct {
	GuildID              string         `db:"guild_id"`
	TicketLimit          int            `db:"ticket_limit"`
	ArchiveChannelID     sql.NullString `db:"archive_channel_id"`
	TicketMessageID      sql.NullString `db:"ticket_message_id"`
	TicketChannelID      sql.NullString `db:"ticket_channel_id"`
	LeaderboardChannelID sql.NullString `db:"leaderboard_channel_id"`
	StaffRoleIDsRaw      sql.NullString `db:"staff_role_ids"`
}

// StaffRoleIDs splits the stored comma separated role list.
func (c GuildConfig) StaffRoleIDs() []string {
	if !c.StaffRoleIDsRaw.Valid || c.StaffRoleIDsRaw.String == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(c.StaffRoleIDsRaw.String, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Unlimited reports whether the guild has no open-ticket cap.
func (c GuildConfig) Unlimited() bool {
	return c.TicketLimit <= 0
}

// WeeklyResetConfig describes when weekly counters are zeroed.
type WeeklyResetConfig struct {
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

// Config holds the process level configuration of the bot.
type Config struct {
	BotToken         string
	AppID            string
	LogChannelID     string
	DeveloperUserIDs []string
	DatabasePath     string

	LogLevel  string
	LogFormat string

	WeeklyReset      WeeklyResetConfig
	PublishOnReset   bool
	ConfirmTimeout   time.Duration
	PendingTimeout   time.Duration
	ThreadArchiveMin int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string
}
