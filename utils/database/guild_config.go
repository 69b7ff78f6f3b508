package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ticket-bot/model"
	"ticket-bot/utils/apperr"
)

// GetGuildConfig returns the guild's configuration, or the defaults
// (unlimited tickets, nothing configured) when the guild has no row yet.
func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	var c model.GuildConfig
	err := s.db.GetContext(ctx, &c, `SELECT * FROM server_config WHERE guild_id = ?`, guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.GuildConfig{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "get guild config")
	}
	return &c, nil
}

// setColumn upserts a single server_config column. column is never user input.
func (s *Store) setColumn(ctx context.Context, guildID, column string, value any) error {
	query := fmt.Sprintf(`INSERT INTO server_config (guild_id, %[1]s) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET %[1]s = excluded.%[1]s`, column)
	_, err := s.db.ExecContext(ctx, query, guildID, value)
	return apperr.Storage(err, "set "+column)
}

func (s *Store) SetTicketLimit(ctx context.Context, guildID string, limit int) error {
	if limit < 0 {
		return apperr.Validation("The ticket limit cannot be negative.")
	}
	return s.setColumn(ctx, guildID, "ticket_limit", limit)
}

func (s *Store) SetArchiveChannel(ctx context.Context, guildID, channelID string) error {
	return s.setColumn(ctx, guildID, "archive_channel_id", channelID)
}

func (s *Store) SetLeaderboardChannel(ctx context.Context, guildID, channelID string) error {
	return s.setColumn(ctx, guildID, "leaderboard_channel_id", channelID)
}

func (s *Store) SetStaffRoles(ctx context.Context, guildID string, roleIDs []string) error {
	return s.setColumn(ctx, guildID, "staff_role_ids", strings.Join(roleIDs, ","))
}

// SetTicketPanel records where the ticket-creation panel was posted.
func (s *Store) SetTicketPanel(ctx context.Context, guildID, channelID, messageID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO server_config (guild_id, ticket_channel_id, ticket_message_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET ticket_channel_id = excluded.ticket_channel_id, ticket_message_id = excluded.ticket_message_id`,
		guildID, channelID, messageID)
	return apperr.Storage(err, "set ticket panel")
}

// ListLeaderboardChannels returns the configs of guilds that publish leaderboards.
func (s *Store) ListLeaderboardChannels(ctx context.Context) ([]model.GuildConfig, error) {
	var cfgs []model.GuildConfig
	err := s.db.SelectContext(ctx, &cfgs, `SELECT * FROM server_config
		WHERE leaderboard_channel_id IS NOT NULL AND leaderboard_channel_id != '' ORDER BY guild_id`)
	if err != nil {
		return nil, apperr.Storage(err, "list leaderboard channels")
	}
	return cfgs, nil
}
