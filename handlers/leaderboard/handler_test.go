package leaderboard

import (
	"testing"

	"ticket-bot/model"
	"ticket-bot/utils"
	"ticket-bot/utils/apperr"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func TestViewOptionsDefaults(t *testing.T) {
	tf, axis, err := ViewOptions(utils.OptionMap{})
	require.NoError(t, err)
	assert.Equal(t, model.TimeframeAllTime, tf)
	assert.Equal(t, model.AxisCombined, axis)
}

func TestViewOptionsWeeklyClosed(t *testing.T) {
	opts := utils.Options([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOpt("timeframe", "weekly"),
		stringOpt("stat", "closed"),
	})
	tf, axis, err := ViewOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, model.TimeframeWeekly, tf)
	assert.Equal(t, model.AxisClosed, axis)
}

func TestViewOptionsRejectsUnknownStat(t *testing.T) {
	opts := utils.Options([]*discordgo.ApplicationCommandInteractionDataOption{stringOpt("stat", "messages")})
	_, _, err := ViewOptions(opts)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
