package utils

import (
	"io"

	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

// SendPrivateEmbedMessage sends a direct message with an embed and an
// optional file to a user. Users with closed DMs are logged and skipped.
func SendPrivateEmbedMessage(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed, fileName string, file io.Reader) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		logger.For("dm").Warn("error creating private channel", "user_id", userID, "error", err)
		return err
	}
	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if file != nil {
		msg.Files = []*discordgo.File{{Name: fileName, ContentType: "text/plain", Reader: file}}
	}
	if _, err = s.ChannelMessageSendComplex(channel.ID, msg); err != nil {
		logger.For("dm").Warn("error sending private message", "user_id", userID, "error", err)
	}
	return err
}
