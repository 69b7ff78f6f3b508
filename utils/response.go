package utils

import (
	"ticket-bot/utils/apperr"
	"ticket-bot/utils/logger"

	"github.com/bwmarrin/discordgo"
)

// SendErrorResponse sends an ephemeral error message.
func SendErrorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.For("response").Warn("error sending error response", "error", err)
	}
}

// RespondError maps err to the message the actor should see.
func RespondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if apperr.TypeOf(err) == "" || apperr.TypeOf(err) == apperr.TypeStorageUnavailable {
		logger.For("response").Error("interaction failed", "error", err)
	}
	SendErrorResponse(s, i, apperr.UserMessage(err))
}

func SendPublicResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		logger.For("response").Warn("error sending public response", "error", err)
	}
}

// SendSimpleResponse sends a simple ephemeral message.
func SendSimpleResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.For("response").Warn("error sending simple response", "error", err)
	}
}

// SendEmbedResponse sends an embed, ephemeral if requested.
func SendEmbedResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.For("response").Warn("error sending embed response", "error", err)
	}
}

// SendFollowUp edits a deferred response.
func SendFollowUp(s *discordgo.Session, i *discordgo.Interaction, message string) {
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &message,
	})
	if err != nil {
		logger.For("response").Warn("error sending follow-up message", "error", err)
	}
}

// SendFollowUpError edits a deferred response with err's user message.
func SendFollowUpError(s *discordgo.Session, i *discordgo.Interaction, err error) {
	if apperr.TypeOf(err) == "" || apperr.TypeOf(err) == apperr.TypeStorageUnavailable {
		logger.For("response").Error("interaction failed", "error", err)
	}
	SendFollowUp(s, i, "❌ "+apperr.UserMessage(err))
}

// DeferResponse defers an interaction response, optionally making it ephemeral.
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return s.InteractionRespond(i.Interaction, response)
}
