package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	zlog "github.com/rs/zerolog/log"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

func SendEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, msg string) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("SendEphemeral")
	}
	return err
}

// Defer efímero (para trabajos >3s)
func DeferEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("DeferEphemeral")
	}
	return err
}

func ReplyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Embeds:  embeds,
	})

	if err != nil {
		// Fallback sólo si todavía no hay respuesta (webhook desconocido)
		var reqErr *discordgo.RESTError
		if errors.As(err, &reqErr) && reqErr.Message != nil && reqErr.Message.Code == 10015 {
			_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: content,
					Flags:   discordgo.MessageFlagsEphemeral,
					Embeds:  embeds,
				},
			})
			return
		}
		zlog.Warn().Err(err).Msg("ReplyEphemeral")
	}
}

// userMessage traduce los resultados del dominio a texto para el usuario.
// Es el único lugar donde se redactan estos mensajes.
func userMessage(err error) string {
	var rl *domain.RateLimitedError
	switch {
	case errors.As(err, &rl):
		return fmt.Sprintf("⏳ Muy seguido. Esperá %s y probá de nuevo.", rl.RetryAfter.Round(time.Second))
	case errors.Is(err, domain.ErrOriginNotConfigured), errors.Is(err, domain.ErrNotRegistered):
		return "❌ Este server no está configurado para el relay. Un admin tiene que correr `/setup`."
	case errors.Is(err, domain.ErrOriginDisabled):
		return "⚠️ El relay está pausado en este server. Un admin puede reactivarlo con `/enable`."
	case errors.Is(err, domain.ErrEmptyMessage):
		return "ℹ️ El mensaje quedó vacío; no hay nada que repartir."
	case errors.Is(err, domain.ErrMessageTooLong):
		return "❌ El mensaje supera el largo máximo permitido."
	case errors.Is(err, domain.ErrNameTaken):
		return "❌ Ese nombre ya lo usa otro server de la red. Elegí otro."
	case errors.Is(err, domain.ErrEmptyName):
		return "⚠️ El nombre visible no puede quedar vacío."
	case errors.Is(err, domain.ErrNotAdmin):
		return "🔒 No tienes permisos para esta acción."
	default:
		return "❌ No se pudo completar la acción: " + err.Error()
	}
}
