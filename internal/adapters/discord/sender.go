package discord

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

// Sender es el transporte real hacia Discord. Le pone un piso de cortesía
// al REST (limiter global de salida) y reintenta solo lo reintentable; la
// política de fallos por destino vive en el reporte del service, no acá.
type Sender struct {
	s       *discordgo.Session
	lim     *rate.Limiter
	retries int
	log     zerolog.Logger
}

func NewSender(s *discordgo.Session, perSec int, log zerolog.Logger) *Sender {
	return &Sender{
		s:       s,
		lim:     rate.NewLimiter(rate.Limit(perSec), perSec),
		retries: 2,
		log:     log,
	}
}

func (sn *Sender) SendPayload(ctx context.Context, serverID, channelID string, p domain.RelayPayload) error {
	if err := sn.lim.Wait(ctx); err != nil {
		return err
	}

	embed := relayEmbed(p)
	var last error
	for i := 0; i <= sn.retries; i++ {
		_, err := sn.s.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
		if err == nil {
			return nil
		}
		last = err
		if !retryable(err) || i == sn.retries {
			break
		}
		delay := time.Duration(200+100*i) * time.Millisecond
		sn.log.Debug().Str("dest", serverID).Int("attempt", i+2).Dur("delay", delay).Err(err).Msg("reintento de envío")
		tmr := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !tmr.Stop() {
				<-tmr.C
			}
			return ctx.Err()
		case <-tmr.C:
		}
	}
	return last
}

// GuildName devuelve el nombre que ve el gateway; false = offline para el bot.
func (sn *Sender) GuildName(serverID string) (string, bool) {
	if g, err := sn.s.State.Guild(serverID); err == nil && g != nil && !g.Unavailable {
		return g.Name, true
	}
	return "", false
}

// relayEmbed replica el formato clásico del relay: contenido como
// descripción, autor arriba y el server de origen en el footer. Nunca IDs.
func relayEmbed(p domain.RelayPayload) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: p.Content,
		Color:       0x3498db,
		Timestamp:   p.SentAt.UTC().Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    p.AuthorName,
			IconURL: p.AuthorAvatar,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Desde: " + p.OriginName,
		},
	}
}

// retryable: 429 y 5xx valen el reintento; permisos o canal borrado no.
func retryable(err error) bool {
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Response != nil {
		code := re.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= 500
	}
	return false
}
