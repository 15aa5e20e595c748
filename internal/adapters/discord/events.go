package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

func (r *Router) handleReady(s *discordgo.Session, _ *discordgo.Ready) {
	r.log.Info().Str("user", s.State.User.Username).Msg("✅ gateway listo")
	r.updatePresence(s)
}

// handleMessageCreate alimenta el relay con el feed crudo del gateway. El
// filtrado fino (¿es el canal vinculado? ¿está habilitado?) lo hace el
// service; acá solo se descarta lo que nunca puede ser tráfico del relay.
func (r *Router) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// bots fuera: si no, el relay se retroalimenta con sus propios embeds
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	in := domain.InboundMessage{
		ServerID:     m.GuildID,
		ChannelID:    m.ChannelID,
		MessageID:    m.ID,
		UserID:       m.Author.ID,
		AuthorName:   authorDisplayName(m),
		AuthorAvatar: m.Author.AvatarURL("64"),
		Content:      m.Content,
		SentAt:       time.Now(),
	}

	// El deadline por destino lo pone el service; acá no hace falta otro.
	report, err := r.relay.HandleInbound(context.Background(), in)
	if err != nil {
		r.notifyRejection(s, m, err)
		return
	}
	if report == nil {
		return // no era tráfico del relay
	}

	// feedback silencioso: el canal no se llena de confirmaciones
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, "✅"); err != nil {
		r.log.Debug().Err(err).Msg("reacción de confirmación")
	}
}

// handleGuildDelete limpia la vinculación cuando echan al bot de un server.
func (r *Router) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return // caída temporal del guild; no nos echaron
	}
	r.registry.HandleRemoved(context.Background(), g.ID)
	r.updatePresence(s)
}

// notifyRejection contesta en el canal con el motivo del rechazo, con el
// mismo mapeo de textos que usan los comandos.
func (r *Router) notifyRejection(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	emb := &discordgo.MessageEmbed{Description: userMessage(err), Color: 0xe74c3c}
	if _, e := s.ChannelMessageSendEmbedReply(m.ChannelID, emb, m.Reference()); e != nil {
		r.log.Debug().Err(e).Msg("aviso de rechazo")
	}
}

func authorDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
