// Dispatch de slash commands: defer efímero, ruteo por el mapa estático del
// Router y followups con el resultado. Los servicios deciden; acá solo se
// parsea la interacción y se traduce el resultado a texto.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return
	}
	// el relay es cosa de guilds; por DM no hay nada que hacer
	if ic.GuildID == "" || ic.Member == nil || ic.Member.User == nil {
		return
	}

	cmd := ic.ApplicationCommandData()
	r.log.Info().Str("cmd", cmd.Name).Str("user", ic.Member.User.ID).Str("guild", ic.GuildID).Msg("slash")

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("cmd", cmd.Name).Msg("panic en comando")
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando. Contacta con un administrador.")
		}
	}()

	handler, ok := r.commands[cmd.Name]
	if !ok {
		return
	}

	if !r.cooldown.Allow(ic.Member.User.ID) {
		_ = SendEphemeral(s, ic, "⏳ Muy rápido. Probá de nuevo en unos segundos.")
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	handler(ctx, s, ic)
}

func (r *Router) cmdSetup(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	defer step(r.log, "cmd.setup")()

	channelID, ok := optChannelID(ic, "canal")
	if !ok {
		ReplyEphemeral(s, ic, "⚠️ Falta el canal del relay.")
		return
	}

	// sin nombre explícito usamos el del guild
	name, _ := optStr(ic, "nombre")
	if strings.TrimSpace(name) == "" {
		if g, err := r.safeGetGuild(ic.GuildID); err == nil {
			name = g.Name
		}
	}

	res, err := r.registry.Setup(ctx, ic.GuildID, channelID, name, r.memberIsAdmin(s, ic))
	if err != nil {
		ReplyEphemeral(s, ic, userMessage(err))
		return
	}

	emb := &discordgo.MessageEmbed{
		Title: "✅ Server vinculado",
		Color: 0x2ecc71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Nombre", Value: res.Binding.DisplayName, Inline: true},
			{Name: "Canal", Value: fmt.Sprintf("<#%s>", res.Binding.ChannelID), Inline: true},
			{Name: "Estado", Value: "Habilitado", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "La vinculación vive en memoria: tras un reinicio hay que correr /setup de nuevo.",
		},
	}
	msg := "Listo, este server ya forma parte del relay."
	if !res.Created {
		msg = "Vinculación actualizada."
	}
	ReplyEphemeral(s, ic, msg, emb)
	r.updatePresence(s)
}

func (r *Router) cmdEnable(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	b, err := r.registry.Enable(ctx, ic.GuildID, r.memberIsAdmin(s, ic))
	if err != nil {
		ReplyEphemeral(s, ic, userMessage(err))
		return
	}
	ReplyEphemeral(s, ic, "✅ Relay habilitado para **"+b.DisplayName+"**.")
}

func (r *Router) cmdDisable(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	b, err := r.registry.Disable(ctx, ic.GuildID, r.memberIsAdmin(s, ic))
	if err != nil {
		ReplyEphemeral(s, ic, userMessage(err))
		return
	}
	ReplyEphemeral(s, ic, "⚠️ Relay pausado para **"+b.DisplayName+"**. Nada entra ni sale hasta `/enable`.")
}

func (r *Router) cmdServers(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	list, err := r.registry.ListServers(ctx)
	if err != nil {
		ReplyEphemeral(s, ic, userMessage(err))
		return
	}
	if len(list) == 0 {
		ReplyEphemeral(s, ic, "ℹ️ Todavía no hay servers activos en la red.")
		return
	}

	var sb strings.Builder
	for _, st := range list {
		dot := "🔴"
		if st.Online {
			dot = "🟢"
		}
		fmt.Fprintf(&sb, "%s **%s**\n", dot, st.DisplayName)
	}
	emb := &discordgo.MessageEmbed{
		Title:       "📋 Servers de la red",
		Description: sb.String(),
		Color:       0x3498db,
	}
	if b, err := r.registry.Describe(ctx, ic.GuildID); err == nil {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name: "Este server", Value: "**" + b.DisplayName + "**",
		})
	}
	ReplyEphemeral(s, ic, "", emb)
}

func (r *Router) cmdHelp(_ context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	emb := &discordgo.MessageEmbed{
		Title:       "🤖 XCG Relay · ayuda",
		Description: "Conecta los canales vinculados de varios servers: lo que se escribe en el canal del relay se replica en los demás.",
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/setup canal:<#canal> [nombre:...]", Value: "Vincula este server al relay (admins)."},
			{Name: "/enable · /disable", Value: "Reactiva o pausa el relay en este server (admins)."},
			{Name: "/servers", Value: "Lista los servers activos de la red."},
			{Name: "Enviar mensajes", Value: "Escribí en el canal vinculado y el bot lo reparte. ✅ = repartido."},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf(
				"Límite: %d mensajes cada %s por usuario, máx %d caracteres · La config vive en memoria: tras un reinicio hay que correr /setup",
				r.limits.MaxMessages, r.limits.Window, r.limits.MaxLength,
			),
		},
	}
	ReplyEphemeral(s, ic, "", emb)
}

func (r *Router) cmdPing(_ context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	ReplyEphemeral(s, ic, fmt.Sprintf("🏓 Pong! (%s)", s.HeartbeatLatency().Round(time.Millisecond)))
}
