package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/jose-valero/xcg-relay-bot/internal/app/service"
)

// RelayLimits son los números que el /help le muestra al usuario; los
// valores reales los aplican el service y el formatter.
type RelayLimits struct {
	MaxMessages int
	Window      time.Duration
	MaxLength   int
}

type Router struct {
	s        *discordgo.Session
	relay    *service.RelayService
	registry *service.RegistryService

	limits       RelayLimits
	adminRoleIDs []string
	cooldown     *cmdCooldown
	commands     map[string]CommandHandler
	log          zerolog.Logger
}

func NewRouter(
	s *discordgo.Session,
	relay *service.RelayService,
	registry *service.RegistryService,
	limits RelayLimits,
	adminRoleIDs []string,
	log zerolog.Logger,
) *Router {
	r := &Router{
		s:            s,
		relay:        relay,
		registry:     registry,
		limits:       limits,
		adminRoleIDs: adminRoleIDs,
		cooldown:     newCmdCooldown(2 * time.Second),
		log:          log,
	}
	// Mapa estático nombre → handler; el schema de cada comando está en
	// Commands (commands.go).
	r.commands = map[string]CommandHandler{
		"setup":   r.cmdSetup,
		"enable":  r.cmdEnable,
		"disable": r.cmdDisable,
		"servers": r.cmdServers,
		"help":    r.cmdHelp,
		"ping":    r.cmdPing,
	}
	return r
}

// Register publica los comandos a nivel global: el bot vive en varios
// guilds a la vez, no tiene un guild fijo.
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(r.handleReady)
	r.s.AddHandler(r.handleSlashCommand)
	r.s.AddHandler(r.handleMessageCreate)
	r.s.AddHandler(r.handleGuildDelete)
}

// updatePresence refleja el tamaño de la red en el estado del bot.
func (r *Router) updatePresence(s *discordgo.Session) {
	n := r.registry.Count(context.Background())
	if err := s.UpdateWatchStatus(0, fmt.Sprintf("%d servidores | /help", n)); err != nil {
		r.log.Debug().Err(err).Msg("updatePresence")
	}
}
