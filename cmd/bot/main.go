package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/xcg-relay-bot/internal/adapters/discord"
	"github.com/jose-valero/xcg-relay-bot/internal/adapters/httpstatus"
	"github.com/jose-valero/xcg-relay-bot/internal/app/service"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/config"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/logx"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.Setup(cfg.LogLevel)

	// Stores en memoria: al reiniciar, cada server vuelve a correr /setup
	bindings := storage.NewBindingRepo()
	history := storage.NewHistoryRepo(500)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal().Err(err).Msg("creando sesión")
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// Services
	sender := discordrouter.NewSender(s, cfg.SendRatePerSec, log)
	limiter := service.NewRateLimiter(cfg.MaxMessagesPerWindow, cfg.WindowDuration)
	fmtr := service.NewFormatter(cfg.MaxMessageLength)
	registrySvc := service.NewRegistryService(bindings, sender, log)
	relaySvc := service.NewRelayService(bindings, limiter, fmtr, sender, history, cfg.SendTimeout, log)

	// Router (handlers antes de Open, así no se pierde el Ready)
	r := discordrouter.NewRouter(s, relaySvc, registrySvc, discordrouter.RelayLimits{
		MaxMessages: cfg.MaxMessagesPerWindow,
		Window:      cfg.WindowDuration,
		MaxLength:   cfg.MaxMessageLength,
	}, cfg.AdminRoleIDs, log)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal().Err(err).Msg("abriendo gateway")
	}
	defer s.Close()
	log.Info().Msgf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	if err := r.Register(); err != nil {
		log.Fatal().Err(err).Msg("registrando comandos")
	}
	log.Info().Msg("✅ comandos registrados (global)")

	// Status HTTP
	web := httpstatus.New(relaySvc, registrySvc, history)
	go web.Start(cfg.HTTPAddr)

	// Sweep periódico de ventanas de rate limit inactivas (libera memoria)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			if n := limiter.Sweep(time.Now()); n > 0 {
				log.Debug().Int("removed", n).Msg("sweep de rate limit")
			}
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
