package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DiscordToken string
	AdminRoleIDs []string // roles extra con permiso de admin, aparte de owner/Administrator

	// Rate limit del relay (por usuario, ventana deslizante)
	MaxMessagesPerWindow int
	WindowDuration       time.Duration

	MaxMessageLength int

	// Transporte
	SendTimeout    time.Duration
	SendRatePerSec int

	HTTPAddr string // opcional, default :8080
	LogLevel string
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	getInt := func(k string, def int) int {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("env %s inválida: %q", k, v)
		}
		return n
	}

	cfg := Config{
		DiscordToken:         get("DISCORD_BOT_TOKEN", true),
		AdminRoleIDs:         splitIDs(get("ADMIN_ROLE_IDS", false)),
		MaxMessagesPerWindow: getInt("RATE_LIMIT_MESSAGES", 5),
		WindowDuration:       time.Duration(getInt("RATE_LIMIT_PERIOD_SECONDS", 60)) * time.Second,
		MaxMessageLength:     getInt("MAX_MESSAGE_LENGTH", 2000),
		SendTimeout:          time.Duration(getInt("SEND_TIMEOUT_SECONDS", 10)) * time.Second,
		SendRatePerSec:       getInt("SEND_RATE_PER_SEC", 5),
		HTTPAddr:             get("HTTP_ADDR", false), // puede quedar vacío
		LogLevel:             get("LOG_LEVEL", false),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Config rota = deploy roto: se corta acá, no en el primer mensaje.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config inválida: %v", err)
	}
	return cfg
}

func (c Config) Validate() error {
	if c.MaxMessagesPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_MESSAGES debe ser > 0")
	}
	if c.WindowDuration <= 0 {
		return fmt.Errorf("RATE_LIMIT_PERIOD_SECONDS debe ser > 0")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH debe ser > 0")
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT_SECONDS debe ser > 0")
	}
	if c.SendRatePerSec <= 0 {
		return fmt.Errorf("SEND_RATE_PER_SEC debe ser > 0")
	}
	return nil
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
