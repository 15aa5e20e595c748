package service

import (
	"strings"
	"unicode/utf8"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

// Formatter valida el contenido y arma el payload de salida. No conoce el
// transporte: el adapter convierte el payload a embed/lo que toque.
type Formatter struct {
	maxLen int // en runas, como cuenta Discord
}

func NewFormatter(maxMessageLength int) *Formatter {
	return &Formatter{maxLen: maxMessageLength}
}

// ValidateContent recorta espacios y aplica el largo máximo ANTES de
// cualquier overhead de formato. Devuelve el contenido ya limpio.
func (f *Formatter) ValidateContent(raw string) (string, error) {
	c := strings.TrimSpace(raw)
	if c == "" {
		return "", domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(c) > f.maxLen {
		return "", domain.ErrMessageTooLong
	}
	return c, nil
}

// Format es determinista y solo expone nombres visibles, nunca IDs.
func (f *Formatter) Format(m domain.RelayMessage, originName string) domain.RelayPayload {
	return domain.RelayPayload{
		AuthorName:   m.AuthorName,
		AuthorAvatar: m.AuthorAvatar,
		OriginName:   originName,
		Content:      m.Content,
		SentAt:       m.SentAt,
	}
}

// Preview corta el contenido para logs e historial (auditoría legible,
// no persistencia).
func Preview(content string, n int) string {
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	runes := []rune(content)
	return string(runes[:n]) + "…"
}
