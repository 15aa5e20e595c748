package discord

import (
	"sync"
	"time"
)

// cmdCooldown frena el spam de comandos por usuario. Es independiente del
// rate limit del relay: ese vive en el service y cuida los mensajes, este
// solo evita clicks repetidos sobre los slash commands.
type cmdCooldown struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
}

func newCmdCooldown(window time.Duration) *cmdCooldown {
	return &cmdCooldown{next: map[string]time.Time{}, win: window}
}

func (l *cmdCooldown) Allow(userID string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	// poda ocasional para que el mapa no crezca sin techo
	if len(l.next) > 1024 {
		for id, until := range l.next {
			if now.After(until) {
				delete(l.next, id)
			}
		}
	}

	if until, ok := l.next[userID]; ok && now.Before(until) {
		return false
	}
	l.next[userID] = now.Add(l.win)
	return true
}
