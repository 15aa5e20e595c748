package service

import (
	"sync"
	"time"
)

// userWindow guarda los envíos recientes de UN usuario, con su propio lock
// para no serializar usuarios que no se pisan entre sí.
type userWindow struct {
	mu    sync.Mutex
	times []time.Time
	dead  bool // marcado por Sweep; el que lo vea debe re-buscar en el mapa
}

// RateLimiter implementa ventana deslizante por poda: en cada chequeo se
// descartan los timestamps que ya salieron de la ventana y se cuenta lo que
// queda. Evita el burst en el borde de una ventana fija.
// max y win vienen validados (> 0) desde config.Load.
type RateLimiter struct {
	mu    sync.RWMutex
	users map[string]*userWindow
	max   int
	win   time.Duration
}

func NewRateLimiter(maxMessages int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		users: map[string]*userWindow{},
		max:   maxMessages,
		win:   window,
	}
}

// TryAdmit poda la ventana del usuario y decide. Si admite registra `now` y
// devuelve (true, 0); si no, NO registra el intento y devuelve cuánto falta
// para que el timestamp más viejo salga de la ventana.
func (l *RateLimiter) TryAdmit(userID string, now time.Time) (bool, time.Duration) {
	for {
		w := l.record(userID)
		w.mu.Lock()
		if w.dead {
			w.mu.Unlock()
			continue
		}

		cut := now.Add(-l.win)
		keep := w.times[:0]
		for _, t := range w.times {
			if t.After(cut) {
				keep = append(keep, t)
			}
		}
		w.times = keep

		if len(w.times) < l.max {
			w.times = append(w.times, now)
			w.mu.Unlock()
			return true, 0
		}
		retry := w.times[0].Sub(cut)
		w.mu.Unlock()
		return false, retry
	}
}

func (l *RateLimiter) record(userID string) *userWindow {
	l.mu.RLock()
	w := l.users[userID]
	l.mu.RUnlock()
	if w != nil {
		return w
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if w = l.users[userID]; w == nil {
		w = &userWindow{}
		l.users[userID] = w
	}
	return w
}

// Sweep elimina registros de usuarios sin timestamps vigentes. Es solo para
// no acumular memoria; lo llama un ticker en main. Devuelve cuántos sacó.
func (l *RateLimiter) Sweep(now time.Time) int {
	cut := now.Add(-l.win)
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.users {
		w.mu.Lock()
		stale := len(w.times) == 0 || !w.times[len(w.times)-1].After(cut)
		if stale {
			w.dead = true
			delete(l.users, id)
			removed++
		}
		w.mu.Unlock()
	}
	return removed
}

// Tracked devuelve cuántos usuarios tienen registro vivo (para /status).
func (l *RateLimiter) Tracked() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.users)
}
