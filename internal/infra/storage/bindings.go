package storage

import (
	"context"
	"sync"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

// BindingRepo guarda las vinculaciones server↔canal en memoria, en orden de
// alta. Sin persistencia: al reiniciar, cada server vuelve a correr /setup.
// Lecturas concurrentes ok, escrituras serializadas.
type BindingRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.ServerBinding
	order []string // server IDs en orden de primera vinculación
}

func NewBindingRepo() *BindingRepo {
	return &BindingRepo{byID: map[string]domain.ServerBinding{}}
}

// Bind inserta o reemplaza. Un re-bind conserva la posición original.
func (r *BindingRepo) Bind(_ context.Context, b domain.ServerBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ServerID]; !ok {
		r.order = append(r.order, b.ServerID)
	}
	r.byID[b.ServerID] = b
	return nil
}

func (r *BindingRepo) Get(_ context.Context, serverID string) (domain.ServerBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[serverID]
	if !ok {
		return domain.ServerBinding{}, domain.ErrNotRegistered
	}
	return b, nil
}

func (r *BindingRepo) SetEnabled(_ context.Context, serverID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[serverID]
	if !ok {
		return domain.ErrNotRegistered
	}
	b.Enabled = enabled
	r.byID[serverID] = b
	return nil
}

// ListActive devuelve SOLO los habilitados, en orden de alta. El slice es
// una copia: sirve como snapshot para un fan-out en curso.
func (r *BindingRepo) ListActive(_ context.Context) ([]domain.ServerBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ServerBinding, 0, len(r.order))
	for _, id := range r.order {
		if b := r.byID[id]; b.Enabled {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BindingRepo) ListAll(_ context.Context) ([]domain.ServerBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ServerBinding, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// Unregister borra la vinculación; si no existe, no-op.
func (r *BindingRepo) Unregister(_ context.Context, serverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[serverID]; !ok {
		return nil
	}
	delete(r.byID, serverID)
	for i, id := range r.order {
		if id == serverID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
