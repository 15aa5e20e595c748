package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

// RegistryService maneja las vinculaciones server↔canal. El chequeo de
// permisos lo resuelve el adapter (quién es admin); acá solo se exige el
// resultado vía requesterIsAdmin.
type RegistryService struct {
	bindings BindingStore
	tr       Transport
	log      zerolog.Logger
}

func NewRegistryService(bindings BindingStore, tr Transport, log zerolog.Logger) *RegistryService {
	return &RegistryService{bindings: bindings, tr: tr, log: log}
}

type SetupResult struct {
	Binding domain.ServerBinding
	Created bool // false = re-setup de un server ya vinculado
}

// Estado de un server activo para /servers y /status. Sin IDs crudos.
type ServerStatus struct {
	DisplayName string
	Enabled     bool
	Online      bool
}

// Setup crea o reemplaza la vinculación. Idempotente: repetir setup solo
// re-apunta el canal (y re-habilita el server, igual que el original).
// El displayName no puede estar en uso por OTRO server, sin importar mayúsculas.
func (s *RegistryService) Setup(ctx context.Context, serverID, channelID, displayName string, requesterIsAdmin bool) (SetupResult, error) {
	if !requesterIsAdmin {
		return SetupResult{}, domain.ErrNotAdmin
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		return SetupResult{}, domain.ErrEmptyName
	}

	all, err := s.bindings.ListAll(ctx)
	if err != nil {
		return SetupResult{}, err
	}
	for _, b := range all {
		if b.ServerID != serverID && strings.EqualFold(b.DisplayName, name) {
			return SetupResult{}, domain.ErrNameTaken
		}
	}

	_, err = s.bindings.Get(ctx, serverID)
	created := errors.Is(err, domain.ErrNotRegistered)
	if err != nil && !created {
		return SetupResult{}, err
	}

	b := domain.ServerBinding{
		ServerID:    serverID,
		ChannelID:   channelID,
		DisplayName: name,
		Enabled:     true,
		BoundAt:     time.Now(),
	}
	if err := s.bindings.Bind(ctx, b); err != nil {
		return SetupResult{}, err
	}

	s.log.Info().
		Str("server", name).
		Bool("created", created).
		Msg("🔗 server vinculado")
	return SetupResult{Binding: b, Created: created}, nil
}

func (s *RegistryService) Enable(ctx context.Context, serverID string, requesterIsAdmin bool) (domain.ServerBinding, error) {
	return s.setEnabled(ctx, serverID, true, requesterIsAdmin)
}

func (s *RegistryService) Disable(ctx context.Context, serverID string, requesterIsAdmin bool) (domain.ServerBinding, error) {
	return s.setEnabled(ctx, serverID, false, requesterIsAdmin)
}

func (s *RegistryService) setEnabled(ctx context.Context, serverID string, enabled bool, requesterIsAdmin bool) (domain.ServerBinding, error) {
	if !requesterIsAdmin {
		return domain.ServerBinding{}, domain.ErrNotAdmin
	}
	if err := s.bindings.SetEnabled(ctx, serverID, enabled); err != nil {
		return domain.ServerBinding{}, err
	}
	b, err := s.bindings.Get(ctx, serverID)
	if err != nil {
		return domain.ServerBinding{}, err
	}
	s.log.Info().Str("server", b.DisplayName).Bool("enabled", enabled).Msg("⚙️ server actualizado")
	return b, nil
}

// ListServers devuelve los servers habilitados en orden de alta, solo con
// su nombre visible y si el gateway los ve ahora mismo.
func (s *RegistryService) ListServers(ctx context.Context) ([]ServerStatus, error) {
	active, err := s.bindings.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ServerStatus, 0, len(active))
	for _, b := range active {
		_, online := s.tr.GuildName(b.ServerID)
		out = append(out, ServerStatus{DisplayName: b.DisplayName, Enabled: b.Enabled, Online: online})
	}
	return out, nil
}

// Describe devuelve la vinculación de un server concreto (o ErrNotRegistered).
func (s *RegistryService) Describe(ctx context.Context, serverID string) (domain.ServerBinding, error) {
	return s.bindings.Get(ctx, serverID)
}

// Count devuelve cuántos servers hay vinculados (para la presencia del bot).
func (s *RegistryService) Count(ctx context.Context) int {
	all, err := s.bindings.ListAll(ctx)
	if err != nil {
		return 0
	}
	return len(all)
}

// HandleRemoved se dispara cuando echan al bot de un server: la vinculación
// se borra y ese server deja de recibir y emitir.
func (s *RegistryService) HandleRemoved(ctx context.Context, serverID string) {
	b, err := s.bindings.Get(ctx, serverID)
	if err != nil {
		return
	}
	_ = s.bindings.Unregister(ctx, serverID)
	s.log.Info().Str("server", b.DisplayName).Msg("🧹 server removido del relay")
}
