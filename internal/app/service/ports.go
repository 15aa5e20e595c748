package service

import (
	"context"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.BindingRepo
// Los métodos devuelven domain.ErrNotRegistered cuando el server no existe.
type BindingStore interface {
	Bind(ctx context.Context, b domain.ServerBinding) error
	Get(ctx context.Context, serverID string) (domain.ServerBinding, error)
	SetEnabled(ctx context.Context, serverID string, enabled bool) error
	// ListActive devuelve un snapshot: mutar el registry durante un fan-out
	// en curso no afecta a ese fan-out.
	ListActive(ctx context.Context) ([]domain.ServerBinding, error)
	ListAll(ctx context.Context) ([]domain.ServerBinding, error)
	Unregister(ctx context.Context, serverID string) error
}

// Lo implementa internal/infra/storage.HistoryRepo
type HistoryStore interface {
	Append(rec storage.RelayRecord)
	Recent(n int) []storage.RelayRecord
	Total() uint64
}

// Lo implementa internal/adapters/discord.Sender
type Transport interface {
	SendPayload(ctx context.Context, serverID, channelID string, p domain.RelayPayload) error
	// GuildName devuelve el nombre que ve el gateway y si el server está
	// visible ahora mismo (online).
	GuildName(serverID string) (string, bool)
}
