package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/storage"
)

func newRegistryFixture() (*RegistryService, *storage.BindingRepo, *fakeTransport) {
	bindings := storage.NewBindingRepo()
	tr := newFakeTransport()
	return NewRegistryService(bindings, tr, zerolog.Nop()), bindings, tr
}

func TestSetupRequiresAdmin(t *testing.T) {
	t.Parallel()
	svc, bindings, _ := newRegistryFixture()

	_, err := svc.Setup(context.Background(), "g-1", "c-1", "Alfa", false)
	if !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("err = %v, want ErrNotAdmin", err)
	}
	if all, _ := bindings.ListAll(context.Background()); len(all) != 0 {
		t.Fatalf("un no-admin dejó %d vinculaciones", len(all))
	}
}

func TestSetupCreatesAndRebinds(t *testing.T) {
	t.Parallel()
	svc, bindings, _ := newRegistryFixture()
	ctx := context.Background()

	res, err := svc.Setup(ctx, "g-1", "c-1", "  Alfa  ", true)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !res.Created {
		t.Fatal("primera vinculación reportada como re-setup")
	}
	if res.Binding.DisplayName != "Alfa" {
		t.Fatalf("nombre sin recortar: %q", res.Binding.DisplayName)
	}
	if !res.Binding.Enabled {
		t.Fatal("vinculación nueva arrancó deshabilitada")
	}

	// Re-setup: re-apunta el canal y conserva la posición en la lista.
	if _, err := svc.Setup(ctx, "g-2", "c-2", "Beta", true); err != nil {
		t.Fatalf("Setup g-2: %v", err)
	}
	res, err = svc.Setup(ctx, "g-1", "c-99", "Alfa", true)
	if err != nil {
		t.Fatalf("re-setup: %v", err)
	}
	if res.Created {
		t.Fatal("re-setup reportado como vinculación nueva")
	}
	if res.Binding.ChannelID != "c-99" {
		t.Fatalf("el canal no se re-apuntó: %q", res.Binding.ChannelID)
	}

	all, _ := bindings.ListAll(ctx)
	if len(all) != 2 || all[0].ServerID != "g-1" || all[1].ServerID != "g-2" {
		t.Fatalf("orden de alta alterado: %+v", all)
	}
}

func TestSetupReenablesPausedServer(t *testing.T) {
	t.Parallel()
	svc, _, _ := newRegistryFixture()
	ctx := context.Background()

	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := svc.Disable(ctx, "g-1", true); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	res, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true)
	if err != nil {
		t.Fatalf("re-setup: %v", err)
	}
	if !res.Binding.Enabled {
		t.Fatal("el re-setup no re-habilitó el server")
	}
}

func TestSetupNameRules(t *testing.T) {
	t.Parallel()
	svc, _, _ := newRegistryFixture()
	ctx := context.Background()

	if _, err := svc.Setup(ctx, "g-1", "c-1", "   ", true); !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("nombre vacío: err = %v, want ErrEmptyName", err)
	}

	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	// Otro server no puede tomar el mismo nombre, ni cambiando mayúsculas.
	if _, err := svc.Setup(ctx, "g-2", "c-2", "alfa", true); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("nombre repetido: err = %v, want ErrNameTaken", err)
	}
	if _, err := svc.Setup(ctx, "g-2", "c-2", "ALFA", true); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("nombre repetido (mayúsculas): err = %v, want ErrNameTaken", err)
	}

	// El propio server sí puede repetir su nombre en un re-setup.
	if _, err := svc.Setup(ctx, "g-1", "c-9", "ALFA", true); err != nil {
		t.Fatalf("re-setup con el propio nombre: %v", err)
	}
}

func TestEnableDisable(t *testing.T) {
	t.Parallel()
	svc, bindings, _ := newRegistryFixture()
	ctx := context.Background()

	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	b, err := svc.Disable(ctx, "g-1", true)
	if err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if b.Enabled {
		t.Fatal("Disable devolvió el server habilitado")
	}
	if active, _ := bindings.ListActive(ctx); len(active) != 0 {
		t.Fatalf("un server pausado sigue activo: %+v", active)
	}

	b, err = svc.Enable(ctx, "g-1", true)
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !b.Enabled {
		t.Fatal("Enable no habilitó el server")
	}

	if _, err := svc.Enable(ctx, "g-nope", true); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("Enable de un desconocido: err = %v, want ErrNotRegistered", err)
	}
	if _, err := svc.Disable(ctx, "g-1", false); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("Disable sin permisos: err = %v, want ErrNotAdmin", err)
	}
}

func TestListServersOnlineFlag(t *testing.T) {
	t.Parallel()
	svc, _, tr := newRegistryFixture()
	ctx := context.Background()

	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := svc.Setup(ctx, "g-2", "c-2", "Beta", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := svc.Disable(ctx, "g-2", true); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	tr.guilds["g-1"] = "Guild Alfa" // el gateway solo ve a g-1

	list, err := svc.ListServers(ctx)
	if err != nil {
		t.Fatalf("ListServers: %v", err)
	}
	// Solo habilitados, y sin exponer IDs: nombre visible + online.
	if len(list) != 1 {
		t.Fatalf("ListServers devolvió %d servers, want 1", len(list))
	}
	if list[0].DisplayName != "Alfa" || !list[0].Online {
		t.Fatalf("entrada inesperada: %+v", list[0])
	}
}

func TestHandleRemoved(t *testing.T) {
	t.Parallel()
	svc, bindings, _ := newRegistryFixture()
	ctx := context.Background()

	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	svc.HandleRemoved(ctx, "g-1")
	if _, err := bindings.Get(ctx, "g-1"); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("la vinculación sobrevivió a la expulsión: err = %v", err)
	}

	// Server que nunca estuvo: no-op, sin pánico.
	svc.HandleRemoved(ctx, "g-fantasma")
}

func TestCount(t *testing.T) {
	t.Parallel()
	svc, _, _ := newRegistryFixture()
	ctx := context.Background()

	if got := svc.Count(ctx); got != 0 {
		t.Fatalf("Count inicial = %d, want 0", got)
	}
	if _, err := svc.Setup(ctx, "g-1", "c-1", "Alfa", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := svc.Setup(ctx, "g-2", "c-2", "Beta", true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := svc.Disable(ctx, "g-2", true); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	// Count cuenta vinculados, habilitados o no.
	if got := svc.Count(ctx); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
}
