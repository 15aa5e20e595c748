package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
)

func TestValidateContent(t *testing.T) {
	t.Parallel()
	f := NewFormatter(10)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "normal", raw: "hola", want: "hola"},
		{name: "recorta espacios", raw: "  hola  ", want: "hola"},
		{name: "vacío", raw: "", wantErr: domain.ErrEmptyMessage},
		{name: "solo espacios", raw: " \t\n ", wantErr: domain.ErrEmptyMessage},
		{name: "justo en el límite", raw: strings.Repeat("a", 10), want: strings.Repeat("a", 10)},
		{name: "una runa de más", raw: strings.Repeat("a", 11), wantErr: domain.ErrMessageTooLong},
		// 10 runas multibyte = 10, no 20 bytes.
		{name: "multibyte cuenta runas", raw: strings.Repeat("ñ", 10), want: strings.Repeat("ñ", 10)},
		{name: "multibyte pasada", raw: strings.Repeat("ñ", 11), wantErr: domain.ErrMessageTooLong},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ValidateContent(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateContent(%q) falló: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPayload(t *testing.T) {
	t.Parallel()
	f := NewFormatter(2000)
	sent := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p := f.Format(domain.RelayMessage{
		OriginServerID: "guild-1",
		AuthorName:     "Vale",
		AuthorAvatar:   "https://cdn/av.png",
		Content:        "buenas",
		SentAt:         sent,
	}, "XCG Norte")

	if p.AuthorName != "Vale" || p.AuthorAvatar != "https://cdn/av.png" {
		t.Fatalf("autor mal copiado: %+v", p)
	}
	if p.OriginName != "XCG Norte" {
		t.Fatalf("OriginName = %q, want %q", p.OriginName, "XCG Norte")
	}
	if p.Content != "buenas" || !p.SentAt.Equal(sent) {
		t.Fatalf("payload alterado: %+v", p)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()
	if got := Preview("corto", 10); got != "corto" {
		t.Fatalf("Preview no debía tocar un texto corto: %q", got)
	}
	if got := Preview("0123456789ABC", 10); got != "0123456789…" {
		t.Fatalf("Preview = %q", got)
	}
	// Corte sobre runas, no bytes: no puede partir un carácter.
	if got := Preview(strings.Repeat("ñ", 12), 10); got != strings.Repeat("ñ", 10)+"…" {
		t.Fatalf("Preview multibyte = %q", got)
	}
}
