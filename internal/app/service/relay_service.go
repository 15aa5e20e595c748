package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jose-valero/xcg-relay-bot/internal/domain"
	"github.com/jose-valero/xcg-relay-bot/internal/infra/storage"
)

// RelayService es el corazón del bot: valida el mensaje entrante, pasa por
// el rate limit y lo reparte a todos los demás servers habilitados. Un
// destino caído no frena a los demás.
type RelayService struct {
	bindings BindingStore
	limiter  *RateLimiter
	fmtr     *Formatter
	tr       Transport
	history  HistoryStore

	sendTimeout time.Duration
	log         zerolog.Logger

	mu         sync.Mutex
	accepted   uint64
	deliveries uint64
	failures   uint64
	lastRelay  time.Time
}

func NewRelayService(
	bindings BindingStore,
	limiter *RateLimiter,
	fmtr *Formatter,
	tr Transport,
	history HistoryStore,
	sendTimeout time.Duration,
	log zerolog.Logger,
) *RelayService {
	return &RelayService{
		bindings:    bindings,
		limiter:     limiter,
		fmtr:        fmtr,
		tr:          tr,
		history:     history,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// HandleInbound filtra el feed crudo del gateway: solo sigue si el mensaje
// cayó en el canal vinculado de su server. Devuelve (nil, nil) cuando el
// evento no es tráfico del relay (canal cualquiera, server sin vincular).
func (s *RelayService) HandleInbound(ctx context.Context, in domain.InboundMessage) (*domain.BroadcastReport, error) {
	b, err := s.bindings.Get(ctx, in.ServerID)
	if err != nil {
		return nil, nil
	}
	if in.ChannelID != b.ChannelID {
		return nil, nil
	}
	return s.Submit(ctx, in)
}

// Submit ejecuta el pipeline completo sobre un mensaje ya dirigido al relay:
//  1. origen vinculado y habilitado
//  2. contenido no vacío y dentro del largo máximo
//  3. rate limit por usuario (un rechazo NO consume cupo)
//  4. formateo y fan-out al resto de servers activos
//
// Las fallas por destino van al reporte; el envío global no se aborta.
func (s *RelayService) Submit(ctx context.Context, in domain.InboundMessage) (*domain.BroadcastReport, error) {
	origin, err := s.bindings.Get(ctx, in.ServerID)
	if errors.Is(err, domain.ErrNotRegistered) {
		return nil, domain.ErrOriginNotConfigured
	}
	if err != nil {
		return nil, err
	}
	if !origin.Enabled {
		return nil, domain.ErrOriginDisabled
	}

	content, err := s.fmtr.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	if ok, retry := s.limiter.TryAdmit(in.UserID, in.SentAt); !ok {
		return nil, &domain.RateLimitedError{RetryAfter: retry}
	}

	msg := domain.RelayMessage{
		OriginServerID: origin.ServerID,
		AuthorName:     in.AuthorName,
		AuthorAvatar:   in.AuthorAvatar,
		Content:        content,
		SentAt:         in.SentAt,
	}
	payload := s.fmtr.Format(msg, origin.DisplayName)

	// Snapshot: un rebind/disable concurrente no toca ESTE fan-out.
	targets, err := s.bindings.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.BroadcastReport{ID: uuid.NewString()}
	start := time.Now()
	for _, t := range targets {
		if t.ServerID == origin.ServerID {
			continue
		}
		sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.tr.SendPayload(sctx, t.ServerID, t.ChannelID, payload)
		cancel()
		if err != nil {
			report.Failed = append(report.Failed, domain.DeliveryFailure{
				ServerID: t.ServerID,
				Err:      &domain.DeliveryError{ServerID: t.ServerID, Err: err},
			})
			s.log.Warn().
				Str("report", report.ID).
				Str("origin", origin.DisplayName).
				Str("dest", t.DisplayName).
				Err(err).
				Msg("entrega fallida")
			continue
		}
		report.Delivered++
	}

	s.history.Append(storage.RelayRecord{
		ReportID:   report.ID,
		OriginName: origin.DisplayName,
		Author:     in.AuthorName,
		Preview:    Preview(content, 50),
		Delivered:  report.Delivered,
		Failed:     len(report.Failed),
		At:         in.SentAt,
	})
	s.note(report)

	ev := s.log.Info()
	if len(report.Failed) > 0 {
		ev = s.log.Warn()
	}
	ev.Str("report", report.ID).
		Str("origin", origin.DisplayName).
		Str("author", in.AuthorName).
		Int("delivered", report.Delivered).
		Int("failed", len(report.Failed)).
		Dur("took", time.Since(start)).
		Msg("fan-out completado")

	return report, nil
}

func (s *RelayService) note(r *domain.BroadcastReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted++
	s.deliveries += uint64(r.Delivered)
	s.failures += uint64(len(r.Failed))
	s.lastRelay = time.Now()
}

type RelayStats struct {
	Accepted   uint64    `json:"accepted"`
	Deliveries uint64    `json:"deliveries"`
	Failures   uint64    `json:"failures"`
	LastRelay  time.Time `json:"last_relay"`
}

func (s *RelayService) Stats() RelayStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RelayStats{
		Accepted:   s.accepted,
		Deliveries: s.deliveries,
		Failures:   s.failures,
		LastRelay:  s.lastRelay,
	}
}
