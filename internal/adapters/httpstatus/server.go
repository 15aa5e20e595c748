package httpstatus

import (
	"encoding/json"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/jose-valero/xcg-relay-bot/internal/app/service"
)

// Server expone liveness y un snapshot del estado del relay. Solo lectura:
// la administración se hace por Discord, no por HTTP.
type Server struct {
	mux      *http.ServeMux
	relay    *service.RelayService
	registry *service.RegistryService
	history  service.HistoryStore
	started  time.Time
}

func New(relay *service.RelayService, registry *service.RegistryService, history service.HistoryStore) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		relay:    relay,
		registry: registry,
		history:  history,
		started:  time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/status", s.handleStatus)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	servers, err := s.registry.ListServers(r.Context())
	if err != nil {
		http.Error(w, "registry unavailable", http.StatusInternalServerError)
		return
	}
	online := 0
	for _, sv := range servers {
		if sv.Online {
			online++
		}
	}

	out := map[string]any{
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"servers": map[string]any{
			"bound":  s.registry.Count(r.Context()),
			"active": len(servers),
			"online": online,
		},
		"relay":  s.relay.Stats(),
		"recent": s.history.Recent(10),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) Start(addr string) {
	zlog.Info().Str("addr", addr).Msg("🌐 HTTP listening")
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		zlog.Fatal().Err(err).Msg("http server")
	}
}
