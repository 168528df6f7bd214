package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"telegram-miniapp-gate/internal/domain"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// BlockEventPublisher feeds live country-block events into the runtime.
type BlockEventPublisher interface {
	Publish(ev model.CountryBlockEvent)
}

// Server exposes the derived gate state to the presentational UI, plus
// admin debug endpoints and the metrics scrape target.
type Server struct {
	gate        usecase.GateUseCase
	bus         BlockEventPublisher
	auth        *AuthManager
	adminSecret string
	log         *zerolog.Logger
}

func NewServer(gate usecase.GateUseCase, bus BlockEventPublisher, auth *AuthManager, adminSecret string, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "StatusAPI").Logger()
	return &Server{gate: gate, bus: bus, auth: auth, adminSecret: adminSecret, log: &compLog}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(s.log), RequestLog(s.log), Recover(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gate", s.handleGate)
		r.Post("/overlay/dismiss", s.handleDismissOverlay)

		r.Post("/admin/login", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/admin/state", s.handleAdminState)
			r.Post("/admin/country-event", s.handleCountryEvent)
		})
	})
	return r
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gate.Decision())
}

func (s *Server) handleDismissOverlay(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.DismissOverlay(r.Context()); err != nil {
		if errors.Is(err, domain.ErrOverlayLocked) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to dismiss overlay", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adminLoginRequest struct {
	Secret string `json:"secret"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.adminSecret == "" {
		s.log.Error().Msg("admin secret is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.adminSecret)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAdminState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gate.Snapshot())
}

// handleCountryEvent injects a countryBlockChanged event, standing in for
// the host shell that publishes them in production.
func (s *Server) handleCountryEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.CountryBlockEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if ev.CountryCode == "" || (ev.Action != model.BlockActionBlocked && ev.Action != model.BlockActionUnblocked) {
		http.Error(w, domain.ErrInvalidArgument.Error(), http.StatusBadRequest)
		return
	}
	s.bus.Publish(ev)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
