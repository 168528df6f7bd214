package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Server is a development stand-in for the external backend. It serves the
// three gate endpoints and lets an operator toggle season/country state at
// runtime through bearer-guarded admin routes. Not for production.
type Server struct {
	apiKey string
	log    *zerolog.Logger

	mu       sync.Mutex
	settings model.AppSettings
	country  string
	blocked  map[string]bool
	banned   map[string]string // cached user id -> ban reason
}

func NewServer(apiKey, defaultCountry string, settings model.AppSettings, logger *zerolog.Logger) *Server {
	if defaultCountry == "" {
		defaultCountry = "US"
	}
	compLog := logger.With().Str("component", "StubBackend").Logger()
	return &Server{
		apiKey:   apiKey,
		log:      &compLog,
		settings: settings,
		country:  defaultCountry,
		blocked:  make(map[string]bool),
		banned:   make(map[string]string),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/app-settings", s.handleAppSettings)
	r.Get("/api/check-country", s.handleCheckCountry)
	r.Post("/api/auth/telegram", s.handleAuthTelegram)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/admin/season", s.handleSetSeason)
		r.Post("/admin/country-block", s.handleCountryBlock)
		r.Post("/admin/ban", s.handleBan)
	})
	return r
}

// authMiddleware provides simple Bearer token authentication for the admin routes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("stub admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if parts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAppSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleCheckCountry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := adapter.CountryResult{Country: s.country, Blocked: s.blocked[s.country]}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

type authRequest struct {
	InitData     string `json:"initData"`
	CachedUserID string `json:"cachedUserId"`
	StartParam   string `json:"startParam"`
}

func (s *Server) handleAuthTelegram(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := req.CachedUserID
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	reason, isBanned := s.banned[id]
	s.mu.Unlock()

	out := adapter.AuthResult{
		Identity:          id,
		Banned:            isBanned,
		Reason:            reason,
		ReferralProcessed: req.StartParam != "",
	}
	writeJSON(w, http.StatusOK, out)
}

type seasonRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleSetSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.settings.SeasonBroadcastActive = req.Active
	s.mu.Unlock()
	s.log.Info().Bool("active", req.Active).Msg("season broadcast toggled")
	w.WriteHeader(http.StatusNoContent)
}

type countryBlockRequest struct {
	CountryCode string `json:"countryCode"`
	Blocked     bool   `json:"blocked"`
}

func (s *Server) handleCountryBlock(w http.ResponseWriter, r *http.Request) {
	var req countryBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CountryCode == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.blocked[req.CountryCode] = req.Blocked
	s.mu.Unlock()
	s.log.Info().Str("country", req.CountryCode).Bool("blocked", req.Blocked).Msg("country block toggled")
	w.WriteHeader(http.StatusNoContent)
}

type banRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (s *Server) handleBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.banned[req.UserID] = req.Reason
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
