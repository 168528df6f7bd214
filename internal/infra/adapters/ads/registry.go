package ads

import (
	"context"
	"sync"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.AdPresenter = (*Registry)(nil)

// PresentFunc is the presentation entry point an advertisement SDK
// registers at startup.
type PresentFunc func(ctx context.Context, req model.AdRequest) error

// Registry holds the globally registered presentation function. When no
// SDK has registered one, Present is a no-op rather than an error.
type Registry struct {
	mu  sync.RWMutex
	fn  PresentFunc
	log *zerolog.Logger
}

func NewRegistry(logger *zerolog.Logger) *Registry {
	compLog := logger.With().Str("component", "AdRegistry").Logger()
	return &Registry{log: &compLog}
}

// Register installs the SDK presentation function. The last registration
// wins; passing nil uninstalls.
func (r *Registry) Register(fn PresentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn = fn
}

func (r *Registry) Present(ctx context.Context, req model.AdRequest) error {
	r.mu.RLock()
	fn := r.fn
	r.mu.RUnlock()
	if fn == nil {
		r.log.Debug().Msg("no ad presenter registered; skipping presentation")
		return nil
	}
	return fn(ctx, req)
}
