package usecase

import (
	"context"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/domain/ports/repository"
	"telegram-miniapp-gate/internal/infra/logging"
	"telegram-miniapp-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CountryUseCase = (*countryUC)(nil)

// CountryUseCase issues one country-restriction query with whatever
// identity material is currently available.
type CountryUseCase interface {
	// Check returns the resolved status and true, or the zero status and
	// false on a transient failure. It never blocks the user on error.
	Check(ctx context.Context) (model.CountryStatus, bool)
}

type countryUC struct {
	api   adapter.BackendAPI
	flags repository.FlagStore
	host  adapter.HostBridge
	log   *zerolog.Logger
}

func NewCountryUseCase(api adapter.BackendAPI, flags repository.FlagStore, host adapter.HostBridge, logger *zerolog.Logger) *countryUC {
	compLog := logger.With().Str("component", "CountryUC").Logger()
	return &countryUC{api: api, flags: flags, host: host, log: &compLog}
}

func (c *countryUC) Check(ctx context.Context) (model.CountryStatus, bool) {
	defer logging.TraceDuration(c.log, "CountryUC.Check")()
	metrics.IncPollTick("country")

	res, err := c.api.CheckCountry(ctx, c.material(ctx))
	if err != nil {
		metrics.IncPollError("country")
		c.log.Warn().Err(err).Msg("country check failed; allowing access")
		return model.CountryStatus{}, false
	}
	c.log.Debug().Str("country", res.Country).Bool("blocked", res.Blocked).Msg("country resolved")
	return model.CountryStatus{Code: res.Country, Blocked: res.Blocked}, true
}

// material prefers the signed host payload, falling back to the cached
// identity when running outside the host.
func (c *countryUC) material(ctx context.Context) adapter.IdentityMaterial {
	var m adapter.IdentityMaterial
	if c.host != nil && c.host.Present() {
		m.InitData = c.host.InitData()
	}
	if cached, err := c.flags.CachedIdentity(ctx); err == nil {
		m.CachedID = cached.ID
	}
	return m
}
