package usecase

import (
	"context"
	"fmt"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/infra/logging"
	"telegram-miniapp-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase reads the app-settings boundary for the two consumers
// that share it: the season poller (every tick) and the ad driver (once).
type SettingsUseCase interface {
	SeasonActive(ctx context.Context) (bool, error)
	AdSchedule(ctx context.Context) (model.AdScheduleConfig, error)
}

type settingsUC struct {
	api adapter.BackendAPI
	log *zerolog.Logger
}

func NewSettingsUseCase(api adapter.BackendAPI, logger *zerolog.Logger) *settingsUC {
	compLog := logger.With().Str("component", "SettingsUC").Logger()
	return &settingsUC{api: api, log: &compLog}
}

func (s *settingsUC) SeasonActive(ctx context.Context) (bool, error) {
	defer logging.TraceDuration(s.log, "SettingsUC.SeasonActive")()
	metrics.IncPollTick("season")

	settings, err := s.api.AppSettings(ctx)
	if err != nil {
		metrics.IncPollError("season")
		return false, fmt.Errorf("season poll: %w", err)
	}
	return settings.SeasonBroadcastActive, nil
}

func (s *settingsUC) AdSchedule(ctx context.Context) (model.AdScheduleConfig, error) {
	defer logging.TraceDuration(s.log, "SettingsUC.AdSchedule")()

	settings, err := s.api.AppSettings(ctx)
	if err != nil {
		return model.AdScheduleConfig{}, fmt.Errorf("ad schedule config: %w", err)
	}
	return settings.AdSchedule(), nil
}
