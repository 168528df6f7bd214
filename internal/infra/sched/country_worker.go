package sched

import (
	"context"
	"time"

	"telegram-miniapp-gate/internal/domain/model"

	"github.com/rs/zerolog"
)

// CountrySource issues one on-demand country check.
type CountrySource interface {
	Check(ctx context.Context) (model.CountryStatus, bool)
}

// CountryApplier receives each re-check result.
type CountryApplier interface {
	ApplyCountryCheck(st model.CountryStatus, ok bool)
}

// CountryWorker periodically re-checks the country restriction. The
// bootstrap sequence owns the first check, so this worker only ticks.
type CountryWorker struct {
	interval time.Duration
	source   CountrySource
	gate     CountryApplier
	log      *zerolog.Logger
}

func NewCountryWorker(interval time.Duration, source CountrySource, gate CountryApplier, logger *zerolog.Logger) *CountryWorker {
	compLog := logger.With().Str("component", "CountryWorker").Logger()
	return &CountryWorker{interval: interval, source: source, gate: gate, log: &compLog}
}

func (w *CountryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting country worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping country worker")
			return ctx.Err()
		case <-ticker.C:
			st, ok := w.source.Check(ctx)
			w.gate.ApplyCountryCheck(st, ok)
		}
	}
}
