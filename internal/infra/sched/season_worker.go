package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SeasonSource is the settings slice the worker polls.
type SeasonSource interface {
	SeasonActive(ctx context.Context) (bool, error)
}

// SeasonApplier receives each resolved broadcast flag.
type SeasonApplier interface {
	ApplySeason(ctx context.Context, active bool)
}

// SeasonWorker polls the season broadcast flag for the process lifetime:
// one immediate check, then a fixed-interval repeat. A failed tick is
// skipped and the previous status retained.
type SeasonWorker struct {
	interval time.Duration
	source   SeasonSource
	gate     SeasonApplier
	log      *zerolog.Logger
}

func NewSeasonWorker(interval time.Duration, source SeasonSource, gate SeasonApplier, logger *zerolog.Logger) *SeasonWorker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	compLog := logger.With().Str("component", "SeasonWorker").Logger()
	return &SeasonWorker{interval: interval, source: source, gate: gate, log: &compLog}
}

func (w *SeasonWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting season worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping season worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *SeasonWorker) runCheck(ctx context.Context) {
	active, err := w.source.SeasonActive(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("season poll failed; retaining previous status")
		return
	}
	w.gate.ApplySeason(ctx, active)
}
