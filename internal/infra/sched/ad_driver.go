package sched

import (
	"context"
	"sync"
	"time"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// AdScheduleSource provides the one-time schedule configuration.
type AdScheduleSource interface {
	AdSchedule(ctx context.Context) (model.AdScheduleConfig, error)
}

// AdDriver runs the interstitial presentation schedule, independent of the
// gating state. The configuration is fetched exactly once; a failed fetch
// means disabled. Each presentation is fire-and-forget: failures are
// logged and never perturb the fixed-interval chain.
type AdDriver struct {
	delay     time.Duration
	source    AdScheduleSource
	presenter adapter.AdPresenter
	log       *zerolog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewAdDriver(initialDelay time.Duration, source AdScheduleSource, presenter adapter.AdPresenter, logger *zerolog.Logger) *AdDriver {
	if initialDelay <= 0 {
		initialDelay = 5 * time.Second
	}
	compLog := logger.With().Str("component", "AdDriver").Logger()
	return &AdDriver{
		delay:     initialDelay,
		source:    source,
		presenter: presenter,
		log:       &compLog,
		done:      make(chan struct{}),
	}
}

// Start launches the timer chain in a background goroutine. The latch is
// permanent for the process: repeated Start calls, including after Stop,
// can never produce a second chain.
func (d *AdDriver) Start(parentCtx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	ctx, cancel := context.WithCancel(parentCtx)
	d.cancel = cancel
	go d.loop(ctx)
}

// Stop cancels the schedule and waits for the loop to finish. It is
// idempotent and a no-op when Start was never called.
func (d *AdDriver) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-d.done
}

func (d *AdDriver) loop(ctx context.Context) {
	defer close(d.done)

	cfg, err := d.source.AdSchedule(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("ad schedule config fetch failed; treating popup ads as disabled")
		return
	}
	if !cfg.Enabled || cfg.Interval <= 0 {
		d.log.Info().Msg("popup ads disabled; no presentation timer started")
		return
	}

	d.log.Info().Dur("interval", cfg.Interval).Dur("initial_delay", d.delay).Msg("ad schedule started")
	select {
	case <-ctx.Done():
		return
	case <-time.After(d.delay):
	}
	d.present(ctx, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("ad schedule stopped")
			return
		case <-ticker.C:
			d.present(ctx, cfg)
		}
	}
}

func (d *AdDriver) present(ctx context.Context, cfg model.AdScheduleConfig) {
	req := model.AdRequest{
		Type:         "interstitial",
		FrequencyCap: 1,
		Cooldown:     cfg.Interval,
		Timeout:      30 * time.Second,
	}
	metrics.IncAdPresented()
	if err := d.presenter.Present(ctx, req); err != nil {
		metrics.IncAdFailed()
		d.log.Warn().Err(err).Msg("ad presentation failed; schedule continues")
	}
}
