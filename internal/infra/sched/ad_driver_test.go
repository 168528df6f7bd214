package sched_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/infra/sched"

	"github.com/rs/zerolog"
)

type fakeScheduleSource struct {
	mu    sync.Mutex
	calls int
	cfg   model.AdScheduleConfig
	err   error
}

func (f *fakeScheduleSource) AdSchedule(context.Context) (model.AdScheduleConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cfg, f.err
}

func (f *fakeScheduleSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingPresenter struct {
	mu    sync.Mutex
	count int
	err   error
}

func (p *countingPresenter) Present(context.Context, model.AdRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return p.err
}

func (p *countingPresenter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestAdDriver(t *testing.T) {
	t.Run("disabled config never starts a presentation timer", func(t *testing.T) {
		source := &fakeScheduleSource{cfg: model.AdScheduleConfig{Enabled: false, Interval: time.Millisecond}}
		presenter := &countingPresenter{}
		driver := sched.NewAdDriver(time.Millisecond, source, presenter, testLogger())

		driver.Start(context.Background())
		time.Sleep(30 * time.Millisecond)
		driver.Stop()

		if presenter.Count() != 0 {
			t.Fatalf("expected zero presentations, got %d", presenter.Count())
		}
	})

	t.Run("config fetch failure is treated as disabled, not a crash", func(t *testing.T) {
		source := &fakeScheduleSource{err: errors.New("network error")}
		presenter := &countingPresenter{}
		driver := sched.NewAdDriver(time.Millisecond, source, presenter, testLogger())

		driver.Start(context.Background())
		time.Sleep(30 * time.Millisecond)
		driver.Stop()

		if presenter.Count() != 0 {
			t.Fatalf("expected zero presentations, got %d", presenter.Count())
		}
	})

	t.Run("enabled config fires after the initial delay and keeps the cadence", func(t *testing.T) {
		source := &fakeScheduleSource{cfg: model.AdScheduleConfig{Enabled: true, Interval: 5 * time.Millisecond}}
		presenter := &countingPresenter{}
		driver := sched.NewAdDriver(time.Millisecond, source, presenter, testLogger())

		driver.Start(context.Background())
		defer driver.Stop()

		if !waitFor(t, time.Second, func() bool { return presenter.Count() >= 3 }) {
			t.Fatalf("expected repeated presentations, got %d", presenter.Count())
		}
	})

	t.Run("presentation failures never perturb the schedule", func(t *testing.T) {
		source := &fakeScheduleSource{cfg: model.AdScheduleConfig{Enabled: true, Interval: 5 * time.Millisecond}}
		presenter := &countingPresenter{err: errors.New("sdk rejected")}
		driver := sched.NewAdDriver(time.Millisecond, source, presenter, testLogger())

		driver.Start(context.Background())
		defer driver.Stop()

		if !waitFor(t, time.Second, func() bool { return presenter.Count() >= 3 }) {
			t.Fatalf("expected the chain to continue through failures, got %d", presenter.Count())
		}
	})

	t.Run("repeated Start can never produce a second chain", func(t *testing.T) {
		source := &fakeScheduleSource{cfg: model.AdScheduleConfig{Enabled: true, Interval: 5 * time.Millisecond}}
		presenter := &countingPresenter{}
		driver := sched.NewAdDriver(time.Millisecond, source, presenter, testLogger())

		driver.Start(context.Background())
		driver.Start(context.Background())
		driver.Start(context.Background())

		if !waitFor(t, time.Second, func() bool { return presenter.Count() >= 1 }) {
			t.Fatal("expected the single chain to fire")
		}
		driver.Stop()

		// One chain means exactly one config fetch, no matter how often
		// the owner re-mounts.
		if source.Calls() != 1 {
			t.Fatalf("expected one config fetch, got %d", source.Calls())
		}

		// Start after Stop stays dead too.
		driver.Start(context.Background())
		if source.Calls() != 1 {
			t.Fatalf("latch must be permanent for the process, got %d fetches", source.Calls())
		}
	})

	t.Run("Stop is idempotent and safe before Start", func(t *testing.T) {
		source := &fakeScheduleSource{cfg: model.AdScheduleConfig{Enabled: true, Interval: time.Millisecond}}
		driver := sched.NewAdDriver(time.Millisecond, source, &countingPresenter{}, testLogger())

		driver.Stop() // never started

		driver.Start(context.Background())
		driver.Stop()
		driver.Stop()
	})
}
