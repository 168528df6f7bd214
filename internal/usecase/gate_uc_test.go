package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-miniapp-gate/internal/domain"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/infra/memstore"
	"telegram-miniapp-gate/internal/usecase"
)

type gateDeps struct {
	api   *mockBackend
	flags *memstore.Flags
	host  *mockHost
}

func newGate(t *testing.T, host *mockHost, dev bool, mutate func(*gateDeps)) (usecase.GateUseCase, *gateDeps) {
	t.Helper()
	deps := &gateDeps{api: newMockBackend(), flags: memstore.NewFlags(), host: host}
	if mutate != nil {
		mutate(deps)
	}
	logger := newTestLogger()
	countryUC := usecase.NewCountryUseCase(deps.api, deps.flags, deps.host, logger)
	identityUC := usecase.NewIdentityUseCase(deps.api, deps.flags, deps.host, dev, logger)
	gate := usecase.NewGateUseCase(countryUC, identityUC, adapter.NoopMembership{}, deps.flags, deps.host, dev, logger)
	return gate, deps
}

func TestGateBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves to Ready when country is open and the handshake succeeds", func(t *testing.T) {
		gate, deps := newGate(t, insideHost(), false, nil)

		gate.Bootstrap(ctx)

		d := gate.Decision()
		if d.State != model.GateReady {
			t.Fatalf("expected state %q, got %q", model.GateReady, d.State)
		}
		if d.Country != "US" {
			t.Errorf("expected resolved country US, got %q", d.Country)
		}
		if d.SeasonOverlay {
			t.Error("overlay must stay hidden until a season tick says otherwise")
		}
		calls := deps.api.Calls()
		if len(calls) != 2 || calls[0] != "CheckCountry" || calls[1] != "AuthTelegram" {
			t.Fatalf("expected country check strictly before the handshake, got %v", calls)
		}
	})

	t.Run("blocked country wins and the handshake is never attempted", func(t *testing.T) {
		gate, deps := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.CheckCountryFunc = func(context.Context, adapter.IdentityMaterial) (*adapter.CountryResult, error) {
				return &adapter.CountryResult{Country: "XX", Blocked: true}, nil
			}
		})

		gate.Bootstrap(ctx)

		d := gate.Decision()
		if d.State != model.GateCountryBlocked {
			t.Fatalf("expected state %q, got %q", model.GateCountryBlocked, d.State)
		}
		for _, c := range deps.api.Calls() {
			if c == "AuthTelegram" {
				t.Fatal("identity handshake must not leak into a restricted region")
			}
		}
	})

	t.Run("ban verdict is sticky for the process lifetime", func(t *testing.T) {
		gate, _ := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.AuthTelegramFunc = func(context.Context, *adapter.AuthRequest) (*adapter.AuthResult, error) {
				return &adapter.AuthResult{Identity: "user-1", Banned: true, Reason: "fraud"}, nil
			}
		})

		gate.Bootstrap(ctx)

		d := gate.Decision()
		if d.State != model.GateBanned || d.BanReason != "fraud" {
			t.Fatalf("expected banned/fraud, got %+v", d)
		}

		// No later signal may transition out of Banned without a reload.
		gate.ApplySeason(ctx, true)
		gate.ApplyCountryEvent(model.CountryBlockEvent{Action: model.BlockActionUnblocked, CountryCode: "US"})
		gate.ApplyCountryCheck(model.CountryStatus{Code: "US", Blocked: false}, true)
		if got := gate.Decision().State; got != model.GateBanned {
			t.Fatalf("banned state must be sticky, got %q", got)
		}
	})

	t.Run("country check failure fails open and stops the spinner", func(t *testing.T) {
		gate, _ := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.CheckCountryFunc = func(context.Context, adapter.IdentityMaterial) (*adapter.CountryResult, error) {
				return nil, errors.New("network down")
			}
		})

		gate.Bootstrap(ctx)

		d := gate.Decision()
		if d.State != model.GateReady {
			t.Fatalf("a transient country failure must not wedge the user, got %q", d.State)
		}
	})

	t.Run("identity handshake failure leaves the user unauthenticated but in", func(t *testing.T) {
		gate, _ := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.AuthTelegramFunc = func(context.Context, *adapter.AuthRequest) (*adapter.AuthResult, error) {
				return nil, errors.New("502 bad gateway")
			}
		})

		gate.Bootstrap(ctx)

		if got := gate.Decision().State; got != model.GateReady {
			t.Fatalf("expected Ready after a failed handshake, got %q", got)
		}
		if sess := gate.Snapshot().Session; sess.Authenticating || sess.Identity != "" {
			t.Errorf("expected settled unauthenticated session, got %+v", sess)
		}
	})

	t.Run("outside the host the app demands Telegram", func(t *testing.T) {
		gate, deps := newGate(t, outsideHost(), false, nil)

		gate.Bootstrap(ctx)

		if got := gate.Decision().State; got != model.GateTelegramRequired {
			t.Fatalf("expected %q, got %q", model.GateTelegramRequired, got)
		}
		for _, c := range deps.api.Calls() {
			if c == "AuthTelegram" {
				t.Fatal("no handshake without a host bridge")
			}
		}
	})

	t.Run("dev mode synthesizes identity and bypasses the host requirement", func(t *testing.T) {
		gate, _ := newGate(t, outsideHost(), true, nil)

		gate.Bootstrap(ctx)

		if got := gate.Decision().State; got != model.GateReady {
			t.Fatalf("expected %q in dev mode, got %q", model.GateReady, got)
		}
		if id := gate.Snapshot().Session.Identity; id == "" {
			t.Error("dev mode must synthesize an identity")
		}
	})

	t.Run("stays Loading while the membership check is pending", func(t *testing.T) {
		deps := &gateDeps{api: newMockBackend(), flags: memstore.NewFlags(), host: insideHost()}
		logger := newTestLogger()
		countryUC := usecase.NewCountryUseCase(deps.api, deps.flags, deps.host, logger)
		identityUC := usecase.NewIdentityUseCase(deps.api, deps.flags, deps.host, false, logger)
		membership := newBlockingMembership()
		gate := usecase.NewGateUseCase(countryUC, identityUC, membership, deps.flags, deps.host, false, logger)

		done := make(chan struct{})
		go func() {
			gate.Bootstrap(ctx)
			close(done)
		}()

		// Country and identity settle quickly; membership holds the gate.
		deadline := time.After(time.Second)
		for gate.Snapshot().Session.Authenticating {
			select {
			case <-deadline:
				t.Fatal("handshake never settled")
			case <-time.After(time.Millisecond):
			}
		}
		if got := gate.Decision().State; got != model.GateLoading {
			t.Fatalf("expected Loading while membership is pending, got %q", got)
		}

		close(membership.release)
		<-done
		if got := gate.Decision().State; got != model.GateReady {
			t.Fatalf("expected Ready once membership settled, got %q", got)
		}
	})

	t.Run("tolerates a cancelled context without crashing", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		gate, _ := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.CheckCountryFunc = func(ctx context.Context, _ adapter.IdentityMaterial) (*adapter.CountryResult, error) {
				return nil, ctx.Err()
			}
			d.api.AuthTelegramFunc = func(ctx context.Context, _ *adapter.AuthRequest) (*adapter.AuthResult, error) {
				return nil, ctx.Err()
			}
		})

		gate.Bootstrap(cancelled)

		if got := gate.Decision().State; got == model.GateLoading {
			t.Fatal("bootstrap must settle even when torn down mid-flight")
		}
	})
}

func TestGateCountryEvents(t *testing.T) {
	ctx := context.Background()

	gate, _ := newGate(t, insideHost(), false, nil)
	gate.Bootstrap(ctx)
	if got := gate.Decision().State; got != model.GateReady {
		t.Fatalf("precondition failed: %q", got)
	}

	t.Run("event for another country is ignored", func(t *testing.T) {
		gate.ApplyCountryEvent(model.CountryBlockEvent{Action: model.BlockActionBlocked, CountryCode: "XX"})
		if got := gate.Decision().State; got != model.GateReady {
			t.Fatalf("foreign-country event must not alter the gate, got %q", got)
		}
	})

	t.Run("matching block event flips the gate, matching unblock clears it", func(t *testing.T) {
		gate.ApplyCountryEvent(model.CountryBlockEvent{Action: model.BlockActionBlocked, CountryCode: "US"})
		if got := gate.Decision().State; got != model.GateCountryBlocked {
			t.Fatalf("expected %q, got %q", model.GateCountryBlocked, got)
		}
		gate.ApplyCountryEvent(model.CountryBlockEvent{Action: model.BlockActionUnblocked, CountryCode: "US"})
		if got := gate.Decision().State; got != model.GateReady {
			t.Fatalf("blocking is level-triggered and must clear, got %q", got)
		}
	})
}

func TestGateSeasonOverlay(t *testing.T) {
	ctx := context.Background()

	t.Run("locked overlay cannot be dismissed", func(t *testing.T) {
		gate, _ := newGate(t, insideHost(), false, nil)
		gate.Bootstrap(ctx)

		gate.ApplySeason(ctx, true)
		d := gate.Decision()
		if !d.SeasonOverlay || !d.OverlayLocked {
			t.Fatalf("expected locked overlay, got %+v", d)
		}
		if err := gate.DismissOverlay(ctx); !errors.Is(err, domain.ErrOverlayLocked) {
			t.Fatalf("expected ErrOverlayLocked, got %v", err)
		}
	})

	t.Run("acknowledgment clears exactly on the active-to-inactive edge", func(t *testing.T) {
		gate, deps := newGate(t, insideHost(), false, func(d *gateDeps) {
			// A past broadcast was dismissed on this device.
			_ = d.flags.SetSeasonAcknowledged(context.Background())
		})
		gate.Bootstrap(ctx)

		gate.ApplySeason(ctx, true)
		if gate.Decision().SeasonOverlay {
			t.Fatal("acknowledged broadcast must stay hidden")
		}
		if acked, _ := deps.flags.SeasonAcknowledged(ctx); !acked {
			t.Fatal("flag must survive an active tick")
		}

		gate.ApplySeason(ctx, false)
		if acked, _ := deps.flags.SeasonAcknowledged(ctx); acked {
			t.Fatal("flag must clear when the broadcast deactivates")
		}

		gate.ApplySeason(ctx, true)
		if !gate.Decision().SeasonOverlay {
			t.Fatal("a future broadcast must be shown again")
		}
	})

	t.Run("administrators never see the overlay", func(t *testing.T) {
		gate, _ := newGate(t, insideHost(), false, func(d *gateDeps) {
			d.api.AuthTelegramFunc = func(context.Context, *adapter.AuthRequest) (*adapter.AuthResult, error) {
				return &adapter.AuthResult{Identity: "admin-1", IsAdmin: true}, nil
			}
		})
		gate.Bootstrap(ctx)

		gate.ApplySeason(ctx, true)
		d := gate.Decision()
		if d.State != model.GateReady || d.SeasonOverlay {
			t.Fatalf("admin must not see the season overlay, got %+v", d)
		}
	})

	t.Run("dismissal persists the acknowledgment", func(t *testing.T) {
		gate, deps := newGate(t, insideHost(), false, nil)
		gate.Bootstrap(ctx)

		if err := gate.DismissOverlay(ctx); err != nil {
			t.Fatalf("expected dismissal to succeed while unlocked, got %v", err)
		}
		if acked, _ := deps.flags.SeasonAcknowledged(ctx); !acked {
			t.Fatal("dismissal must set the durable flag")
		}
	})
}
