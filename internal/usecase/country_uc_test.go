package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/infra/memstore"
	"telegram-miniapp-gate/internal/usecase"
)

func TestCountryCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the signed host payload over the cached identity", func(t *testing.T) {
		api := newMockBackend()
		flags := memstore.NewFlags()
		_ = flags.SaveCachedIdentity(ctx, cachedUser("user-9"))
		var seen adapter.IdentityMaterial
		api.CheckCountryFunc = func(_ context.Context, m adapter.IdentityMaterial) (*adapter.CountryResult, error) {
			seen = m
			return &adapter.CountryResult{Country: "DE", Blocked: false}, nil
		}

		uc := usecase.NewCountryUseCase(api, flags, insideHost(), newTestLogger())
		st, ok := uc.Check(ctx)

		if !ok || st.Code != "DE" || st.Blocked {
			t.Fatalf("unexpected status %+v ok=%v", st, ok)
		}
		if seen.InitData == "" {
			t.Error("expected the host payload in the request")
		}
		if seen.CachedID != "user-9" {
			t.Errorf("expected the cached identity alongside, got %q", seen.CachedID)
		}
	})

	t.Run("a transient failure reports not-ok and an open gate", func(t *testing.T) {
		api := newMockBackend()
		api.CheckCountryFunc = func(context.Context, adapter.IdentityMaterial) (*adapter.CountryResult, error) {
			return nil, errors.New("timeout")
		}

		uc := usecase.NewCountryUseCase(api, memstore.NewFlags(), outsideHost(), newTestLogger())
		st, ok := uc.Check(ctx)

		if ok {
			t.Fatal("expected ok=false on failure")
		}
		if st.Blocked {
			t.Fatal("failure must never block the user")
		}
	})
}
