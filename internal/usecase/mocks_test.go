// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func cachedUser(id string) *model.CachedIdentity {
	return &model.CachedIdentity{ID: id, SavedAt: time.Now()}
}

// mockBackend records the order of calls and lets tests override each
// endpoint with a XxxFunc hook.
type mockBackend struct {
	mu    sync.Mutex
	calls []string

	AppSettingsFunc  func(ctx context.Context) (*model.AppSettings, error)
	CheckCountryFunc func(ctx context.Context, m adapter.IdentityMaterial) (*adapter.CountryResult, error)
	AuthTelegramFunc func(ctx context.Context, req *adapter.AuthRequest) (*adapter.AuthResult, error)
}

func newMockBackend() *mockBackend { return &mockBackend{} }

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.calls))
	copy(cp, m.calls)
	return cp
}

func (m *mockBackend) AppSettings(ctx context.Context) (*model.AppSettings, error) {
	m.record("AppSettings")
	if m.AppSettingsFunc != nil {
		return m.AppSettingsFunc(ctx)
	}
	return &model.AppSettings{}, nil
}

func (m *mockBackend) CheckCountry(ctx context.Context, mat adapter.IdentityMaterial) (*adapter.CountryResult, error) {
	m.record("CheckCountry")
	if m.CheckCountryFunc != nil {
		return m.CheckCountryFunc(ctx, mat)
	}
	return &adapter.CountryResult{Country: "US", Blocked: false}, nil
}

func (m *mockBackend) AuthTelegram(ctx context.Context, req *adapter.AuthRequest) (*adapter.AuthResult, error) {
	m.record("AuthTelegram")
	if m.AuthTelegramFunc != nil {
		return m.AuthTelegramFunc(ctx, req)
	}
	return &adapter.AuthResult{Identity: "user-1"}, nil
}

// mockHost is a configurable host execution context.
type mockHost struct {
	present    bool
	initData   string
	startParam string
}

func (h *mockHost) Present() bool       { return h.present }
func (h *mockHost) InitData() string    { return h.initData }
func (h *mockHost) StartParam() string  { return h.startParam }
func (h *mockHost) Fingerprint() string { return "fp-test" }

func insideHost() *mockHost {
	return &mockHost{present: true, initData: "query_id=test&hash=abc"}
}

func outsideHost() *mockHost { return &mockHost{} }

// blockingMembership holds the membership check open until released, so
// tests can observe the Loading state mid-bootstrap.
type blockingMembership struct {
	release chan struct{}
}

func newBlockingMembership() *blockingMembership {
	return &blockingMembership{release: make(chan struct{})}
}

func (m *blockingMembership) CheckMembership(ctx context.Context) error {
	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
