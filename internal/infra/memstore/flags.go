package memstore

import (
	"context"
	"sync"

	"telegram-miniapp-gate/internal/domain"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/repository"
)

var _ repository.FlagStore = (*Flags)(nil)

// Flags is an in-memory FlagStore for dev runs without Redis. Contents do
// not survive a restart, which is acceptable only in dev.
type Flags struct {
	mu       sync.RWMutex
	identity *model.CachedIdentity
	referral string
	hasRef   bool
	ack      bool
	deviceID string
}

func NewFlags() *Flags { return &Flags{} }

func (f *Flags) CachedIdentity(ctx context.Context) (*model.CachedIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.identity.IsZero() {
		return nil, domain.ErrNotFound
	}
	cp := *f.identity
	return &cp, nil
}

func (f *Flags) SaveCachedIdentity(ctx context.Context, id *model.CachedIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *id
	f.identity = &cp
	return nil
}

func (f *Flags) PendingReferral(ctx context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.hasRef {
		return "", domain.ErrNotFound
	}
	return f.referral, nil
}

func (f *Flags) SetPendingReferral(ctx context.Context, param string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referral, f.hasRef = param, true
	return nil
}

func (f *Flags) ClearPendingReferral(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referral, f.hasRef = "", false
	return nil
}

func (f *Flags) SeasonAcknowledged(ctx context.Context) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ack, nil
}

func (f *Flags) SetSeasonAcknowledged(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ack = true
	return nil
}

func (f *Flags) ClearSeasonAcknowledged(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ack = false
	return nil
}

func (f *Flags) DeviceID(ctx context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.deviceID == "" {
		return "", domain.ErrNotFound
	}
	return f.deviceID, nil
}

func (f *Flags) SaveDeviceID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviceID = id
	return nil
}
