// File: internal/usecase/identity_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/domain/ports/repository"
	"telegram-miniapp-gate/internal/infra/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ IdentityUseCase = (*identityUC)(nil)

// IdentityUseCase performs the one-time startup handshake against the
// authentication boundary.
type IdentityUseCase interface {
	Authenticate(ctx context.Context) (*adapter.AuthResult, error)
}

type identityUC struct {
	api   adapter.BackendAPI
	flags repository.FlagStore
	host  adapter.HostBridge
	dev   bool
	log   *zerolog.Logger
}

func NewIdentityUseCase(api adapter.BackendAPI, flags repository.FlagStore, host adapter.HostBridge, dev bool, logger *zerolog.Logger) *identityUC {
	compLog := logger.With().Str("component", "IdentityUC").Logger()
	return &identityUC{api: api, flags: flags, host: host, dev: dev, log: &compLog}
}

func (i *identityUC) Authenticate(ctx context.Context) (*adapter.AuthResult, error) {
	defer logging.TraceDuration(i.log, "IdentityUC.Authenticate")()

	req := &adapter.AuthRequest{
		DeviceID:    i.deviceID(ctx),
		Fingerprint: i.host.Fingerprint(),
	}
	if i.host.Present() {
		req.Material.InitData = i.host.InitData()
	} else if cached, err := i.flags.CachedIdentity(ctx); err == nil {
		req.Material.CachedID = cached.ID
	}

	// A start parameter from the host supersedes any stored referral.
	if sp := i.host.StartParam(); sp != "" {
		if err := i.flags.SetPendingReferral(ctx, sp); err != nil {
			i.log.Warn().Err(err).Msg("failed to persist referral start parameter")
		}
	}
	if ref, err := i.flags.PendingReferral(ctx); err == nil && ref != "" {
		req.Referral = ref
	}

	i.log.Debug().
		Str("init_data", logging.Redact(req.Material.InitData, i.dev)).
		Str("device_id", req.DeviceID).
		Msg("starting identity handshake")

	res, err := i.api.AuthTelegram(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("identity handshake: %w", err)
	}

	if res.ReferralProcessed {
		if err := i.flags.ClearPendingReferral(ctx); err != nil {
			i.log.Warn().Err(err).Msg("failed to clear processed referral")
		}
	}
	if !res.Banned && res.Identity != "" {
		cached := &model.CachedIdentity{ID: res.Identity, SavedAt: time.Now()}
		if err := i.flags.SaveCachedIdentity(ctx, cached); err != nil {
			i.log.Warn().Err(err).Msg("failed to cache identity")
		}
	}
	return res, nil
}

// deviceID returns the durable device identifier, minting one on first use.
func (i *identityUC) deviceID(ctx context.Context) string {
	if id, err := i.flags.DeviceID(ctx); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	if err := i.flags.SaveDeviceID(ctx, id); err != nil {
		i.log.Warn().Err(err).Msg("failed to persist device id")
	}
	return id
}
