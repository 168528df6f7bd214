package repository

import (
	"context"

	"telegram-miniapp-gate/internal/domain/model"
)

// FlagStore is the durable key/value surface surviving restarts on one
// device. Values are opaque to everything but the components that own
// them. Implementations must return domain.ErrNotFound for absent keys
// and silently discard values they cannot decode.
type FlagStore interface {
	CachedIdentity(ctx context.Context) (*model.CachedIdentity, error)
	SaveCachedIdentity(ctx context.Context, id *model.CachedIdentity) error

	PendingReferral(ctx context.Context) (string, error)
	SetPendingReferral(ctx context.Context, param string) error
	ClearPendingReferral(ctx context.Context) error

	SeasonAcknowledged(ctx context.Context) (bool, error)
	SetSeasonAcknowledged(ctx context.Context) error
	ClearSeasonAcknowledged(ctx context.Context) error

	DeviceID(ctx context.Context) (string, error)
	SaveDeviceID(ctx context.Context, id string) error
}
