// File: internal/infra/redis/flag_repo.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"telegram-miniapp-gate/internal/domain"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.FlagStore = (*FlagRepo)(nil)

// FlagRepo keeps the durable per-device flags in Redis. Keys have no TTL:
// the flags survive restarts and are cleared only by their owners.
type FlagRepo struct {
	client RedisClient
	prefix string
}

func NewFlagRepo(client RedisClient, deviceScope string) *FlagRepo {
	if deviceScope == "" {
		deviceScope = "default"
	}
	return &FlagRepo{
		client: client,
		prefix: fmt.Sprintf("miniapp:%s:", deviceScope),
	}
}

const (
	keyIdentity  = "cached_identity"
	keyReferral  = "pending_referral"
	keySeasonAck = "season_ack"
	keyDeviceID  = "device_id"
)

func (f *FlagRepo) key(name string) string { return f.prefix + name }

func (f *FlagRepo) get(ctx context.Context, name string) (string, error) {
	v, err := f.client.Get(ctx, f.key(name))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (f *FlagRepo) CachedIdentity(ctx context.Context) (*model.CachedIdentity, error) {
	raw, err := f.get(ctx, keyIdentity)
	if err != nil {
		return nil, err
	}
	var id model.CachedIdentity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.IsZero() {
		// Unparsable cache is discarded, not surfaced.
		_ = f.client.Del(ctx, f.key(keyIdentity))
		return nil, domain.ErrNotFound
	}
	return &id, nil
}

func (f *FlagRepo) SaveCachedIdentity(ctx context.Context, id *model.CachedIdentity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return f.client.Set(ctx, f.key(keyIdentity), data, 0)
}

func (f *FlagRepo) PendingReferral(ctx context.Context) (string, error) {
	return f.get(ctx, keyReferral)
}

func (f *FlagRepo) SetPendingReferral(ctx context.Context, param string) error {
	return f.client.Set(ctx, f.key(keyReferral), param, 0)
}

func (f *FlagRepo) ClearPendingReferral(ctx context.Context) error {
	return f.client.Del(ctx, f.key(keyReferral))
}

func (f *FlagRepo) SeasonAcknowledged(ctx context.Context) (bool, error) {
	v, err := f.get(ctx, keySeasonAck)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return v == "1", nil
}

func (f *FlagRepo) SetSeasonAcknowledged(ctx context.Context) error {
	return f.client.Set(ctx, f.key(keySeasonAck), "1", 0)
}

func (f *FlagRepo) ClearSeasonAcknowledged(ctx context.Context) error {
	return f.client.Del(ctx, f.key(keySeasonAck))
}

func (f *FlagRepo) DeviceID(ctx context.Context) (string, error) {
	return f.get(ctx, keyDeviceID)
}

func (f *FlagRepo) SaveDeviceID(ctx context.Context, id string) error {
	return f.client.Set(ctx, f.key(keyDeviceID), id, 0)
}
