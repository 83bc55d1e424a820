package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type AssetSource interface {
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
}

// CachedAssetRepository keeps asset metadata in redis in front of the
// database. Redis failures degrade to a direct read.
type CachedAssetRepository struct {
	client *redis.Client
	next   AssetSource
	ttl    time.Duration
}

func NewCachedAssetRepository(client *redis.Client, next AssetSource, ttl time.Duration) *CachedAssetRepository {
	return &CachedAssetRepository{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func assetKey(id string) string {
	return "asset:" + id
}

func (r *CachedAssetRepository) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	data, err := r.client.Get(ctx, assetKey(id)).Bytes()
	switch {
	case err == nil:
		var asset entity.Asset
		if err := json.Unmarshal(data, &asset); err == nil {
			return &asset, nil
		}
		logrus.WithField("asset_id", id).Warn("Dropping unreadable cached asset")
	case !errors.Is(err, redis.Nil):
		logrus.WithError(err).WithField("asset_id", id).Warn("Asset cache read failed")
	}

	asset, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(asset); err == nil {
		if err := r.client.Set(ctx, assetKey(id), data, r.ttl).Err(); err != nil {
			logrus.WithError(err).WithField("asset_id", id).Warn("Asset cache write failed")
		}
	}
	return asset, nil
}
