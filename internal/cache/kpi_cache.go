package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"carrental/internal/domain/models"

	"github.com/go-redis/redis/v8"
)

const kpiKey = "carrental:dashboard:kpi"

// KPICache stores the dashboard KPI snapshot in Redis. Entries only expire
// by TTL; booking writes do not invalidate them.
type KPICache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewKPICache(client *redis.Client, ttl time.Duration) *KPICache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &KPICache{Client: client, TTL: ttl}
}

// Get returns (kpi, true, nil) on a hit and (zero, false, nil) on a miss.
func (c *KPICache) Get(ctx context.Context) (models.KPI, bool, error) {
	raw, err := c.Client.Get(ctx, kpiKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.KPI{}, false, nil
	}
	if err != nil {
		return models.KPI{}, false, err
	}
	var k models.KPI
	if err := json.Unmarshal(raw, &k); err != nil {
		// entri rusak: anggap miss, akan ditimpa
		return models.KPI{}, false, nil
	}
	return k, true, nil
}

func (c *KPICache) Set(ctx context.Context, k models.KPI) error {
	raw, err := json.Marshal(k)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, kpiKey, raw, c.TTL).Err()
}
