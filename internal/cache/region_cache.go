package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	regionNamesKey = "regions:names"
	regionNamesTTL = 10 * time.Minute
)

// RegionCache keeps the canonical region list hot in Redis; the list is
// read on every registration/search screen but only changes when a new
// admin region is provisioned.
type RegionCache interface {
	GetNames(ctx context.Context) ([]string, error)
	SetNames(ctx context.Context, names []string) error
	Invalidate(ctx context.Context) error
}

type regionCache struct {
	redis *redis.Client
}

func NewRegionCache(redisClient *redis.Client) RegionCache {
	return &regionCache{redis: redisClient}
}

// GetNames returns the cached list, or nil on a cache miss.
func (c *regionCache) GetNames(ctx context.Context) ([]string, error) {
	data, err := c.redis.Get(ctx, regionNamesKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *regionCache) SetNames(ctx context.Context, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, regionNamesKey, data, regionNamesTTL).Err()
}

func (c *regionCache) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, regionNamesKey).Err()
}
