package projects

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "studio:project:" // studio:project:{project_id}
	cacheTTL       = 15 * time.Minute
)

// Cache is a Redis read cache in front of the project store. It is strictly
// best-effort: a cache miss or a Redis outage falls back to the store, and
// cache errors are logged, never surfaced to callers.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewCache(client *redis.Client, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{client: client, log: log}
}

// Get returns the cached project, or nil on a miss.
func (c *Cache) Get(ctx context.Context, id string) *Project {
	data, err := c.client.Get(ctx, cacheKeyPrefix+id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("project cache read failed", zap.String("project_id", id), zap.Error(err))
		}
		return nil
	}

	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		c.log.Warn("project cache entry corrupt", zap.String("project_id", id), zap.Error(err))
		return nil
	}
	return &p
}

// Put stores the project under its id with a TTL.
func (c *Cache) Put(ctx context.Context, p *Project) {
	data, err := json.Marshal(p)
	if err != nil {
		c.log.Warn("project cache marshal failed", zap.String("project_id", p.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+p.ID, data, cacheTTL).Err(); err != nil {
		c.log.Warn("project cache write failed", zap.String("project_id", p.ID), zap.Error(err))
	}
}
