package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetPhotoDetails(ctx context.Context, id uuid.UUID) (*port.GetPhotoOutput, error) {
	val, err := c.client.Get(ctx, getCacheKey(id.String())).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var out port.GetPhotoOutput
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}

	return &out, nil
}

// SetPhotoDetails keys the entry's lifetime to the presigned URL: once the
// URL expires the cached payload is useless and must not be served.
func (c *Cache) SetPhotoDetails(ctx context.Context, id uuid.UUID, out *port.GetPhotoOutput) error {
	logger.Debugf(ctx, "creating entry in cache for photo #%s, valid until %s...", id, out.ValidUntil.Format(time.RFC1123))

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	ttl := time.Until(out.ValidUntil)
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, getCacheKey(id.String()), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) DeletePhotoDetails(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "deleting entry in cache for photo #%s...", id)

	if err := c.client.Del(ctx, getCacheKey(id.String())).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id string) string {
	return "photo:" + id
}
