package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// Key prefix for cached recommendation lists
const videosKeyPrefix = "videos:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
	}, nil
}

func (c *RedisCache) GetVideos(ctx context.Context, docID string) ([]domain.Video, bool, error) {
	data, err := c.client.Get(ctx, videosKeyPrefix+docID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var videos []domain.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, false, err
	}
	return videos, true, nil
}

func (c *RedisCache) SetVideos(ctx context.Context, docID string, videos []domain.Video, ttl time.Duration) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, videosKeyPrefix+docID, data, ttl).Err()
}

func (c *RedisCache) InvalidateDocument(ctx context.Context, docID string) error {
	return c.client.Del(ctx, videosKeyPrefix+docID).Err()
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
