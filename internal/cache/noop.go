package cache

import (
	"context"
	"time"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// NoOpCache is a cache implementation that does nothing.
// Used as a fallback when Redis is unavailable or caching is disabled; every
// lookup misses.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetVideos(ctx context.Context, docID string) ([]domain.Video, bool, error) {
	return nil, false, nil
}

func (c *NoOpCache) SetVideos(ctx context.Context, docID string, videos []domain.Video, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) InvalidateDocument(ctx context.Context, docID string) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
