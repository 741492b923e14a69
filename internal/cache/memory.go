package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// MemoryCache keeps recommendations in process.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache; entries without an explicit TTL
// use defaultTTL.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *MemoryCache) GetVideos(_ context.Context, docID string) ([]domain.Video, bool, error) {
	v, ok := m.c.Get(docID)
	if !ok {
		return nil, false, nil
	}
	videos := v.([]domain.Video)
	return append([]domain.Video(nil), videos...), true, nil
}

func (m *MemoryCache) SetVideos(_ context.Context, docID string, videos []domain.Video, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(docID, append([]domain.Video(nil), videos...), ttl)
	return nil
}

func (m *MemoryCache) InvalidateDocument(_ context.Context, docID string) error {
	m.c.Delete(docID)
	return nil
}

func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}
