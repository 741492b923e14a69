package cache

import (
	"context"
	"time"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// Cache holds video recommendations per document.
type Cache interface {
	// GetVideos returns the cached list for a document.
	// ok is false on a miss.
	GetVideos(ctx context.Context, docID string) (videos []domain.Video, ok bool, err error)

	// SetVideos stores the list with TTL
	SetVideos(ctx context.Context, docID string, videos []domain.Video, ttl time.Duration) error

	// InvalidateDocument removes the cached list for a document
	InvalidateDocument(ctx context.Context, docID string) error

	// Close releases the backend
	Close() error
}
