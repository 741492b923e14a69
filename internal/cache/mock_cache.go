package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetVideos(ctx context.Context, docID string) ([]domain.Video, bool, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Video), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetVideos(ctx context.Context, docID string, videos []domain.Video, ttl time.Duration) error {
	args := m.Called(ctx, docID, videos, ttl)
	return args.Error(0)
}

func (m *MockCache) InvalidateDocument(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
