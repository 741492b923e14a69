package gateway

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// MockGateway is a mock implementation of Gateway using testify/mock.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockGateway) UploadDocument(ctx context.Context, upload domain.Upload) (domain.Document, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *MockGateway) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGateway) RetryDocument(ctx context.Context, id string) (domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *MockGateway) SeedDocuments(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockGateway) GenerateQuiz(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockGateway) QuizProgress(ctx context.Context) ([]domain.Attempt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockGateway) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thread), args.Error(1)
}

func (m *MockGateway) CreateThread(ctx context.Context, req domain.NewThread) (domain.Thread, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Thread), args.Error(1)
}

func (m *MockGateway) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.Thread, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(domain.Thread), args.Error(1)
}

func (m *MockGateway) DeleteThread(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGateway) RecommendVideos(ctx context.Context, documentID string) ([]domain.Video, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Video), args.Error(1)
}
