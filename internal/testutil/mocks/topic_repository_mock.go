package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockTopicRepository is a mock implementation of repository.TopicRepository
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.TopicSuggestion, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopicSuggestion), args.Error(1)
}

func (m *MockTopicRepository) Get(ctx context.Context, name string) (*models.TopicSuggestion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopicSuggestion), args.Error(1)
}

func (m *MockTopicRepository) RecordStart(ctx context.Context, name string) (*models.TopicSuggestion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopicSuggestion), args.Error(1)
}
