package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueGenerate(scope context.Context, req models.QuizRequest, deliver func(models.QuizData, error)) error {
	args := m.Called(scope, req, deliver)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueExtract(scope context.Context, filename string, image []byte, deliver func(string, error)) error {
	args := m.Called(scope, filename, image, deliver)
	return args.Error(0)
}
