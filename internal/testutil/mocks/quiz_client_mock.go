package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockQuizClient is a mock implementation of quizapi.ClientInterface
type MockQuizClient struct {
	mock.Mock
}

func (m *MockQuizClient) GenerateQuiz(ctx context.Context, req models.QuizRequest) (models.QuizData, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.QuizData), args.Error(1)
}

func (m *MockQuizClient) ReadImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	args := m.Called(ctx, filename, image)
	return args.String(0), args.Error(1)
}
