// Package quizapi talks to the remote quiz generation and image text
// extraction service.
package quizapi

import (
	"context"
	"io"

	"github.com/vytor/quizflash/internal/models"
)

// ClientInterface is the remote collaborator used by the jobs and the CLI.
type ClientInterface interface {
	GenerateQuiz(ctx context.Context, req models.QuizRequest) (models.QuizData, error)
	ReadImage(ctx context.Context, filename string, image io.Reader) (string, error)
}

var _ ClientInterface = (*Client)(nil)
