package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// TopicRepository handles the suggested topic catalog
type TopicRepository interface {
	List(ctx context.Context, filter models.TopicFilter) ([]models.TopicSuggestion, error)
	Get(ctx context.Context, name string) (*models.TopicSuggestion, error)
	RecordStart(ctx context.Context, name string) (*models.TopicSuggestion, error)
}
