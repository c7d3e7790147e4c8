package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// TopicService serves topic suggestions for the topic entry screen
type TopicService interface {
	Suggestions(ctx context.Context, query string, limit int) ([]models.TopicSuggestion, error)
	RecordStart(ctx context.Context, topic string)
}

type topicService struct {
	topicRepo repository.TopicRepository
}

// NewTopicService creates a new TopicService
func NewTopicService(topicRepo repository.TopicRepository) TopicService {
	return &topicService{topicRepo: topicRepo}
}

func (s *topicService) Suggestions(ctx context.Context, query string, limit int) ([]models.TopicSuggestion, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing topic suggestions: query=%q limit=%d", query, limit)

	if limit < 0 {
		return nil, errors.NewValidationError("limit", "cannot be negative")
	}

	topics, err := s.topicRepo.List(ctx, models.TopicFilter{Query: query, Limit: limit})
	if err != nil {
		log.Error("failed to list topics: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if topics == nil {
		topics = []models.TopicSuggestion{}
	}
	return topics, nil
}

// RecordStart counts a quiz start for a catalog topic. Free-text topics are
// not stored. Failures are logged only; they never block a quiz.
func (s *topicService) RecordStart(ctx context.Context, topic string) {
	log := logger.FromContext(ctx)

	t, err := s.topicRepo.Get(ctx, strings.TrimSpace(topic))
	if stderrors.Is(err, errors.ErrNotFound) {
		log.Debug("topic %q is not in the catalog, not counting it", topic)
		return
	}
	if err != nil {
		log.Warn("failed to look up topic %q: %v", topic, err)
		return
	}
	if _, err := s.topicRepo.RecordStart(ctx, t.Name); err != nil {
		log.Warn("failed to record topic start for %q: %v", topic, err)
	}
}
