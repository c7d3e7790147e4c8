package services

import (
	"context"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/workspace"
)

// QuizService starts the remote calls a workspace needs and routes their
// results back to it
type QuizService interface {
	StartQuiz(ctx context.Context, ws *workspace.Workspace, s models.Settings) error
	Retry(ctx context.Context, ws *workspace.Workspace) error
	ExtractTopic(ctx context.Context, ws *workspace.Workspace, filename string, image []byte) error
}

type quizService struct {
	jobQueue jobs.JobQueue
	topics   TopicService
}

// NewQuizService creates a new QuizService. topics may be nil when no topic
// catalog is available.
func NewQuizService(jobQueue jobs.JobQueue, topics TopicService) QuizService {
	return &quizService{jobQueue: jobQueue, topics: topics}
}

func (s *quizService) StartQuiz(ctx context.Context, ws *workspace.Workspace, settings models.Settings) error {
	log := logger.FromContext(ctx)

	req, err := ws.StartQuiz(settings)
	if err != nil {
		log.Debug("start quiz rejected: %v", err)
		return err
	}
	log.Info("starting quiz: topic=%q count=%d difficulty=%s timer=%s",
		req.Request.Topic, settings.NumberOfQuestions, settings.Difficulty, settings.TimerLabel())

	if s.topics != nil {
		s.topics.RecordStart(ctx, req.Request.Topic)
	}
	s.enqueueGenerate(ctx, ws, req)
	return nil
}

func (s *quizService) Retry(ctx context.Context, ws *workspace.Workspace) error {
	req, err := ws.Retry()
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("retrying quiz: topic=%q", req.Request.Topic)
	s.enqueueGenerate(ctx, ws, req)
	return nil
}

// enqueueGenerate runs the fetch in the background. A rejected job fails the
// session right away so the user gets the usual recovery actions.
func (s *quizService) enqueueGenerate(ctx context.Context, ws *workspace.Workspace, req workspace.LoadRequest) {
	err := s.jobQueue.EnqueueGenerate(req.Ctx, req.Request, func(data models.QuizData, err error) {
		ws.CompleteLoad(req.Token, data.Questions, err)
	})
	if err != nil {
		logger.FromContext(ctx).Warn("could not queue quiz request: %v", err)
		ws.FailLoad(req.Token, errors.NewConflictError("The quiz service is busy. Please try again.", err))
	}
}

func (s *quizService) ExtractTopic(ctx context.Context, ws *workspace.Workspace, filename string, image []byte) error {
	log := logger.FromContext(ctx)

	if len(image) == 0 {
		return errors.NewBadRequestError("uploaded image is empty")
	}

	req, err := ws.BeginExtraction()
	if err != nil {
		return err
	}
	log.Info("extracting topic from %s (%d bytes)", filename, len(image))

	err = s.jobQueue.EnqueueExtract(req.Ctx, filename, image, func(text string, err error) {
		ws.CompleteExtraction(req.Token, text, err)
	})
	if err != nil {
		log.Warn("could not queue extraction: %v", err)
		ws.CompleteExtraction(req.Token, "", errors.NewConflictError("The text reader is busy. Please try again.", err))
	}
	return nil
}
