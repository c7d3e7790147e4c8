package worker

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quizapi"
)

// scoped derives a context that ends when either the worker context or the
// request scope ends. Scope is cancelled when the user navigates away.
func scoped(ctx, scope context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	if scope == nil {
		return ctx, cancel
	}
	if scope.Err() != nil {
		cancel()
		return ctx, cancel
	}
	stop := context.AfterFunc(scope, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// panicError turns a recovered panic into an error so the waiting workspace
// still gets an answer.
func panicError(job string, r any) error {
	return errors.NewInternalError(fmt.Errorf("%s panicked: %v", job, r))
}

// GenerateQuizJob fetches one question set and hands it to Deliver.
type GenerateQuizJob struct {
	Client  quizapi.ClientInterface
	Request models.QuizRequest
	Scope   context.Context
	Deliver func(models.QuizData, error)
}

func (j *GenerateQuizJob) Name() string { return "generate_quiz" }

func (j *GenerateQuizJob) Run(ctx context.Context) (err error) {
	ctx, cancel := scoped(ctx, j.Scope)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(j.Name(), r)
			j.Deliver(models.QuizData{}, err)
		}
	}()

	log := logger.FromContext(ctx).WithField("topic", j.Request.Topic)
	log.Debug("requesting %d %s questions", j.Request.NumberOfQuestions, j.Request.Difficulty)

	var data models.QuizData
	data, err = j.Client.GenerateQuiz(ctx, j.Request)
	j.Deliver(data, err)
	return err
}

// ExtractTextJob uploads an image for OCR and hands the text to Deliver.
type ExtractTextJob struct {
	Client   quizapi.ClientInterface
	Filename string
	Image    []byte
	Scope    context.Context
	Deliver  func(string, error)
}

func (j *ExtractTextJob) Name() string { return "extract_text" }

func (j *ExtractTextJob) Run(ctx context.Context) (err error) {
	ctx, cancel := scoped(ctx, j.Scope)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(j.Name(), r)
			j.Deliver("", err)
		}
	}()

	logger.FromContext(ctx).WithField("filename", j.Filename).Debug("uploading %d bytes", len(j.Image))

	var text string
	text, err = j.Client.ReadImage(ctx, j.Filename, bytes.NewReader(j.Image))
	j.Deliver(text, err)
	return err
}
